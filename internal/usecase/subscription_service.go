package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/domain/subscription"
	"github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// SubscriptionService manages protocol-publication subscriptions. A
// runner subscribes to a race and gets a chat message once its results
// land.
type SubscriptionService struct {
	subscriptionRepo subscription.Repository
	raceRepo         race.Repository
	runnerRepo       runner.Repository
	idGen            id.Generator
	logger           *logging.Logger
	now              func() time.Time
}

func NewSubscriptionService(
	subscriptionRepo subscription.Repository,
	raceRepo race.Repository,
	runnerRepo runner.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *SubscriptionService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		raceRepo:         raceRepo,
		runnerRepo:       runnerRepo,
		idGen:            idGen,
		logger:           logger,
		now:              time.Now,
	}
}

// Subscribe is idempotent per (runner, race); re-subscribing returns
// the stored row without error.
func (s *SubscriptionService) Subscribe(ctx context.Context, runnerID, raceID string) (subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.Subscribe")
	defer span.End()

	runnerID = strings.TrimSpace(runnerID)
	raceID = strings.TrimSpace(raceID)
	if runnerID == "" || raceID == "" {
		return subscription.Subscription{}, fmt.Errorf("%w: runner_id and race_id are required", ErrInvalidInput)
	}

	if _, found, err := s.runnerRepo.GetByID(ctx, runnerID); err != nil {
		return subscription.Subscription{}, fmt.Errorf("get runner for subscription: %w", err)
	} else if !found {
		return subscription.Subscription{}, fmt.Errorf("%w: runner=%s", ErrNotFound, runnerID)
	}
	if _, found, err := s.raceRepo.GetByID(ctx, raceID); err != nil {
		return subscription.Subscription{}, fmt.Errorf("get race for subscription: %w", err)
	} else if !found {
		return subscription.Subscription{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}

	subscriptionID, err := s.idGen.NewID()
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("generate subscription id: %w", err)
	}

	stored, created, err := s.subscriptionRepo.Create(ctx, subscription.Subscription{
		ID:        subscriptionID,
		RunnerID:  runnerID,
		RaceID:    raceID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	if !created {
		s.logger.DebugContext(ctx, "duplicate subscription ignored", "runner_id", runnerID, "race_id", raceID)
	}
	return stored, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, runnerID, raceID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.Unsubscribe")
	defer span.End()

	runnerID = strings.TrimSpace(runnerID)
	raceID = strings.TrimSpace(raceID)
	if runnerID == "" || raceID == "" {
		return fmt.Errorf("%w: runner_id and race_id are required", ErrInvalidInput)
	}
	if err := s.subscriptionRepo.Delete(ctx, runnerID, raceID); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *SubscriptionService) ListForRunner(ctx context.Context, runnerID string) ([]subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.ListForRunner")
	defer span.End()

	runnerID = strings.TrimSpace(runnerID)
	if runnerID == "" {
		return nil, fmt.Errorf("%w: runner_id is required", ErrInvalidInput)
	}
	items, err := s.subscriptionRepo.ListByRunner(ctx, runnerID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return items, nil
}
