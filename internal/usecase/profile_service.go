package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/probegapp/probeg/internal/domain/protocol"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// ProfileService links chat identities to runner rows. Registration is
// idempotent per chat: a second registration from the same chat returns
// the already-linked runner.
type ProfileService struct {
	runnerRepo runner.Repository
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewProfileService(runnerRepo runner.Repository, idGen id.Generator, logger *logging.Logger) *ProfileService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileService{
		runnerRepo: runnerRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

type RegisterInput struct {
	TelegramID int64
	FullName   string
	BirthDate  *time.Time
	Gender     string
	City       string
}

// RegisterFromChat resolves the chat user to a runner. An existing
// unlinked runner with a matching name gets linked; otherwise a new
// runner row is created and linked. A runner already linked to another
// chat is never rebound here.
func (s *ProfileService) RegisterFromChat(ctx context.Context, input RegisterInput) (runner.Runner, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.RegisterFromChat")
	defer span.End()

	if input.TelegramID == 0 {
		return runner.Runner{}, false, fmt.Errorf("%w: telegram_id is required", ErrInvalidInput)
	}

	if existing, found, err := s.runnerRepo.GetByTelegramID(ctx, input.TelegramID); err != nil {
		return runner.Runner{}, false, fmt.Errorf("get runner by telegram id: %w", err)
	} else if found {
		return existing, false, nil
	}

	lastName, firstName, middleName := protocol.NormalizeName(input.FullName)
	if lastName == "" {
		return runner.Runner{}, false, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	candidates, err := s.runnerRepo.FindByName(ctx, lastName, firstName, input.BirthDate)
	if err != nil {
		return runner.Runner{}, false, fmt.Errorf("find runner by name: %w", err)
	}
	for _, candidate := range candidates {
		if candidate.IsChatLinked() {
			continue
		}
		if err := s.runnerRepo.LinkTelegram(ctx, candidate.ID, input.TelegramID); err != nil {
			return runner.Runner{}, false, fmt.Errorf("link telegram to runner: %w", err)
		}
		telegramID := input.TelegramID
		candidate.TelegramID = &telegramID
		s.logger.InfoContext(ctx, "chat linked to existing runner", "runner_id", candidate.ID)
		return candidate, false, nil
	}

	runnerID, err := s.idGen.NewID()
	if err != nil {
		return runner.Runner{}, false, fmt.Errorf("generate runner id: %w", err)
	}
	telegramID := input.TelegramID
	now := s.now().UTC()
	created, err := s.runnerRepo.Create(ctx, runner.Runner{
		ID:         runnerID,
		LastName:   lastName,
		FirstName:  firstName,
		MiddleName: middleName,
		BirthDate:  input.BirthDate,
		Gender:     protocol.NormalizeGender(input.Gender),
		City:       protocol.NormalizeCity(input.City),
		TelegramID: &telegramID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return runner.Runner{}, false, fmt.Errorf("create runner: %w", err)
	}
	return created, true, nil
}
