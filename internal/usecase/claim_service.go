package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/probegapp/probeg/internal/domain/claim"
	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// Notifier delivers short messages to a chat. Claim review outcomes go
// to the claimant this way.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// ClaimService handles the claim lifecycle: a runner asserts ownership
// of a result, a moderator approves or rejects. Only approval moves the
// result to the claimant; rejection touches claim state only.
type ClaimService struct {
	claimRepo  claim.Repository
	resultRepo result.Repository
	runnerRepo runner.Repository
	idGen      id.Generator
	notifier   Notifier
	logger     *logging.Logger
	now        func() time.Time
}

func NewClaimService(
	claimRepo claim.Repository,
	resultRepo result.Repository,
	runnerRepo runner.Repository,
	idGen id.Generator,
	notifier Notifier,
	logger *logging.Logger,
) *ClaimService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ClaimService{
		claimRepo:  claimRepo,
		resultRepo: resultRepo,
		runnerRepo: runnerRepo,
		idGen:      idGen,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit files a pending claim. Re-submitting the same (result, runner)
// pair returns the stored claim without error; claiming a result that
// already belongs to the claimant yields ErrNoEffect.
func (s *ClaimService) Submit(ctx context.Context, resultID, runnerID string, chatID int64) (claim.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClaimService.Submit")
	defer span.End()

	resultID = strings.TrimSpace(resultID)
	runnerID = strings.TrimSpace(runnerID)
	if resultID == "" || runnerID == "" {
		return claim.Claim{}, fmt.Errorf("%w: result_id and runner_id are required", ErrInvalidInput)
	}

	claimed, found, err := s.resultRepo.GetByID(ctx, resultID)
	if err != nil {
		return claim.Claim{}, fmt.Errorf("get result for claim: %w", err)
	}
	if !found {
		return claim.Claim{}, fmt.Errorf("%w: result=%s", ErrNotFound, resultID)
	}
	if claimed.RunnerID == runnerID {
		return claim.Claim{}, fmt.Errorf("%w: result=%s already belongs to runner=%s", ErrNoEffect, resultID, runnerID)
	}
	if _, found, err := s.runnerRepo.GetByID(ctx, runnerID); err != nil {
		return claim.Claim{}, fmt.Errorf("get runner for claim: %w", err)
	} else if !found {
		return claim.Claim{}, fmt.Errorf("%w: runner=%s", ErrNotFound, runnerID)
	}

	claimID, err := s.idGen.NewID()
	if err != nil {
		return claim.Claim{}, fmt.Errorf("generate claim id: %w", err)
	}

	stored, created, err := s.claimRepo.Create(ctx, claim.Claim{
		ID:        claimID,
		ResultID:  resultID,
		RunnerID:  runnerID,
		ChatID:    chatID,
		Status:    claim.StatusPending,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return claim.Claim{}, fmt.Errorf("create claim: %w", err)
	}
	if !created {
		s.logger.DebugContext(ctx, "duplicate claim ignored", "result_id", resultID, "runner_id", runnerID)
	}
	return stored, nil
}

// Approve reassigns the claimed result to the claimant and closes the
// claim. An already-reviewed claim yields ErrNoEffect.
func (s *ClaimService) Approve(ctx context.Context, claimID, reviewedBy, comment string) (claim.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClaimService.Approve")
	defer span.End()

	item, err := s.pendingClaim(ctx, claimID)
	if err != nil {
		return claim.Claim{}, err
	}

	if err := s.resultRepo.Reassign(ctx, item.ResultID, item.RunnerID); err != nil {
		return claim.Claim{}, fmt.Errorf("reassign result %s to runner %s: %w", item.ResultID, item.RunnerID, err)
	}
	if err := s.claimRepo.SetStatus(ctx, item.ID, claim.StatusApproved, strings.TrimSpace(reviewedBy), strings.TrimSpace(comment)); err != nil {
		return claim.Claim{}, fmt.Errorf("set claim status: %w", err)
	}

	item.Status = claim.StatusApproved
	item.ReviewedBy = strings.TrimSpace(reviewedBy)
	item.Comment = strings.TrimSpace(comment)
	reviewedAt := s.now().UTC()
	item.ReviewedAt = &reviewedAt

	s.notifyClaimant(ctx, item, "Ваша заявка на результат подтверждена.")
	return item, nil
}

// Reject closes the claim without touching result ownership.
func (s *ClaimService) Reject(ctx context.Context, claimID, reviewedBy, comment string) (claim.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClaimService.Reject")
	defer span.End()

	item, err := s.pendingClaim(ctx, claimID)
	if err != nil {
		return claim.Claim{}, err
	}

	if err := s.claimRepo.SetStatus(ctx, item.ID, claim.StatusRejected, strings.TrimSpace(reviewedBy), strings.TrimSpace(comment)); err != nil {
		return claim.Claim{}, fmt.Errorf("set claim status: %w", err)
	}

	item.Status = claim.StatusRejected
	item.ReviewedBy = strings.TrimSpace(reviewedBy)
	item.Comment = strings.TrimSpace(comment)
	reviewedAt := s.now().UTC()
	item.ReviewedAt = &reviewedAt

	s.notifyClaimant(ctx, item, "Ваша заявка на результат отклонена.")
	return item, nil
}

func (s *ClaimService) ListPending(ctx context.Context) ([]claim.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClaimService.ListPending")
	defer span.End()

	items, err := s.claimRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending claims: %w", err)
	}
	return items, nil
}

func (s *ClaimService) pendingClaim(ctx context.Context, claimID string) (claim.Claim, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return claim.Claim{}, fmt.Errorf("%w: claim_id is required", ErrInvalidInput)
	}

	item, found, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return claim.Claim{}, fmt.Errorf("get claim: %w", err)
	}
	if !found {
		return claim.Claim{}, fmt.Errorf("%w: claim=%s", ErrNotFound, claimID)
	}
	if item.IsTerminal() {
		return claim.Claim{}, fmt.Errorf("%w: claim=%s already %s", ErrNoEffect, claimID, item.Status)
	}
	return item, nil
}

func (s *ClaimService) notifyClaimant(ctx context.Context, item claim.Claim, text string) {
	if s.notifier == nil || item.ChatID == 0 {
		return
	}
	if err := s.notifier.SendMessage(ctx, item.ChatID, text); err != nil {
		s.logger.WarnContext(ctx, "claim notification failed", "claim_id", item.ID, "chat_id", item.ChatID, "error", err)
	}
}
