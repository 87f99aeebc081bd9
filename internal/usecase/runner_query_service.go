package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// RunnerQueryService serves runner profiles and their result history.
type RunnerQueryService struct {
	runnerRepo runner.Repository
	resultRepo result.Repository
	logger     *logging.Logger
}

func NewRunnerQueryService(runnerRepo runner.Repository, resultRepo result.Repository, logger *logging.Logger) *RunnerQueryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RunnerQueryService{
		runnerRepo: runnerRepo,
		resultRepo: resultRepo,
		logger:     logger,
	}
}

func (s *RunnerQueryService) GetByID(ctx context.Context, runnerID string) (runner.Runner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunnerQueryService.GetByID")
	defer span.End()

	return s.requireRunner(ctx, runnerID)
}

func (s *RunnerQueryService) GetByTelegramID(ctx context.Context, telegramID int64) (runner.Runner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunnerQueryService.GetByTelegramID")
	defer span.End()

	if telegramID == 0 {
		return runner.Runner{}, fmt.Errorf("%w: telegram_id is required", ErrInvalidInput)
	}
	item, found, err := s.runnerRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return runner.Runner{}, fmt.Errorf("get runner by telegram id: %w", err)
	}
	if !found {
		return runner.Runner{}, fmt.Errorf("%w: telegram_id=%d", ErrNotFound, telegramID)
	}
	return item, nil
}

// Results returns the runner's stored finishes, newest race first per
// the repository ordering contract.
func (s *RunnerQueryService) Results(ctx context.Context, runnerID string) ([]result.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunnerQueryService.Results")
	defer span.End()

	if _, err := s.requireRunner(ctx, runnerID); err != nil {
		return nil, err
	}
	items, err := s.resultRepo.ListByRunner(ctx, runnerID)
	if err != nil {
		return nil, fmt.Errorf("list results for runner: %w", err)
	}
	return items, nil
}

// PersonalBests returns the fastest finish per distance label.
func (s *RunnerQueryService) PersonalBests(ctx context.Context, runnerID string) ([]result.PersonalBest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunnerQueryService.PersonalBests")
	defer span.End()

	if _, err := s.requireRunner(ctx, runnerID); err != nil {
		return nil, err
	}
	items, err := s.resultRepo.PersonalBests(ctx, runnerID)
	if err != nil {
		return nil, fmt.Errorf("list personal bests: %w", err)
	}
	return items, nil
}

func (s *RunnerQueryService) requireRunner(ctx context.Context, runnerID string) (runner.Runner, error) {
	runnerID = strings.TrimSpace(runnerID)
	if runnerID == "" {
		return runner.Runner{}, fmt.Errorf("%w: runner_id is required", ErrInvalidInput)
	}
	item, found, err := s.runnerRepo.GetByID(ctx, runnerID)
	if err != nil {
		return runner.Runner{}, fmt.Errorf("get runner: %w", err)
	}
	if !found {
		return runner.Runner{}, fmt.Errorf("%w: runner=%s", ErrNotFound, runnerID)
	}
	return item, nil
}
