package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/submission"
	"github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// SubmissionService moderates user-suggested races. A submission enters
// pending, a moderator approves or rejects; approval publishes the race
// to the calendar unless an equivalent race already exists, in which
// case the submission links to the stored one.
type SubmissionService struct {
	submissionRepo submission.Repository
	raceRepo       race.Repository
	idGen          id.Generator
	notifier       Notifier
	logger         *logging.Logger
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo submission.Repository,
	raceRepo race.Repository,
	idGen id.Generator,
	notifier Notifier,
	logger *logging.Logger,
) *SubmissionService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SubmissionService{
		submissionRepo: submissionRepo,
		raceRepo:       raceRepo,
		idGen:          idGen,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

type SubmitRaceInput struct {
	ChatID     int64
	Name       string
	Date       time.Time
	Location   string
	WebsiteURL string
}

func (s *SubmissionService) Submit(ctx context.Context, input SubmitRaceInput) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Submit")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return submission.Submission{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return submission.Submission{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	submissionID, err := s.idGen.NewID()
	if err != nil {
		return submission.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}

	stored, err := s.submissionRepo.Create(ctx, submission.Submission{
		ID:         submissionID,
		ChatID:     input.ChatID,
		Name:       name,
		Date:       input.Date.UTC(),
		Location:   strings.TrimSpace(input.Location),
		WebsiteURL: strings.TrimSpace(input.WebsiteURL),
		Status:     submission.StatusPending,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return submission.Submission{}, fmt.Errorf("create submission: %w", err)
	}
	return stored, nil
}

// Approve publishes the suggested race. An equivalent stored race (same
// website URL, else same name and date) is reused instead of creating a
// duplicate entry.
func (s *SubmissionService) Approve(ctx context.Context, submissionID, reviewedBy, comment string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Approve")
	defer span.End()

	item, err := s.pendingSubmission(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, err
	}

	raceID, err := s.resolveRace(ctx, item)
	if err != nil {
		return submission.Submission{}, err
	}

	reviewedBy = strings.TrimSpace(reviewedBy)
	comment = strings.TrimSpace(comment)
	if err := s.submissionRepo.SetStatus(ctx, item.ID, submission.StatusApproved, reviewedBy, comment, raceID); err != nil {
		return submission.Submission{}, fmt.Errorf("set submission status: %w", err)
	}

	item.Status = submission.StatusApproved
	item.ReviewedBy = reviewedBy
	item.Comment = comment
	item.CreatedRaceID = raceID
	reviewedAt := s.now().UTC()
	item.ReviewedAt = &reviewedAt

	s.notifySubmitter(ctx, item, "Предложенный вами забег добавлен в календарь.")
	return item, nil
}

func (s *SubmissionService) Reject(ctx context.Context, submissionID, reviewedBy, comment string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Reject")
	defer span.End()

	item, err := s.pendingSubmission(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, err
	}

	reviewedBy = strings.TrimSpace(reviewedBy)
	comment = strings.TrimSpace(comment)
	if err := s.submissionRepo.SetStatus(ctx, item.ID, submission.StatusRejected, reviewedBy, comment, ""); err != nil {
		return submission.Submission{}, fmt.Errorf("set submission status: %w", err)
	}

	item.Status = submission.StatusRejected
	item.ReviewedBy = reviewedBy
	item.Comment = comment
	reviewedAt := s.now().UTC()
	item.ReviewedAt = &reviewedAt

	s.notifySubmitter(ctx, item, "Предложенный вами забег не прошёл модерацию.")
	return item, nil
}

func (s *SubmissionService) ListPending(ctx context.Context) ([]submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.ListPending")
	defer span.End()

	items, err := s.submissionRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	return items, nil
}

func (s *SubmissionService) resolveRace(ctx context.Context, item submission.Submission) (string, error) {
	if item.WebsiteURL != "" {
		existing, found, err := s.raceRepo.GetByWebsiteURL(ctx, item.WebsiteURL)
		if err != nil {
			return "", fmt.Errorf("get race by website url: %w", err)
		}
		// A URL shared by a race series only identifies this event
		// together with its date.
		if found && existing.Date.Equal(item.Date) {
			return existing.ID, nil
		}
	}
	existing, found, err := s.raceRepo.GetByNameAndDate(ctx, item.Name, item.Date)
	if err != nil {
		return "", fmt.Errorf("get race by name and date: %w", err)
	}
	if found {
		return existing.ID, nil
	}

	raceID, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate race id: %w", err)
	}
	created, err := s.raceRepo.Create(ctx, race.Race{
		ID:         raceID,
		Name:       item.Name,
		Date:       item.Date,
		Location:   item.Location,
		WebsiteURL: item.WebsiteURL,
		Source:     "UserSubmitted",
		IsActive:   true,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("create race from submission: %w", err)
	}
	return created.ID, nil
}

func (s *SubmissionService) pendingSubmission(ctx context.Context, submissionID string) (submission.Submission, error) {
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return submission.Submission{}, fmt.Errorf("%w: submission_id is required", ErrInvalidInput)
	}

	item, found, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	if !found {
		return submission.Submission{}, fmt.Errorf("%w: submission=%s", ErrNotFound, submissionID)
	}
	if item.IsTerminal() {
		return submission.Submission{}, fmt.Errorf("%w: submission=%s already %s", ErrNoEffect, submissionID, item.Status)
	}
	return item, nil
}

func (s *SubmissionService) notifySubmitter(ctx context.Context, item submission.Submission, text string) {
	if s.notifier == nil || item.ChatID == 0 {
		return
	}
	if err := s.notifier.SendMessage(ctx, item.ChatID, text); err != nil {
		s.logger.WarnContext(ctx, "submission notification failed", "submission_id", item.ID, "chat_id", item.ChatID, "error", err)
	}
}
