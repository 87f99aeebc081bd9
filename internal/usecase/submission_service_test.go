package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/probegapp/probeg/internal/domain/feedback"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/submission"
	"github.com/probegapp/probeg/internal/platform/logging"
)

type stubSubmissionRepo struct {
	mu    sync.Mutex
	items map[string]submission.Submission
	order []string
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{items: make(map[string]submission.Submission)}
}

func (s *stubSubmissionRepo) Create(_ context.Context, item submission.Submission) (submission.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return item, nil
}

func (s *stubSubmissionRepo) GetByID(_ context.Context, submissionID string) (submission.Submission, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[submissionID]
	return item, ok, nil
}

func (s *stubSubmissionRepo) ListPending(_ context.Context) ([]submission.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []submission.Submission
	for _, id := range s.order {
		if item := s.items[id]; item.Status == submission.StatusPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSubmissionRepo) SetStatus(_ context.Context, submissionID, status, reviewedBy, comment, createdRaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[submissionID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	item.Status = status
	item.ReviewedBy = reviewedBy
	item.Comment = comment
	item.CreatedRaceID = createdRaceID
	item.ReviewedAt = &now
	s.items[submissionID] = item
	return nil
}

func newSubmissionFixture() (*SubmissionService, *stubSubmissionRepo, *stubRaceRepo, *recordingNotifier) {
	submissionRepo := newStubSubmissionRepo()
	raceRepo := newStubRaceRepo()
	notifier := &recordingNotifier{}
	service := NewSubmissionService(submissionRepo, raceRepo, newSeqIDGen(), notifier, logging.NewNop())
	return service, submissionRepo, raceRepo, notifier
}

func TestSubmissionService_ApprovePublishesRace(t *testing.T) {
	t.Parallel()

	service, _, raceRepo, notifier := newSubmissionFixture()
	ctx := context.Background()

	submitted, err := service.Submit(ctx, SubmitRaceInput{
		ChatID:   555,
		Name:     "Ночной забег",
		Date:     time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Location: "Казань",
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if submitted.Status != submission.StatusPending {
		t.Fatalf("expected pending submission, got %q", submitted.Status)
	}

	approved, err := service.Approve(ctx, submitted.ID, "moderator", "")
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if approved.Status != submission.StatusApproved || approved.CreatedRaceID == "" {
		t.Fatalf("unexpected approved submission: %+v", approved)
	}

	created, found, err := raceRepo.GetByID(ctx, approved.CreatedRaceID)
	if err != nil || !found {
		t.Fatalf("created race lookup failed: found=%v err=%v", found, err)
	}
	if created.Name != "Ночной забег" || created.Source != "UserSubmitted" || !created.IsActive {
		t.Fatalf("unexpected created race: %+v", created)
	}

	if len(notifier.sent) != 1 || notifier.sent[0].chatID != 555 {
		t.Fatalf("expected one notification to the submitter, got %+v", notifier.sent)
	}
}

func TestSubmissionService_ApproveReusesStoredRace(t *testing.T) {
	t.Parallel()

	service, _, raceRepo, _ := newSubmissionFixture()
	ctx := context.Background()

	existing := race.Race{
		ID:         "race-1",
		Name:       "Осенний трейл",
		Date:       time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		WebsiteURL: "https://example.com/trail",
	}
	if _, err := raceRepo.Create(ctx, existing); err != nil {
		t.Fatalf("seed race: %v", err)
	}

	submitted, err := service.Submit(ctx, SubmitRaceInput{
		Name:       "Осенний трейл 2026",
		Date:       existing.Date,
		WebsiteURL: "https://example.com/Trail",
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	approved, err := service.Approve(ctx, submitted.ID, "moderator", "")
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if approved.CreatedRaceID != existing.ID {
		t.Fatalf("expected link to stored race %q, got %q", existing.ID, approved.CreatedRaceID)
	}
}

func TestSubmissionService_ReviewIsTerminal(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newSubmissionFixture()
	ctx := context.Background()

	submitted, err := service.Submit(ctx, SubmitRaceInput{
		Name: "Зимний полумарафон",
		Date: time.Date(2027, 1, 17, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if _, err := service.Reject(ctx, submitted.ID, "moderator", "нет подтверждения"); err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if _, err := service.Approve(ctx, submitted.ID, "moderator", ""); !errors.Is(err, ErrNoEffect) {
		t.Fatalf("expected ErrNoEffect on second review, got %v", err)
	}
}

type stubFeedbackRepo struct {
	mu    sync.Mutex
	items []feedback.Feedback
}

func (s *stubFeedbackRepo) Create(_ context.Context, item feedback.Feedback) (feedback.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubFeedbackRepo) List(_ context.Context, limit int) ([]feedback.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]feedback.Feedback, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func TestFeedbackService_SubmitValidatesMessage(t *testing.T) {
	t.Parallel()

	service := NewFeedbackService(&stubFeedbackRepo{}, newSeqIDGen(), logging.NewNop())
	ctx := context.Background()

	if _, err := service.Submit(ctx, 555, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank message, got %v", err)
	}
	if _, err := service.Submit(ctx, 555, strings.Repeat("ы", maxFeedbackLength+1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized message, got %v", err)
	}

	stored, err := service.Submit(ctx, 555, "  Добавьте фильтр по региону  ")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if stored.Message != "Добавьте фильтр по региону" {
		t.Fatalf("message not trimmed: %q", stored.Message)
	}

	items, err := service.List(ctx, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 1 || items[0].ID != stored.ID {
		t.Fatalf("unexpected feedback listing: %+v", items)
	}
}
