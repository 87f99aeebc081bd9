package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/probegapp/probeg/internal/domain/claim"
	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/platform/logging"
)

func newClaimFixture(t *testing.T) (*ClaimService, *stubResultRepo, *stubClaimRepo, *recordingNotifier) {
	t.Helper()

	runnerRepo := newStubRunnerRepo()
	telegramID := int64(555)
	runnerRepo.items["owner"] = runner.Runner{ID: "owner", LastName: "Иванов", FirstName: "Иван"}
	runnerRepo.items["claimant"] = runner.Runner{ID: "claimant", LastName: "Петров", FirstName: "Пётр", TelegramID: &telegramID}

	resultRepo := newStubResultRepo()
	seconds := 1510
	item := result.Result{ID: "res-1", RunnerID: "owner", RaceID: "race-1", Distance: "5 км", FinishSeconds: &seconds}
	resultRepo.items[resultKey(item)] = item

	claimRepo := newStubClaimRepo()
	notifier := &recordingNotifier{}
	service := NewClaimService(claimRepo, resultRepo, runnerRepo, newSeqIDGen(), notifier, logging.NewNop())
	return service, resultRepo, claimRepo, notifier
}

func TestClaimService_Lifecycle_Approve(t *testing.T) {
	t.Parallel()

	service, resultRepo, _, notifier := newClaimFixture(t)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "res-1", "claimant", 555)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if submitted.Status != claim.StatusPending {
		t.Fatalf("expected pending claim, got %q", submitted.Status)
	}

	approved, err := service.Approve(ctx, submitted.ID, "moderator", "видно по фото")
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if approved.Status != claim.StatusApproved || approved.ReviewedBy != "moderator" || approved.ReviewedAt == nil {
		t.Fatalf("unexpected approved claim: %+v", approved)
	}

	stored, found, err := resultRepo.GetByID(ctx, "res-1")
	if err != nil || !found {
		t.Fatalf("result lookup failed: found=%v err=%v", found, err)
	}
	if stored.RunnerID != "claimant" {
		t.Fatalf("approval must reassign the result, owner=%q", stored.RunnerID)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].chatID != 555 {
		t.Fatalf("claimant must be notified, sent=%+v", notifier.sent)
	}
}

func TestClaimService_Reject_KeepsOwnership(t *testing.T) {
	t.Parallel()

	service, resultRepo, _, _ := newClaimFixture(t)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "res-1", "claimant", 555)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	rejected, err := service.Reject(ctx, submitted.ID, "moderator", "не совпадает год рождения")
	if err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if rejected.Status != claim.StatusRejected {
		t.Fatalf("expected rejected claim, got %q", rejected.Status)
	}

	stored, _, err := resultRepo.GetByID(ctx, "res-1")
	if err != nil {
		t.Fatalf("result lookup failed: %v", err)
	}
	if stored.RunnerID != "owner" {
		t.Fatalf("rejection must not touch ownership, owner=%q", stored.RunnerID)
	}
}

func TestClaimService_DuplicateSubmitIsNoOp(t *testing.T) {
	t.Parallel()

	service, _, claimRepo, _ := newClaimFixture(t)
	ctx := context.Background()

	first, err := service.Submit(ctx, "res-1", "claimant", 555)
	if err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	second, err := service.Submit(ctx, "res-1", "claimant", 555)
	if err != nil {
		t.Fatalf("duplicate Submit must not error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate submit must return the stored claim: first=%q second=%q", first.ID, second.ID)
	}

	pending, err := claimRepo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected exactly one pending claim, got %d", len(pending))
	}
}

func TestClaimService_ReviewTwiceYieldsNoEffect(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newClaimFixture(t)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "res-1", "claimant", 555)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := service.Approve(ctx, submitted.ID, "moderator", ""); err != nil {
		t.Fatalf("Approve error: %v", err)
	}

	if _, err := service.Approve(ctx, submitted.ID, "moderator", ""); !errors.Is(err, ErrNoEffect) {
		t.Fatalf("expected ErrNoEffect on second review, got %v", err)
	}
	if _, err := service.Reject(ctx, submitted.ID, "moderator", ""); !errors.Is(err, ErrNoEffect) {
		t.Fatalf("expected ErrNoEffect on reject after approve, got %v", err)
	}
}

func TestClaimService_SubmitUnknownResult(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newClaimFixture(t)

	if _, err := service.Submit(context.Background(), "missing", "claimant", 555); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClaimService_SubmitOwnResultRejected(t *testing.T) {
	t.Parallel()

	service, _, claimRepo, _ := newClaimFixture(t)
	ctx := context.Background()

	// res-1 already belongs to "owner"; claiming it again is pointless.
	if _, err := service.Submit(ctx, "res-1", "owner", 555); !errors.Is(err, ErrNoEffect) {
		t.Fatalf("expected ErrNoEffect for an own-result claim, got %v", err)
	}

	pending, err := claimRepo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("own-result claim must not be stored, got %d pending", len(pending))
	}
}

type stubClaimRepo struct {
	mu    sync.Mutex
	items map[string]claim.Claim
}

func newStubClaimRepo() *stubClaimRepo {
	return &stubClaimRepo{items: make(map[string]claim.Claim)}
}

func (s *stubClaimRepo) Create(_ context.Context, item claim.Claim) (claim.Claim, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ResultID == item.ResultID && existing.RunnerID == item.RunnerID {
			return existing, false, nil
		}
	}
	s.items[item.ID] = item
	return item, true, nil
}

func (s *stubClaimRepo) GetByID(_ context.Context, claimID string) (claim.Claim, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[claimID]
	return item, ok, nil
}

func (s *stubClaimRepo) ListPending(_ context.Context) ([]claim.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []claim.Claim
	for _, item := range s.items {
		if item.Status == claim.StatusPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubClaimRepo) SetStatus(_ context.Context, claimID, status, reviewedBy, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[claimID]
	if !ok {
		return fmt.Errorf("claim %s not found", claimID)
	}
	item.Status = status
	item.ReviewedBy = reviewedBy
	item.Comment = comment
	s.items[claimID] = item
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) SendMessage(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}
