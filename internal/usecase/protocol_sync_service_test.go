package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/probegapp/probeg/internal/domain/protocol"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/domain/subscription"
	"github.com/probegapp/probeg/internal/extract"
	"github.com/probegapp/probeg/internal/platform/logging"
)

type stubPageExtractor struct {
	rows map[string][]protocol.RawRow
}

func (s *stubPageExtractor) ExtractResults(_ context.Context, pageURL string) ([]protocol.RawRow, error) {
	rows, ok := s.rows[pageURL]
	if !ok {
		return nil, fmt.Errorf("no rows for %s", pageURL)
	}
	return rows, nil
}

func newProtocolSyncFixture() (*ProtocolSyncService, *stubRaceRepo, *stubResultRepo, *recordingNotifier) {
	runnerRepo := newStubRunnerRepo()
	raceRepo := newStubRaceRepo()
	resultRepo := newStubResultRepo()
	importSvc := NewImportService(runnerRepo, raceRepo, resultRepo, newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	notifier := &recordingNotifier{}
	pages := &stubPageExtractor{rows: map[string][]protocol.RawRow{
		"https://results.example.com/race-page": {
			{"place": "1", "name": "Иванов Иван", "time": "25:10"},
		},
	}}

	subscriptionRepo := newStubSubscriptionRepo()
	service := NewProtocolSyncService(raceRepo, subscriptionRepo, runnerRepo, importSvc, pages, notifier, ProtocolSyncConfig{Workers: 2}, logging.NewNop())
	service.download = func(_ context.Context, _ string) (string, func(), error) {
		return "/tmp/protocol.xlsx", func() {}, nil
	}
	service.fromFile = func(_ string, _ extract.Options) ([]protocol.RawRow, error) {
		return []protocol.RawRow{
			{"place": "1", "name": "Петров Пётр", "time": "26:45"},
			{"name": "ИТОГО"},
		}, nil
	}

	telegramID := int64(909)
	runnerRepo.items["sub"] = runner.Runner{ID: "sub", LastName: "Сидоров", FirstName: "Семён", TelegramID: &telegramID}
	return service, raceRepo, resultRepo, notifier
}

func TestProtocolSyncService_DocumentAndPagePaths(t *testing.T) {
	t.Parallel()

	service, raceRepo, resultRepo, _ := newProtocolSyncFixture()
	date := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	raceRepo.items["doc"] = race.Race{
		ID: "doc", Name: "Документный забег", Date: date,
		ProtocolURL: "https://files.example.com/results.xlsx", Source: "test",
	}
	raceRepo.items["page"] = race.Race{
		ID: "page", Name: "Страничный забег", Date: date,
		ProtocolURL: "https://results.example.com/race-page", Source: "test",
	}

	got, err := service.SyncProtocols(context.Background(), ProtocolSyncInput{})
	if err != nil {
		t.Fatalf("SyncProtocols error: %v", err)
	}

	if got.Races != 2 || got.Imported != 2 || got.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.ResultsAdded != 2 {
		t.Fatalf("expected 2 results across both paths, got %+v", got)
	}
	if len(resultRepo.items) != 2 {
		t.Fatalf("expected 2 stored results, got %d", len(resultRepo.items))
	}
}

func TestProtocolSyncService_FailureIsolated(t *testing.T) {
	t.Parallel()

	service, raceRepo, _, _ := newProtocolSyncFixture()
	date := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	raceRepo.items["ok"] = race.Race{
		ID: "ok", Name: "Рабочий забег", Date: date,
		ProtocolURL: "https://results.example.com/race-page", Source: "test",
	}
	raceRepo.items["bad"] = race.Race{
		ID: "bad", Name: "Сломанный забег", Date: date,
		ProtocolURL: "https://results.example.com/unknown-page", Source: "test",
	}

	got, err := service.SyncProtocols(context.Background(), ProtocolSyncInput{})
	if err != nil {
		t.Fatalf("SyncProtocols error: %v", err)
	}
	if got.Imported != 1 || got.Failed != 1 {
		t.Fatalf("one race must fail in isolation: %+v", got)
	}
}

func TestProtocolSyncService_NotifiesSubscribers(t *testing.T) {
	t.Parallel()

	service, raceRepo, _, notifier := newProtocolSyncFixture()
	date := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	raceRepo.items["page"] = race.Race{
		ID: "page", Name: "Страничный забег", Date: date,
		ProtocolURL: "https://results.example.com/race-page", Source: "test",
	}
	service.subscriptionRepo.(*stubSubscriptionRepo).items = []subscription.Subscription{
		{ID: "s1", RunnerID: "sub", RaceID: "page"},
	}

	if _, err := service.SyncProtocols(context.Background(), ProtocolSyncInput{}); err != nil {
		t.Fatalf("SyncProtocols error: %v", err)
	}

	if len(notifier.sent) != 1 || notifier.sent[0].chatID != 909 {
		t.Fatalf("subscriber must receive one message, got %+v", notifier.sent)
	}
}

type stubSubscriptionRepo struct {
	mu    sync.Mutex
	items []subscription.Subscription
}

func newStubSubscriptionRepo() *stubSubscriptionRepo {
	return &stubSubscriptionRepo{}
}

func (s *stubSubscriptionRepo) Create(_ context.Context, item subscription.Subscription) (subscription.Subscription, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.RunnerID == item.RunnerID && existing.RaceID == item.RaceID {
			return existing, false, nil
		}
	}
	s.items = append(s.items, item)
	return item, true, nil
}

func (s *stubSubscriptionRepo) ListByRace(_ context.Context, raceID string) ([]subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []subscription.Subscription
	for _, item := range s.items {
		if item.RaceID == raceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSubscriptionRepo) ListByRunner(_ context.Context, runnerID string) ([]subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []subscription.Subscription
	for _, item := range s.items {
		if item.RunnerID == runnerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSubscriptionRepo) Delete(_ context.Context, runnerID, raceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.RunnerID == runnerID && item.RaceID == raceID {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return nil
}

func (s *stubSubscriptionRepo) DeleteByRunner(_ context.Context, runnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.RunnerID == runnerID {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return nil
}
