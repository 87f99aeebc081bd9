package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/probegapp/probeg/internal/domain/calendar"
	"github.com/probegapp/probeg/internal/platform/logging"
)

type stubSource struct {
	name   string
	events []calendar.RawEvent
	err    error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchUpcoming(_ context.Context) ([]calendar.RawEvent, error) {
	return s.events, s.err
}

func TestCollectionService_CollectEvents(t *testing.T) {
	t.Parallel()

	today := time.Now().UTC().Format("2006-01-02")
	good := &stubSource{
		name: "good",
		events: []calendar.RawEvent{
			{Name: "Весенний забег", Date: "2099-05-10", Location: "Москва", WebsiteURL: "https://example.com/spring"},
			// Duplicate URL within the run.
			{Name: "Весенний забег (копия)", Date: "2099-05-10", WebsiteURL: "https://example.com/spring"},
			// Today counts as upcoming.
			{Name: "Сегодняшний забег", Date: today},
			// Past events are dropped.
			{Name: "Прошлогодний забег", Date: "2001-05-10"},
			// Unparsable dates are dropped.
			{Name: "Забег без даты", Date: "скоро"},
		},
	}
	broken := &stubSource{name: "broken", err: errors.New("listing endpoint down")}

	raceRepo := newStubRaceRepo()
	service := NewCollectionService(
		[]calendar.Source{good, broken},
		raceRepo,
		newStubOrganizerRepo(),
		newSeqIDGen(),
		logging.NewNop(),
	)

	got, err := service.CollectEvents(context.Background())
	if err != nil {
		t.Fatalf("CollectEvents error: %v", err)
	}

	if got.Sources != 2 || got.SourceErrors != 1 {
		t.Fatalf("unexpected source accounting: %+v", got)
	}
	if got.Fetched != 5 {
		t.Fatalf("expected 5 fetched events, got %d", got.Fetched)
	}
	if got.Created != 2 {
		t.Fatalf("expected 2 created races (dedup, past and unparsable dropped), got %+v", got)
	}
	if len(raceRepo.items) != 2 {
		t.Fatalf("expected 2 stored races, got %d", len(raceRepo.items))
	}

	var reportErrors int
	for _, report := range got.Reports {
		if report.Error != "" {
			reportErrors++
		}
	}
	if reportErrors != 1 {
		t.Fatalf("failing source must surface in reports: %+v", got.Reports)
	}
}

func TestCollectionService_SharedHomepageURLKeepsDistinctEvents(t *testing.T) {
	t.Parallel()

	// Seed calendars list a whole series under one organizer homepage.
	series := &stubSource{
		name: "seed",
		events: []calendar.RawEvent{
			{Name: "Кубок лиги, этап 1", Date: "2099-04-12", WebsiteURL: "https://toplig.ru/"},
			{Name: "Кубок лиги, этап 2", Date: "2099-05-17", WebsiteURL: "https://toplig.ru/"},
			{Name: "Кубок лиги, этап 3", Date: "2099-06-21", WebsiteURL: "https://toplig.ru/"},
			// Same URL and same date is still one event.
			{Name: "Кубок лиги, этап 3 (дубль)", Date: "2099-06-21", WebsiteURL: "https://toplig.ru/"},
		},
	}
	raceRepo := newStubRaceRepo()
	service := NewCollectionService([]calendar.Source{series}, raceRepo, newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	got, err := service.CollectEvents(context.Background())
	if err != nil {
		t.Fatalf("CollectEvents error: %v", err)
	}
	if got.Created != 3 || got.Skipped != 1 {
		t.Fatalf("expected all dated events to survive the shared URL, got %+v", got)
	}
	if len(raceRepo.items) != 3 {
		t.Fatalf("expected 3 stored races, got %d", len(raceRepo.items))
	}

	// A re-run matches the stored rows instead of duplicating them.
	got, err = service.CollectEvents(context.Background())
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if got.Created != 0 {
		t.Fatalf("re-run must not duplicate series events: %+v", got)
	}
	if len(raceRepo.items) != 3 {
		t.Fatalf("expected 3 stored races after re-run, got %d", len(raceRepo.items))
	}
}

func TestCollectionService_SecondRunUpdatesInsteadOfDuplicating(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		name: "good",
		events: []calendar.RawEvent{
			{Name: "Весенний забег", Date: "2099-05-10", WebsiteURL: "https://example.com/spring"},
		},
	}
	raceRepo := newStubRaceRepo()
	service := NewCollectionService([]calendar.Source{source}, raceRepo, newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	if _, err := service.CollectEvents(context.Background()); err != nil {
		t.Fatalf("first run error: %v", err)
	}

	// The next run sees the same event, now carrying a protocol link.
	source.events[0].ProtocolURL = "https://example.com/spring/results.xlsx"
	got, err := service.CollectEvents(context.Background())
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if got.Created != 0 || got.Updated != 1 {
		t.Fatalf("expected an update, not a duplicate: %+v", got)
	}
	if len(raceRepo.items) != 1 {
		t.Fatalf("expected 1 stored race, got %d", len(raceRepo.items))
	}
	for _, item := range raceRepo.items {
		if item.ProtocolURL != "https://example.com/spring/results.xlsx" {
			t.Fatalf("protocol url was not topped up: %+v", item)
		}
	}
}

func TestCollectionService_RejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	service := NewCollectionService(nil, newStubRaceRepo(), newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())
	service.running.Store(true)

	if _, err := service.CollectEvents(context.Background()); !errors.Is(err, ErrNoEffect) {
		t.Fatalf("expected ErrNoEffect while a run is active, got %v", err)
	}
	if !service.IsRunning() {
		t.Fatal("flag must stay owned by the active run")
	}
}
