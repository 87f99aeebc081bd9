package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/probegapp/probeg/internal/domain/organizer"
	"github.com/probegapp/probeg/internal/domain/protocol"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/platform/logging"
)

func TestImportService_ImportProtocol_EndToEnd(t *testing.T) {
	t.Parallel()

	runnerRepo := newStubRunnerRepo()
	raceRepo := newStubRaceRepo()
	resultRepo := newStubResultRepo()
	service := NewImportService(runnerRepo, raceRepo, resultRepo, newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	stats, err := service.ImportProtocol(context.Background(), ImportInput{
		RaceName: "Тестовый забег",
		RaceDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Source:   "test",
		Rows: []protocol.RawRow{
			{"place": "1", "name": "Иванов Иван", "time": "25:10", "distance": "5 км"},
			{"place": "2", "name": "Петров Пётр", "time": "26:45", "distance": "5 км"},
			{"name": "Всего участников: 120"},
		},
	})
	if err != nil {
		t.Fatalf("ImportProtocol error: %v", err)
	}

	if stats.RacesCreated != 1 || stats.RunnersCreated != 2 || stats.ResultsAdded != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.RowsSkipped != 1 || stats.Errors != 0 {
		t.Fatalf("noise row must be skipped without error: %+v", stats)
	}
	if len(raceRepo.items) != 1 {
		t.Fatalf("expected 1 race, got %d", len(raceRepo.items))
	}
	if len(runnerRepo.items) != 2 {
		t.Fatalf("expected 2 runners, got %d", len(runnerRepo.items))
	}
	if len(resultRepo.items) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resultRepo.items))
	}

	for _, item := range resultRepo.items {
		if item.TotalFinishers == nil || *item.TotalFinishers != 2 {
			t.Fatalf("expected total finishers 2, got %+v", item.TotalFinishers)
		}
	}
}

func TestImportService_ImportProtocol_Idempotent(t *testing.T) {
	t.Parallel()

	runnerRepo := newStubRunnerRepo()
	raceRepo := newStubRaceRepo()
	resultRepo := newStubResultRepo()
	service := NewImportService(runnerRepo, raceRepo, resultRepo, newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	input := ImportInput{
		RaceName:   "Тестовый забег",
		RaceDate:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		WebsiteURL: "https://example.com/race",
		Source:     "test",
		Rows: []protocol.RawRow{
			{"place": "1", "name": "Иванов Иван", "time": "25:10", "distance": "5 км"},
			{"place": "2", "name": "Петров Пётр", "time": "26:45", "distance": "5 км"},
		},
	}

	if _, err := service.ImportProtocol(context.Background(), input); err != nil {
		t.Fatalf("first import error: %v", err)
	}
	stats, err := service.ImportProtocol(context.Background(), input)
	if err != nil {
		t.Fatalf("second import error: %v", err)
	}

	if stats.RacesCreated != 0 || stats.RunnersCreated != 0 || stats.ResultsAdded != 0 {
		t.Fatalf("re-import must not create rows: %+v", stats)
	}
	if stats.RunnersFound != 2 || stats.ResultsUpdated != 2 {
		t.Fatalf("re-import must resolve existing rows: %+v", stats)
	}
	if len(resultRepo.items) != 2 || len(runnerRepo.items) != 2 || len(raceRepo.items) != 1 {
		t.Fatalf("row counts changed on re-import: results=%d runners=%d races=%d",
			len(resultRepo.items), len(runnerRepo.items), len(raceRepo.items))
	}
}

func TestImportService_FindOrCreateRunner_PrefersChatLinked(t *testing.T) {
	t.Parallel()

	telegramID := int64(777)
	runnerRepo := newStubRunnerRepo()
	runnerRepo.items["plain"] = runner.Runner{ID: "plain", LastName: "Иванов", FirstName: "Иван"}
	runnerRepo.items["linked"] = runner.Runner{ID: "linked", LastName: "Иванов", FirstName: "Иван", TelegramID: &telegramID}

	service := NewImportService(runnerRepo, newStubRaceRepo(), newStubResultRepo(), newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	got, created, err := service.FindOrCreateRunner(context.Background(), protocol.NormalizedRow{
		LastName:  "Иванов",
		FirstName: "Иван",
	})
	if err != nil {
		t.Fatalf("FindOrCreateRunner error: %v", err)
	}
	if created {
		t.Fatal("expected an existing runner")
	}
	if got.ID != "linked" {
		t.Fatalf("expected the chat-linked runner to win, got %q", got.ID)
	}
}

func TestImportService_FindOrCreateRace_URLBeforeNameAndDate(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepo()
	raceRepo.items["by-url"] = race.Race{ID: "by-url", Name: "Другое имя", Date: date, WebsiteURL: "https://example.com/race"}
	raceRepo.items["by-name"] = race.Race{ID: "by-name", Name: "Забег", Date: date}

	service := NewImportService(newStubRunnerRepo(), raceRepo, newStubResultRepo(), newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	got, created, err := service.FindOrCreateRace(context.Background(), ImportInput{
		RaceName:   "Забег",
		RaceDate:   date,
		WebsiteURL: "https://example.com/race",
	})
	if err != nil {
		t.Fatalf("FindOrCreateRace error: %v", err)
	}
	if created || got.ID != "by-url" {
		t.Fatalf("expected URL match to win, got id=%q created=%v", got.ID, created)
	}

	got, created, err = service.FindOrCreateRace(context.Background(), ImportInput{
		RaceName: "Забег",
		RaceDate: date,
	})
	if err != nil {
		t.Fatalf("FindOrCreateRace error: %v", err)
	}
	if created || got.ID != "by-name" {
		t.Fatalf("expected name+date match, got id=%q created=%v", got.ID, created)
	}
}

func TestImportService_FindOrCreateRace_SharedURLDifferentDate(t *testing.T) {
	t.Parallel()

	raceRepo := newStubRaceRepo()
	raceRepo.items["stage-1"] = race.Race{
		ID:         "stage-1",
		Name:       "Кубок лиги, этап 1",
		Date:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		WebsiteURL: "https://toplig.ru/",
	}

	service := NewImportService(newStubRunnerRepo(), raceRepo, newStubResultRepo(), newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	// Same organizer homepage, later stage: must not merge into stage 1.
	got, created, err := service.FindOrCreateRace(context.Background(), ImportInput{
		RaceName:   "Кубок лиги, этап 2",
		RaceDate:   time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC),
		WebsiteURL: "https://toplig.ru/",
	})
	if err != nil {
		t.Fatalf("FindOrCreateRace error: %v", err)
	}
	if !created || got.ID == "stage-1" {
		t.Fatalf("expected a new race for the sibling date, got id=%q created=%v", got.ID, created)
	}
}

func TestImportService_ImportProtocol_RowFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	runnerRepo := newStubRunnerRepo()
	runnerRepo.failLastName = "Петров"
	resultRepo := newStubResultRepo()
	service := NewImportService(runnerRepo, newStubRaceRepo(), resultRepo, newStubOrganizerRepo(), newSeqIDGen(), logging.NewNop())

	stats, err := service.ImportProtocol(context.Background(), ImportInput{
		RaceName: "Тестовый забег",
		RaceDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Rows: []protocol.RawRow{
			{"place": "1", "name": "Иванов Иван", "time": "25:10"},
			{"place": "2", "name": "Петров Пётр", "time": "26:45"},
			{"place": "3", "name": "Сидоров Семён", "time": "27:02"},
		},
	})
	if err != nil {
		t.Fatalf("ImportProtocol error: %v", err)
	}

	if stats.Errors != 1 {
		t.Fatalf("expected 1 row error, got %+v", stats)
	}
	if stats.ResultsAdded != 2 {
		t.Fatalf("remaining rows must import, got %+v", stats)
	}
}

// --- shared stubs ---

type seqIDGen struct {
	mu   sync.Mutex
	next int
}

func newSeqIDGen() *seqIDGen { return &seqIDGen{} }

func (g *seqIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type stubRunnerRepo struct {
	mu           sync.Mutex
	items        map[string]runner.Runner
	failLastName string
}

func newStubRunnerRepo() *stubRunnerRepo {
	return &stubRunnerRepo{items: make(map[string]runner.Runner)}
}

func (s *stubRunnerRepo) Create(_ context.Context, item runner.Runner) (runner.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLastName != "" && item.LastName == s.failLastName {
		return runner.Runner{}, fmt.Errorf("storage rejected runner %s", item.LastName)
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRunnerRepo) GetByID(_ context.Context, runnerID string) (runner.Runner, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[runnerID]
	return item, ok, nil
}

func (s *stubRunnerRepo) GetByTelegramID(_ context.Context, telegramID int64) (runner.Runner, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.TelegramID != nil && *item.TelegramID == telegramID {
			return item, true, nil
		}
	}
	return runner.Runner{}, false, nil
}

func (s *stubRunnerRepo) FindByName(_ context.Context, lastName, firstName string, birthDate *time.Time) ([]runner.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []runner.Runner
	for _, item := range s.items {
		if !strings.EqualFold(item.LastName, lastName) || !strings.EqualFold(item.FirstName, firstName) {
			continue
		}
		if birthDate != nil && item.BirthDate != nil && !item.BirthDate.Equal(*birthDate) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsChatLinked() != out[j].IsChatLinked() {
			return out[i].IsChatLinked()
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *stubRunnerRepo) LinkTelegram(_ context.Context, runnerID string, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[runnerID]
	if !ok {
		return fmt.Errorf("runner %s not found", runnerID)
	}
	item.TelegramID = &telegramID
	s.items[runnerID] = item
	return nil
}

func (s *stubRunnerRepo) Update(_ context.Context, item runner.Runner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *stubRunnerRepo) Delete(_ context.Context, runnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, runnerID)
	return nil
}

type stubRaceRepo struct {
	mu            sync.Mutex
	items         map[string]race.Race
	upcomingCalls int
}

func newStubRaceRepo() *stubRaceRepo {
	return &stubRaceRepo{items: make(map[string]race.Race)}
}

func (s *stubRaceRepo) Create(_ context.Context, item race.Race) (race.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRaceRepo) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[raceID]
	return item, ok, nil
}

func (s *stubRaceRepo) GetByWebsiteURL(_ context.Context, websiteURL string) (race.Race, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.WebsiteURL != "" && strings.EqualFold(item.WebsiteURL, websiteURL) {
			return item, true, nil
		}
	}
	return race.Race{}, false, nil
}

func (s *stubRaceRepo) GetByNameAndDate(_ context.Context, name string, date time.Time) (race.Race, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if strings.EqualFold(item.Name, name) && item.Date.Equal(date) {
			return item, true, nil
		}
	}
	return race.Race{}, false, nil
}

func (s *stubRaceRepo) Search(_ context.Context, filter race.SearchFilter) ([]race.Race, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []race.Race
	for _, item := range s.items {
		if filter.Query != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.RaceType != "" && item.RaceType != filter.RaceType {
			continue
		}
		if filter.HasProtocol && item.ProtocolURL == "" {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *stubRaceRepo) ListUpcoming(_ context.Context, from time.Time, limit int) ([]race.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upcomingCalls++

	var out []race.Race
	for _, item := range s.items {
		if item.Date.Before(from) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubRaceRepo) ListWithProtocols(_ context.Context, source string, limit int) ([]race.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []race.Race
	for _, item := range s.items {
		if item.ProtocolURL == "" {
			continue
		}
		if source != "" && item.Source != source {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubRaceRepo) Update(_ context.Context, item race.Race) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *stubRaceRepo) Delete(_ context.Context, raceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, raceID)
	return nil
}

type stubResultRepo struct {
	mu    sync.Mutex
	items map[string]result.Result
}

func newStubResultRepo() *stubResultRepo {
	return &stubResultRepo{items: make(map[string]result.Result)}
}

func resultKey(item result.Result) string {
	return item.RunnerID + "|" + item.RaceID + "|" + item.Distance
}

func (s *stubResultRepo) Upsert(_ context.Context, item result.Result) (result.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := resultKey(item)
	if existing, ok := s.items[key]; ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		s.items[key] = item
		return item, false, nil
	}
	s.items[key] = item
	return item, true, nil
}

func (s *stubResultRepo) GetByID(_ context.Context, resultID string) (result.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == resultID {
			return item, true, nil
		}
	}
	return result.Result{}, false, nil
}

func (s *stubResultRepo) ListByRunner(_ context.Context, runnerID string) ([]result.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []result.Result
	for _, item := range s.items {
		if item.RunnerID == runnerID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubResultRepo) ListByRace(_ context.Context, raceID string) ([]result.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []result.Result
	for _, item := range s.items {
		if item.RaceID == raceID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubResultRepo) PersonalBests(_ context.Context, runnerID string) ([]result.PersonalBest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := make(map[string]result.PersonalBest)
	for _, item := range s.items {
		if item.RunnerID != runnerID || item.FinishSeconds == nil {
			continue
		}
		current, ok := best[item.Distance]
		if !ok || *item.FinishSeconds < current.FinishSeconds {
			best[item.Distance] = result.PersonalBest{
				Distance:      item.Distance,
				FinishSeconds: *item.FinishSeconds,
				FinishDisplay: item.FinishDisplay,
				RaceID:        item.RaceID,
			}
		}
	}

	out := make([]result.PersonalBest, 0, len(best))
	for _, item := range best {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

func (s *stubResultRepo) Reassign(_ context.Context, resultID, runnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, item := range s.items {
		if item.ID == resultID {
			delete(s.items, key)
			item.RunnerID = runnerID
			s.items[resultKey(item)] = item
			return nil
		}
	}
	return fmt.Errorf("result %s not found", resultID)
}

func (s *stubResultRepo) DeleteByRunner(_ context.Context, runnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, item := range s.items {
		if item.RunnerID == runnerID {
			delete(s.items, key)
		}
	}
	return nil
}

func (s *stubResultRepo) DeleteByRace(_ context.Context, raceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, item := range s.items {
		if item.RaceID == raceID {
			delete(s.items, key)
		}
	}
	return nil
}

type stubOrganizerRepo struct {
	mu    sync.Mutex
	items map[string]organizer.Organizer
	next  int
}

func newStubOrganizerRepo() *stubOrganizerRepo {
	return &stubOrganizerRepo{items: make(map[string]organizer.Organizer)}
}

func (s *stubOrganizerRepo) GetOrCreateByName(_ context.Context, name string) (organizer.Organizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[name]; ok {
		return item, nil
	}
	s.next++
	item := organizer.Organizer{ID: fmt.Sprintf("org-%d", s.next), Name: name}
	s.items[name] = item
	return item, nil
}

func (s *stubOrganizerRepo) GetByName(_ context.Context, name string) (organizer.Organizer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[name]
	return item, ok, nil
}

func (s *stubOrganizerRepo) List(_ context.Context) ([]organizer.Organizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]organizer.Organizer, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
