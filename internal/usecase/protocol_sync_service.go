package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/probegapp/probeg/internal/domain/protocol"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/domain/subscription"
	"github.com/probegapp/probeg/internal/extract"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// PageExtractor pulls result rows out of a client-rendered page.
type PageExtractor interface {
	ExtractResults(ctx context.Context, pageURL string) ([]protocol.RawRow, error)
}

// ProtocolSyncService walks races that carry a protocol URL, extracts
// their result rows and feeds them to the import pipeline. Document
// protocols (xlsx, pdf) are downloaded and parsed locally; everything
// else goes through the rendered-page extractor.
type ProtocolSyncService struct {
	raceRepo         race.Repository
	subscriptionRepo subscription.Repository
	runnerRepo       runner.Repository
	importSvc        *ImportService
	pages            PageExtractor
	notifier         Notifier
	logger           *logging.Logger
	workers          int
	perSourceLimit   int
	running          atomic.Bool

	download func(ctx context.Context, documentURL string) (string, func(), error)
	fromFile func(path string, opts extract.Options) ([]protocol.RawRow, error)
}

type ProtocolSyncConfig struct {
	Workers        int
	PerSourceLimit int
}

func NewProtocolSyncService(
	raceRepo race.Repository,
	subscriptionRepo subscription.Repository,
	runnerRepo runner.Repository,
	importSvc *ImportService,
	pages PageExtractor,
	notifier Notifier,
	cfg ProtocolSyncConfig,
	logger *logging.Logger,
) *ProtocolSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PerSourceLimit <= 0 {
		cfg.PerSourceLimit = 20
	}

	return &ProtocolSyncService{
		raceRepo:         raceRepo,
		subscriptionRepo: subscriptionRepo,
		runnerRepo:       runnerRepo,
		importSvc:        importSvc,
		pages:            pages,
		notifier:         notifier,
		logger:           logger,
		workers:          cfg.Workers,
		perSourceLimit:   cfg.PerSourceLimit,
		download:         extract.Download,
		fromFile:         extract.FromFile,
	}
}

type ProtocolSyncInput struct {
	// Sources narrows the run to the named source families; empty means
	// every source.
	Sources []string
	Limit   int
}

type ProtocolSyncResult struct {
	Races          int          `json:"races"`
	Imported       int          `json:"imported"`
	Failed         int          `json:"failed"`
	ResultsAdded   int          `json:"results_added"`
	RunnersCreated int          `json:"runners_created"`
	Errors         int          `json:"errors"`
	Details        []RaceReport `json:"details"`
}

type RaceReport struct {
	RaceID string `json:"race_id"`
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

// SyncProtocols runs one protocol collection pass. Each race is handled
// on the worker pool; one failing race never stops the rest.
func (s *ProtocolSyncService) SyncProtocols(ctx context.Context, input ProtocolSyncInput) (ProtocolSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProtocolSyncService.SyncProtocols")
	defer span.End()

	if !s.running.CompareAndSwap(false, true) {
		return ProtocolSyncResult{}, fmt.Errorf("%w: protocol sync already running", ErrNoEffect)
	}
	defer s.running.Store(false)

	limit := input.Limit
	if limit <= 0 || limit > s.perSourceLimit {
		limit = s.perSourceLimit
	}

	races, err := s.pickRaces(ctx, input.Sources, limit)
	if err != nil {
		return ProtocolSyncResult{}, err
	}

	result := ProtocolSyncResult{Races: len(races)}
	if len(races) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return ProtocolSyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	var workers sync.WaitGroup
	for _, item := range races {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			report, stats := s.syncRace(ctx, item)

			mu.Lock()
			defer mu.Unlock()
			result.Details = append(result.Details, report)
			if report.Error != "" {
				result.Failed++
				return
			}
			result.Imported++
			result.ResultsAdded += stats.ResultsAdded
			result.RunnersCreated += stats.RunnersCreated
			result.Errors += stats.Errors
		}); err != nil {
			workers.Done()
			return ProtocolSyncResult{}, fmt.Errorf("submit race to worker pool: %w", err)
		}
	}
	workers.Wait()

	s.logger.InfoContext(ctx, "protocol sync finished",
		"races", result.Races,
		"imported", result.Imported,
		"failed", result.Failed,
		"results_added", result.ResultsAdded,
	)
	return result, nil
}

func (s *ProtocolSyncService) IsRunning() bool {
	return s.running.Load()
}

func (s *ProtocolSyncService) pickRaces(ctx context.Context, sources []string, limit int) ([]race.Race, error) {
	if len(sources) == 0 {
		items, err := s.raceRepo.ListWithProtocols(ctx, "", limit)
		if err != nil {
			return nil, fmt.Errorf("list races with protocols: %w", err)
		}
		return items, nil
	}

	seen := make(map[string]struct{})
	out := make([]race.Race, 0, limit*len(sources))
	for _, source := range sources {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		items, err := s.raceRepo.ListWithProtocols(ctx, source, limit)
		if err != nil {
			return nil, fmt.Errorf("list races with protocols source=%s: %w", source, err)
		}
		for _, item := range items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *ProtocolSyncService) syncRace(ctx context.Context, item race.Race) (RaceReport, ImportStats) {
	report := RaceReport{RaceID: item.ID, Name: item.Name}

	rows, err := s.fetchRows(ctx, item.ProtocolURL)
	if err != nil {
		report.Error = err.Error()
		s.logger.WarnContext(ctx, "protocol extraction failed",
			"race_id", item.ID, "url", item.ProtocolURL, "error", err)
		return report, ImportStats{}
	}
	rows = extract.FilterRows(rows)
	report.Rows = len(rows)
	if len(rows) == 0 {
		report.Error = "no result rows extracted"
		return report, ImportStats{}
	}

	stats, err := s.importSvc.ImportProtocol(ctx, ImportInput{
		RaceName:    item.Name,
		RaceDate:    item.Date,
		Location:    item.Location,
		Organizer:   item.Organizer,
		RaceType:    item.RaceType,
		WebsiteURL:  item.WebsiteURL,
		ProtocolURL: item.ProtocolURL,
		Source:      item.Source,
		Rows:        rows,
	})
	if err != nil {
		report.Error = err.Error()
		return report, ImportStats{}
	}

	if stats.ResultsAdded > 0 {
		s.notifySubscribers(ctx, item, stats.ResultsAdded)
	}
	return report, stats
}

// fetchRows picks the extraction path by protocol URL shape: a document
// extension means download-and-parse, anything else is treated as a
// rendered results page.
func (s *ProtocolSyncService) fetchRows(ctx context.Context, protocolURL string) ([]protocol.RawRow, error) {
	protocolURL = strings.TrimSpace(protocolURL)
	if protocolURL == "" {
		return nil, fmt.Errorf("%w: protocol url is empty", ErrInvalidInput)
	}

	if isDocumentURL(protocolURL) {
		path, cleanup, err := s.download(ctx, protocolURL)
		if err != nil {
			return nil, fmt.Errorf("download protocol: %w", err)
		}
		defer cleanup()
		rows, err := s.fromFile(path, extract.Options{})
		if err != nil {
			return nil, fmt.Errorf("parse protocol document: %w", err)
		}
		return rows, nil
	}

	if s.pages == nil {
		return nil, fmt.Errorf("%w: rendered-page extractor is not configured", ErrDependencyUnavailable)
	}
	rows, err := s.pages.ExtractResults(ctx, protocolURL)
	if err != nil {
		return nil, fmt.Errorf("extract rendered page: %w", err)
	}
	return rows, nil
}

func isDocumentURL(documentURL string) bool {
	lowered := strings.ToLower(documentURL)
	if idx := strings.IndexAny(lowered, "?#"); idx >= 0 {
		lowered = lowered[:idx]
	}
	for _, ext := range []string{".xlsx", ".xls", ".pdf", ".csv"} {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

func (s *ProtocolSyncService) notifySubscribers(ctx context.Context, item race.Race, added int) {
	if s.notifier == nil || s.subscriptionRepo == nil {
		return
	}

	subs, err := s.subscriptionRepo.ListByRace(ctx, item.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "list subscribers failed", "race_id", item.ID, "error", err)
		return
	}

	text := fmt.Sprintf("Опубликованы результаты «%s» (%s): %d финишей.",
		item.Name, item.Date.Format("02.01.2006"), added)
	for _, sub := range subs {
		person, found, err := s.runnerRepo.GetByID(ctx, sub.RunnerID)
		if err != nil || !found || person.TelegramID == nil {
			continue
		}
		if err := s.notifier.SendMessage(ctx, *person.TelegramID, text); err != nil {
			s.logger.WarnContext(ctx, "subscriber notification failed",
				"race_id", item.ID, "runner_id", sub.RunnerID, "error", err)
		}
	}
}
