package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/probegapp/probeg/internal/domain/calendar"
	"github.com/probegapp/probeg/internal/domain/organizer"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
)

// CollectionService runs the calendar collection pass: every source is
// queried concurrently, a failing source degrades to zero events with a
// warning, and the surviving events become race rows after URL and
// (name, date) dedup. At most one collection runs at a time.
type CollectionService struct {
	sources       []calendar.Source
	raceRepo      race.Repository
	organizerRepo organizer.Repository
	idGen         id.Generator
	logger        *logging.Logger
	now           func() time.Time
	running       atomic.Bool
}

func NewCollectionService(
	sources []calendar.Source,
	raceRepo race.Repository,
	organizerRepo organizer.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *CollectionService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &CollectionService{
		sources:       sources,
		raceRepo:      raceRepo,
		organizerRepo: organizerRepo,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

type SourceReport struct {
	Source string `json:"source"`
	Events int    `json:"events"`
	Error  string `json:"error,omitempty"`
}

type CollectionResult struct {
	Sources      int            `json:"sources"`
	SourceErrors int            `json:"source_errors"`
	Fetched      int            `json:"fetched"`
	Upcoming     int            `json:"upcoming"`
	Created      int            `json:"created"`
	Updated      int            `json:"updated"`
	Skipped      int            `json:"skipped"`
	Reports      []SourceReport `json:"reports"`
}

type sourceBatch struct {
	source string
	events []calendar.RawEvent
}

// CollectEvents fetches every source in parallel and persists the new
// upcoming races. A run that starts while another is active returns
// ErrNoEffect immediately.
func (s *CollectionService) CollectEvents(ctx context.Context) (CollectionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.CollectEvents")
	defer span.End()

	if !s.running.CompareAndSwap(false, true) {
		return CollectionResult{}, fmt.Errorf("%w: collection already running", ErrNoEffect)
	}
	defer s.running.Store(false)

	result := CollectionResult{
		Sources: len(s.sources),
		Reports: make([]SourceReport, len(s.sources)),
	}
	batches := make([]sourceBatch, len(s.sources))

	var wg conc.WaitGroup
	for i, source := range s.sources {
		i, source := i, source
		wg.Go(func() {
			events, err := source.FetchUpcoming(ctx)
			report := SourceReport{Source: source.Name(), Events: len(events)}
			if err != nil {
				report.Events = 0
				report.Error = err.Error()
				events = nil
				s.logger.WarnContext(ctx, "calendar source failed, continuing without it",
					"source", source.Name(), "error", err)
			}
			batches[i] = sourceBatch{source: source.Name(), events: events}
			result.Reports[i] = report
		})
	}
	wg.Wait()

	for _, report := range result.Reports {
		if report.Error != "" {
			result.SourceErrors++
		}
	}

	seenURLs := make(map[string]string)
	seenNameDate := make(map[string]struct{})
	for _, batch := range batches {
		for _, raw := range batch.events {
			result.Fetched++

			event := calendar.Normalize(raw, batch.source)
			if !calendar.IsUpcoming(event, s.now()) {
				result.Skipped++
				continue
			}
			result.Upcoming++

			if !markEventSeen(event, seenURLs, seenNameDate) {
				result.Skipped++
				continue
			}

			created, updated, err := s.storeEvent(ctx, event)
			if err != nil {
				result.Skipped++
				s.logger.WarnContext(ctx, "store collected event failed",
					"source", batch.source, "name", event.Name, "error", err)
				continue
			}
			switch {
			case created:
				result.Created++
			case updated:
				result.Updated++
			default:
				result.Skipped++
			}
		}
	}

	s.logger.InfoContext(ctx, "calendar collection finished",
		"sources", result.Sources,
		"source_errors", result.SourceErrors,
		"fetched", result.Fetched,
		"created", result.Created,
		"updated", result.Updated,
	)
	return result, nil
}

func (s *CollectionService) IsRunning() bool {
	return s.running.Load()
}

// markEventSeen dedups within one run: first by URL, then by the
// (name, date) pair. A URL only identifies an event together with its
// date: several seed calendars list a whole series of dated races under
// one organizer homepage, and those must all survive.
func markEventSeen(event calendar.Event, seenURLs map[string]string, seenNameDate map[string]struct{}) bool {
	date := event.Date.Format("2006-01-02")
	url := strings.TrimSpace(strings.ToLower(event.WebsiteURL))
	if url != "" {
		prevDate, dup := seenURLs[url]
		if !dup {
			seenURLs[url] = date
			return true
		}
		if prevDate == date {
			return false
		}
		// Shared homepage, different date: fall through to (name, date).
	}

	key := strings.ToLower(event.Name) + "|" + date
	if _, dup := seenNameDate[key]; dup {
		return false
	}
	seenNameDate[key] = struct{}{}
	return true
}

// storeEvent creates the race if unknown. A known race gets its protocol
// URL and distance list topped up when the event carries fresher data.
func (s *CollectionService) storeEvent(ctx context.Context, event calendar.Event) (created, updated bool, err error) {
	var existing race.Race
	var found bool

	if event.WebsiteURL != "" {
		existing, found, err = s.raceRepo.GetByWebsiteURL(ctx, event.WebsiteURL)
		if err != nil {
			return false, false, fmt.Errorf("get race by url: %w", err)
		}
		// A race stored under the same URL but a different date is a
		// sibling event behind a shared organizer homepage, not this one.
		if found && !existing.Date.Equal(*event.Date) {
			found = false
		}
	}
	if !found {
		existing, found, err = s.raceRepo.GetByNameAndDate(ctx, event.Name, *event.Date)
		if err != nil {
			return false, false, fmt.Errorf("get race by name and date: %w", err)
		}
	}

	if found {
		changed := false
		if existing.ProtocolURL == "" && event.ProtocolURL != "" {
			existing.ProtocolURL = event.ProtocolURL
			changed = true
		}
		if len(existing.Distances) == 0 && len(event.Distances) > 0 {
			existing.Distances = toRaceDistances(event.Distances)
			changed = true
		}
		if !changed {
			return false, false, nil
		}
		existing.UpdatedAt = s.now().UTC()
		if err := s.raceRepo.Update(ctx, existing); err != nil {
			return false, false, fmt.Errorf("update race: %w", err)
		}
		return false, true, nil
	}

	raceID, err := s.idGen.NewID()
	if err != nil {
		return false, false, fmt.Errorf("generate race id: %w", err)
	}

	organizerID := ""
	if s.organizerRepo != nil && event.Organizer != "" {
		org, err := s.organizerRepo.GetOrCreateByName(ctx, event.Organizer)
		if err != nil {
			return false, false, fmt.Errorf("resolve organizer %q: %w", event.Organizer, err)
		}
		organizerID = org.ID
	}

	now := s.now().UTC()
	if _, err := s.raceRepo.Create(ctx, race.Race{
		ID:          raceID,
		Name:        event.Name,
		Date:        *event.Date,
		Location:    event.Location,
		Organizer:   event.Organizer,
		OrganizerID: organizerID,
		RaceType:    event.RaceType,
		Distances:   toRaceDistances(event.Distances),
		WebsiteURL:  event.WebsiteURL,
		ProtocolURL: event.ProtocolURL,
		Source:      event.Source,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return false, false, fmt.Errorf("create race: %w", err)
	}
	return true, false, nil
}

func toRaceDistances(items []calendar.Distance) []race.Distance {
	if len(items) == 0 {
		return nil
	}
	out := make([]race.Distance, 0, len(items))
	for _, item := range items {
		out = append(out, race.Distance{Name: item.Name, Elevation: item.Elevation})
	}
	return out
}
