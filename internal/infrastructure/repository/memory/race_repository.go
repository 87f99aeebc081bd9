package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/race"
)

type RaceRepository struct {
	mu    sync.RWMutex
	items map[string]race.Race
	order []string
}

func NewRaceRepository(races []race.Race) *RaceRepository {
	items := make(map[string]race.Race, len(races))
	order := make([]string, 0, len(races))
	for _, item := range races {
		items[item.ID] = item
		order = append(order, item.ID)
	}
	return &RaceRepository{items: items, order: order}
}

func (r *RaceRepository) Create(_ context.Context, item race.Race) (race.Race, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, nil
}

func (r *RaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceID]
	return item, ok, nil
}

func (r *RaceRepository) GetByWebsiteURL(_ context.Context, websiteURL string) (race.Race, bool, error) {
	trimmed := strings.TrimSpace(websiteURL)
	if trimmed == "" {
		return race.Race{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		item := r.items[id]
		if strings.EqualFold(item.WebsiteURL, trimmed) {
			return item, true, nil
		}
	}
	return race.Race{}, false, nil
}

func (r *RaceRepository) GetByNameAndDate(_ context.Context, name string, date time.Time) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		item := r.items[id]
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) && sameDay(item.Date, date) {
			return item, true, nil
		}
	}
	return race.Race{}, false, nil
}

func (r *RaceRepository) Search(_ context.Context, filter race.SearchFilter) ([]race.Race, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []race.Race
	for _, id := range r.order {
		item := r.items[id]
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})

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

func matchesFilter(item race.Race, filter race.SearchFilter) bool {
	if query := strings.TrimSpace(filter.Query); query != "" {
		if !strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
			return false
		}
	}
	if raceType := strings.TrimSpace(filter.RaceType); raceType != "" && item.RaceType != raceType {
		return false
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		if !strings.Contains(strings.ToLower(item.Location), strings.ToLower(location)) {
			return false
		}
	}
	if filter.DateFrom != nil && item.Date.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && item.Date.After(*filter.DateTo) {
		return false
	}
	if filter.HasProtocol && strings.TrimSpace(item.ProtocolURL) == "" {
		return false
	}
	return true
}

func (r *RaceRepository) ListUpcoming(_ context.Context, from time.Time, limit int) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []race.Race
	for _, id := range r.order {
		item := r.items[id]
		if item.IsActive && !item.Date.Before(from) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RaceRepository) ListWithProtocols(_ context.Context, source string, limit int) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []race.Race
	for _, id := range r.order {
		item := r.items[id]
		if strings.TrimSpace(item.ProtocolURL) == "" {
			continue
		}
		if source != "" && item.Source != source {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RaceRepository) Update(_ context.Context, item race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return nil
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = item
	return nil
}

func (r *RaceRepository) Delete(_ context.Context, raceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, raceID)
	kept := r.order[:0]
	for _, id := range r.order {
		if id != raceID {
			kept = append(kept, id)
		}
	}
	r.order = kept
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
