package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/result"
)

type ResultRepository struct {
	mu    sync.RWMutex
	items map[string]result.Result
	order []string
}

func NewResultRepository(results []result.Result) *ResultRepository {
	items := make(map[string]result.Result, len(results))
	order := make([]string, 0, len(results))
	for _, item := range results {
		items[item.ID] = item
		order = append(order, item.ID)
	}
	return &ResultRepository{items: items, order: order}
}

func (r *ResultRepository) Upsert(_ context.Context, item result.Result) (result.Result, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range r.order {
		existing := r.items[id]
		if existing.RunnerID != item.RunnerID || existing.RaceID != item.RaceID || existing.Distance != item.Distance {
			continue
		}
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = now
		r.items[existing.ID] = item
		return item, false, nil
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, true, nil
}

func (r *ResultRepository) GetByID(_ context.Context, resultID string) (result.Result, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[resultID]
	return item, ok, nil
}

func (r *ResultRepository) ListByRunner(_ context.Context, runnerID string) ([]result.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []result.Result
	for _, id := range r.order {
		item := r.items[id]
		if item.RunnerID == runnerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ResultRepository) ListByRace(_ context.Context, raceID string) ([]result.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []result.Result
	for _, id := range r.order {
		item := r.items[id]
		if item.RaceID == raceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ResultRepository) PersonalBests(_ context.Context, runnerID string) ([]result.PersonalBest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := make(map[string]result.Result)
	for _, id := range r.order {
		item := r.items[id]
		if item.RunnerID != runnerID || item.FinishSeconds == nil {
			continue
		}
		current, ok := best[item.Distance]
		if !ok || *item.FinishSeconds < *current.FinishSeconds {
			best[item.Distance] = item
		}
	}

	out := make([]result.PersonalBest, 0, len(best))
	for distance, item := range best {
		out = append(out, result.PersonalBest{
			Distance:      distance,
			FinishSeconds: *item.FinishSeconds,
			FinishDisplay: item.FinishDisplay,
			RaceID:        item.RaceID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}

func (r *ResultRepository) Reassign(_ context.Context, resultID, runnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[resultID]
	if !ok {
		return nil
	}
	item.RunnerID = runnerID
	item.UpdatedAt = time.Now().UTC()
	r.items[resultID] = item
	return nil
}

func (r *ResultRepository) DeleteByRunner(_ context.Context, runnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, id := range r.order {
		if r.items[id].RunnerID == runnerID {
			delete(r.items, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return nil
}

func (r *ResultRepository) DeleteByRace(_ context.Context, raceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, id := range r.order {
		if r.items[id].RaceID == raceID {
			delete(r.items, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return nil
}
