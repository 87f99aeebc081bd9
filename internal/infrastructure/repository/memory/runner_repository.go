package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/runner"
)

type RunnerRepository struct {
	mu    sync.RWMutex
	items map[string]runner.Runner
	order []string
}

func NewRunnerRepository(runners []runner.Runner) *RunnerRepository {
	items := make(map[string]runner.Runner, len(runners))
	order := make([]string, 0, len(runners))
	for _, item := range runners {
		items[item.ID] = item
		order = append(order, item.ID)
	}
	return &RunnerRepository{items: items, order: order}
}

func (r *RunnerRepository) Create(_ context.Context, item runner.Runner) (runner.Runner, error) {
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

func (r *RunnerRepository) GetByID(_ context.Context, runnerID string) (runner.Runner, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[runnerID]
	return item, ok, nil
}

func (r *RunnerRepository) GetByTelegramID(_ context.Context, telegramID int64) (runner.Runner, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		item := r.items[id]
		if item.TelegramID != nil && *item.TelegramID == telegramID {
			return item, true, nil
		}
	}
	return runner.Runner{}, false, nil
}

func (r *RunnerRepository) FindByName(_ context.Context, lastName, firstName string, birthDate *time.Time) ([]runner.Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []runner.Runner
	for _, id := range r.order {
		item := r.items[id]
		if !strings.EqualFold(item.LastName, lastName) || !strings.EqualFold(item.FirstName, firstName) {
			continue
		}
		if birthDate != nil && item.BirthDate != nil && !item.BirthDate.Equal(*birthDate) {
			continue
		}
		out = append(out, item)
	}

	// Chat-linked runners first, insertion order within each group.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsChatLinked() && !out[j].IsChatLinked()
	})
	return out, nil
}

func (r *RunnerRepository) LinkTelegram(_ context.Context, runnerID string, telegramID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[runnerID]
	if !ok {
		return nil
	}
	item.TelegramID = &telegramID
	item.UpdatedAt = time.Now().UTC()
	r.items[runnerID] = item
	return nil
}

func (r *RunnerRepository) Update(_ context.Context, item runner.Runner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return nil
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = item
	return nil
}

func (r *RunnerRepository) Delete(_ context.Context, runnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, runnerID)
	kept := r.order[:0]
	for _, id := range r.order {
		if id != runnerID {
			kept = append(kept, id)
		}
	}
	r.order = kept
	return nil
}
