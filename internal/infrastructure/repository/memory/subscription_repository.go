package memory

import (
	"context"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/subscription"
)

type SubscriptionRepository struct {
	mu    sync.RWMutex
	items []subscription.Subscription
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

func (r *SubscriptionRepository) Create(_ context.Context, item subscription.Subscription) (subscription.Subscription, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.RunnerID == item.RunnerID && existing.RaceID == item.RaceID {
			return existing, false, nil
		}
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items = append(r.items, item)
	return item, true, nil
}

func (r *SubscriptionRepository) ListByRace(_ context.Context, raceID string) ([]subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []subscription.Subscription
	for _, item := range r.items {
		if item.RaceID == raceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SubscriptionRepository) ListByRunner(_ context.Context, runnerID string) ([]subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []subscription.Subscription
	for _, item := range r.items {
		if item.RunnerID == runnerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SubscriptionRepository) Delete(_ context.Context, runnerID, raceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, item := range r.items {
		if item.RunnerID == runnerID && item.RaceID == raceID {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return nil
}

func (r *SubscriptionRepository) DeleteByRunner(_ context.Context, runnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, item := range r.items {
		if item.RunnerID == runnerID {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return nil
}
