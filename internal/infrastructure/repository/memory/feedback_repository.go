package memory

import (
	"context"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/feedback"
)

type FeedbackRepository struct {
	mu    sync.RWMutex
	items []feedback.Feedback
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{}
}

func (r *FeedbackRepository) Create(_ context.Context, item feedback.Feedback) (feedback.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items = append(r.items, item)
	return item, nil
}

// List returns the newest entries first.
func (r *FeedbackRepository) List(_ context.Context, limit int) ([]feedback.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feedback.Feedback, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
