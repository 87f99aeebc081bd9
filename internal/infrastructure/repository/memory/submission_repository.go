package memory

import (
	"context"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/submission"
)

type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[string]submission.Submission
	order []string
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{items: make(map[string]submission.Submission)}
}

func (r *SubmissionRepository) Create(_ context.Context, item submission.Submission) (submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, nil
}

func (r *SubmissionRepository) GetByID(_ context.Context, submissionID string) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[submissionID]
	return item, ok, nil
}

func (r *SubmissionRepository) ListPending(_ context.Context) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []submission.Submission
	for _, id := range r.order {
		item := r.items[id]
		if item.Status == submission.StatusPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SubmissionRepository) SetStatus(_ context.Context, submissionID, status, reviewedBy, comment, createdRaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[submissionID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	item.Status = status
	item.ReviewedBy = reviewedBy
	item.Comment = comment
	item.CreatedRaceID = createdRaceID
	item.ReviewedAt = &now
	r.items[submissionID] = item
	return nil
}
