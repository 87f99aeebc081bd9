package memory

import (
	"context"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/claim"
)

type ClaimRepository struct {
	mu    sync.RWMutex
	items map[string]claim.Claim
	order []string
}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{items: make(map[string]claim.Claim)}
}

func (r *ClaimRepository) Create(_ context.Context, item claim.Claim) (claim.Claim, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		existing := r.items[id]
		if existing.ResultID == item.ResultID && existing.RunnerID == item.RunnerID {
			return existing, false, nil
		}
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, true, nil
}

func (r *ClaimRepository) GetByID(_ context.Context, claimID string) (claim.Claim, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[claimID]
	return item, ok, nil
}

func (r *ClaimRepository) ListPending(_ context.Context) ([]claim.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []claim.Claim
	for _, id := range r.order {
		item := r.items[id]
		if item.Status == claim.StatusPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ClaimRepository) SetStatus(_ context.Context, claimID, status, reviewedBy, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[claimID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	item.Status = status
	item.ReviewedBy = reviewedBy
	item.Comment = comment
	item.ReviewedAt = &now
	r.items[claimID] = item
	return nil
}
