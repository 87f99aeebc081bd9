package claim

import "context"

// Repository describes claim persistence needs from use cases.
//
// Create returns created=false when a claim for the same (result,
// runner) pair already exists, without treating it as an error.
type Repository interface {
	Create(ctx context.Context, item Claim) (Claim, bool, error)
	GetByID(ctx context.Context, claimID string) (Claim, bool, error)
	ListPending(ctx context.Context) ([]Claim, error)
	SetStatus(ctx context.Context, claimID, status, reviewedBy, comment string) error
}
