package submission

import "context"

// Repository describes submission persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Submission) (Submission, error)
	GetByID(ctx context.Context, submissionID string) (Submission, bool, error)
	ListPending(ctx context.Context) ([]Submission, error)
	SetStatus(ctx context.Context, submissionID, status, reviewedBy, comment, createdRaceID string) error
}
