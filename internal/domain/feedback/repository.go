package feedback

import "context"

type Repository interface {
	Create(ctx context.Context, item Feedback) (Feedback, error)
	List(ctx context.Context, limit int) ([]Feedback, error)
}
