package subscription

import "context"

// Repository describes subscription persistence needs from use cases.
// Create is idempotent per (runner, race).
type Repository interface {
	Create(ctx context.Context, item Subscription) (Subscription, bool, error)
	ListByRace(ctx context.Context, raceID string) ([]Subscription, error)
	ListByRunner(ctx context.Context, runnerID string) ([]Subscription, error)
	Delete(ctx context.Context, runnerID, raceID string) error
	DeleteByRunner(ctx context.Context, runnerID string) error
}
