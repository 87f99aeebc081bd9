package result

import "context"

// PersonalBest is the fastest stored finish for one distance label.
type PersonalBest struct {
	Distance      string
	FinishSeconds int
	FinishDisplay string
	RaceID        string
	RaceName      string
}

// Repository describes result persistence needs from use cases.
//
// Upsert resolves a (runner, race, distance) conflict by overwriting the
// mutable fields and bumping the update timestamp.
type Repository interface {
	Upsert(ctx context.Context, item Result) (Result, bool, error)
	GetByID(ctx context.Context, resultID string) (Result, bool, error)
	ListByRunner(ctx context.Context, runnerID string) ([]Result, error)
	ListByRace(ctx context.Context, raceID string) ([]Result, error)
	PersonalBests(ctx context.Context, runnerID string) ([]PersonalBest, error)
	Reassign(ctx context.Context, resultID, runnerID string) error
	DeleteByRunner(ctx context.Context, runnerID string) error
	DeleteByRace(ctx context.Context, raceID string) error
}
