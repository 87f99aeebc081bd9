package organizer

import "context"

type Repository interface {
	GetOrCreateByName(ctx context.Context, name string) (Organizer, error)
	GetByName(ctx context.Context, name string) (Organizer, bool, error)
	List(ctx context.Context) ([]Organizer, error)
}
