package race

import (
	"context"
	"time"
)

// SearchFilter narrows race listings. Zero values mean "no constraint".
type SearchFilter struct {
	Query       string
	RaceType    string
	Location    string
	DateFrom    *time.Time
	DateTo      *time.Time
	HasProtocol bool
	Limit       int
	Offset      int
}

// Repository describes race persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Race) (Race, error)
	GetByID(ctx context.Context, raceID string) (Race, bool, error)
	GetByWebsiteURL(ctx context.Context, websiteURL string) (Race, bool, error)
	GetByNameAndDate(ctx context.Context, name string, date time.Time) (Race, bool, error)
	Search(ctx context.Context, filter SearchFilter) ([]Race, int, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Race, error)
	ListWithProtocols(ctx context.Context, source string, limit int) ([]Race, error)
	Update(ctx context.Context, item Race) error
	Delete(ctx context.Context, raceID string) error
}
