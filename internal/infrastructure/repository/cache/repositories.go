package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/probegapp/probeg/internal/domain/organizer"
	"github.com/probegapp/probeg/internal/domain/race"
	basecache "github.com/probegapp/probeg/internal/platform/cache"
)

// RaceRepository caches the hot read paths of the race store. Lookup
// paths used by the collection dedup (URL, name+date) always hit the
// backing store; a stale hit there would create duplicate races.
type RaceRepository struct {
	next  race.Repository
	cache *basecache.Store
}

func NewRaceRepository(next race.Repository, cache *basecache.Store) *RaceRepository {
	return &RaceRepository{next: next, cache: cache}
}

func (r *RaceRepository) Create(ctx context.Context, item race.Race) (race.Race, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return race.Race{}, err
	}
	r.cache.DeletePrefix(ctx, "race:")
	return created, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	key := "race:id:" + raceID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, raceID)
		if err != nil {
			return nil, err
		}
		return cachedRace{value: item, exists: exists}, nil
	})
	if err != nil {
		return race.Race{}, false, err
	}

	cached, _ := v.(cachedRace)
	return cached.value, cached.exists, nil
}

func (r *RaceRepository) GetByWebsiteURL(ctx context.Context, websiteURL string) (race.Race, bool, error) {
	return r.next.GetByWebsiteURL(ctx, websiteURL)
}

func (r *RaceRepository) GetByNameAndDate(ctx context.Context, name string, date time.Time) (race.Race, bool, error) {
	return r.next.GetByNameAndDate(ctx, name, date)
}

func (r *RaceRepository) Search(ctx context.Context, filter race.SearchFilter) ([]race.Race, int, error) {
	return r.next.Search(ctx, filter)
}

func (r *RaceRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]race.Race, error) {
	key := "race:upcoming:" + from.UTC().Format("2006-01-02") + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListUpcoming(ctx, from, limit)
		if err != nil {
			return nil, err
		}
		return append([]race.Race(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]race.Race)
	return append([]race.Race(nil), items...), nil
}

func (r *RaceRepository) ListWithProtocols(ctx context.Context, source string, limit int) ([]race.Race, error) {
	return r.next.ListWithProtocols(ctx, source, limit)
}

func (r *RaceRepository) Update(ctx context.Context, item race.Race) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "race:")
	return nil
}

func (r *RaceRepository) Delete(ctx context.Context, raceID string) error {
	if err := r.next.Delete(ctx, raceID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "race:")
	return nil
}

type cachedRace struct {
	value  race.Race
	exists bool
}

// OrganizerRepository caches organizer lookups. The import pipeline
// resolves the organizer name for every protocol, so the by-name path
// is the hottest read in an import run.
type OrganizerRepository struct {
	next  organizer.Repository
	cache *basecache.Store
}

func NewOrganizerRepository(next organizer.Repository, cache *basecache.Store) *OrganizerRepository {
	return &OrganizerRepository{next: next, cache: cache}
}

func (r *OrganizerRepository) GetOrCreateByName(ctx context.Context, name string) (organizer.Organizer, error) {
	key := organizerNameKey(name)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, err := r.next.GetOrCreateByName(ctx, name)
		if err != nil {
			return nil, err
		}
		r.cache.Delete(ctx, "organizer:list")
		return item, nil
	})
	if err != nil {
		return organizer.Organizer{}, err
	}

	item, _ := v.(organizer.Organizer)
	return item, nil
}

func (r *OrganizerRepository) GetByName(ctx context.Context, name string) (organizer.Organizer, bool, error) {
	key := organizerNameKey(name)
	if v, ok := r.cache.Get(ctx, key); ok {
		if item, ok := v.(organizer.Organizer); ok {
			return item, true, nil
		}
	}

	item, exists, err := r.next.GetByName(ctx, name)
	if err != nil {
		return organizer.Organizer{}, false, err
	}
	if exists {
		r.cache.Set(ctx, key, item)
	}
	return item, exists, nil
}

func (r *OrganizerRepository) List(ctx context.Context) ([]organizer.Organizer, error) {
	v, err := r.cache.GetOrLoad(ctx, "organizer:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]organizer.Organizer(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]organizer.Organizer)
	return append([]organizer.Organizer(nil), items...), nil
}

func organizerNameKey(name string) string {
	return "organizer:name:" + strings.ToLower(strings.TrimSpace(name))
}
