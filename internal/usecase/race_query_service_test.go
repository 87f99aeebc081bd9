package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/platform/cache"
	"github.com/probegapp/probeg/internal/platform/logging"
)

func seedRaces(repo *stubRaceRepo) {
	date := time.Date(2099, 5, 10, 0, 0, 0, 0, time.UTC)
	repo.items["a"] = race.Race{ID: "a", Name: "Апрельский забег", Date: date}
	repo.items["b"] = race.Race{ID: "b", Name: "Беговой фестиваль", Date: date.AddDate(0, 1, 0)}
	repo.items["c"] = race.Race{ID: "c", Name: "Весенний марафон", Date: date.AddDate(0, 2, 0)}
}

func TestRaceQueryService_SearchPagination(t *testing.T) {
	t.Parallel()

	repo := newStubRaceRepo()
	seedRaces(repo)
	service := NewRaceQueryService(repo, newStubResultRepo(), nil, logging.NewNop())
	ctx := context.Background()

	var collected []string
	input := RaceSearchInput{Limit: 2}
	for page := 0; page < 5; page++ {
		out, err := service.Search(ctx, input)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if out.Total != 3 {
			t.Fatalf("expected total 3, got %d", out.Total)
		}
		for _, item := range out.Races {
			collected = append(collected, item.ID)
		}
		if out.NextPageToken == "" {
			break
		}
		input = RaceSearchInput{PageToken: out.NextPageToken}
	}

	if len(collected) != 3 {
		t.Fatalf("pagination must walk every race exactly once, got %v", collected)
	}
}

func TestRaceQueryService_SearchTokenCarriesFilter(t *testing.T) {
	t.Parallel()

	repo := newStubRaceRepo()
	seedRaces(repo)
	service := NewRaceQueryService(repo, newStubResultRepo(), nil, logging.NewNop())
	ctx := context.Background()

	first, err := service.Search(ctx, RaceSearchInput{Query: "забег", Limit: 1})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if first.Total != 1 || len(first.Races) != 1 {
		t.Fatalf("expected a single filtered match, got %+v", first)
	}
	if first.NextPageToken != "" {
		t.Fatalf("no further pages expected, got token %q", first.NextPageToken)
	}
}

func TestRaceQueryService_MalformedPageToken(t *testing.T) {
	t.Parallel()

	service := NewRaceQueryService(newStubRaceRepo(), newStubResultRepo(), nil, logging.NewNop())

	if _, err := service.Search(context.Background(), RaceSearchInput{PageToken: "???not-base64???"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRaceQueryService_ListUpcomingUsesCache(t *testing.T) {
	t.Parallel()

	repo := newStubRaceRepo()
	seedRaces(repo)
	service := NewRaceQueryService(repo, newStubResultRepo(), cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	first, err := service.ListUpcoming(ctx, 10)
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}
	second, err := service.ListUpcoming(ctx, 10)
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 upcoming races, got %d and %d", len(first), len(second))
	}
	if repo.upcomingCalls != 1 {
		t.Fatalf("second listing must hit the cache, repo calls=%d", repo.upcomingCalls)
	}
}
