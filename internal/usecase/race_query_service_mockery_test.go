package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/result"
	racemock "github.com/probegapp/probeg/internal/mocks/domain/race"
	resultmock "github.com/probegapp/probeg/internal/mocks/domain/result"
	"github.com/probegapp/probeg/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestRaceQueryService_Results_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := racemock.NewRepository(t)
	resultRepo := resultmock.NewRepository(t)

	service := NewRaceQueryService(raceRepo, resultRepo, nil, logging.NewNop())
	raceID := "rc-1001"
	seconds := 4530
	expected := []result.Result{
		{ID: "res-1", RunnerID: "run-1", RaceID: raceID, Distance: "10 км", FinishSeconds: &seconds},
		{ID: "res-2", RunnerID: "run-2", RaceID: raceID, Distance: "10 км"},
	}

	raceRepo.
		On("GetByID", mock.Anything, raceID).
		Return(race.Race{ID: raceID, Name: "Весенний забег", Date: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)}, true, nil).
		Once()
	resultRepo.
		On("ListByRace", mock.Anything, raceID).
		Return(expected, nil).
		Once()

	got, err := service.Results(ctx, raceID)
	if err != nil {
		t.Fatalf("list race results: %v", err)
	}
	if len(got) != len(expected) {
		t.Fatalf("unexpected result count: got=%d want=%d", len(got), len(expected))
	}
	if got[0].ID != expected[0].ID {
		t.Fatalf("unexpected result id: got=%s want=%s", got[0].ID, expected[0].ID)
	}
}

func TestRaceQueryService_Results_RaceNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raceRepo := racemock.NewRepository(t)
	resultRepo := resultmock.NewRepository(t)

	service := NewRaceQueryService(raceRepo, resultRepo, nil, logging.NewNop())
	raceID := "rc-missing"

	raceRepo.
		On("GetByID", mock.Anything, raceID).
		Return(race.Race{}, false, nil).
		Once()

	_, err := service.Results(ctx, raceID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
