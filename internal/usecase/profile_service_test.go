package usecase

import (
	"context"
	"testing"

	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/platform/logging"
)

func TestProfileService_RegisterFromChat_LinksUnlinkedRunner(t *testing.T) {
	t.Parallel()

	otherChat := int64(111)
	runnerRepo := newStubRunnerRepo()
	runnerRepo.items["taken"] = runner.Runner{ID: "taken", LastName: "Иванов", FirstName: "Иван", TelegramID: &otherChat}
	runnerRepo.items["free"] = runner.Runner{ID: "free", LastName: "Иванов", FirstName: "Иван"}

	service := NewProfileService(runnerRepo, newSeqIDGen(), logging.NewNop())

	got, created, err := service.RegisterFromChat(context.Background(), RegisterInput{
		TelegramID: 222,
		FullName:   "Иванов Иван",
	})
	if err != nil {
		t.Fatalf("RegisterFromChat error: %v", err)
	}
	if created {
		t.Fatal("expected linking, not creation")
	}
	if got.ID != "free" {
		t.Fatalf("a runner linked to another chat must not be rebound, got %q", got.ID)
	}
	if got.TelegramID == nil || *got.TelegramID != 222 {
		t.Fatalf("returned runner must carry the new link: %+v", got)
	}
}

func TestProfileService_RegisterFromChat_Idempotent(t *testing.T) {
	t.Parallel()

	runnerRepo := newStubRunnerRepo()
	service := NewProfileService(runnerRepo, newSeqIDGen(), logging.NewNop())
	ctx := context.Background()

	first, created, err := service.RegisterFromChat(ctx, RegisterInput{TelegramID: 333, FullName: "Петров Пётр"})
	if err != nil || !created {
		t.Fatalf("first registration: created=%v err=%v", created, err)
	}

	second, created, err := service.RegisterFromChat(ctx, RegisterInput{TelegramID: 333, FullName: "Петров Пётр"})
	if err != nil {
		t.Fatalf("second registration error: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("second registration must return the linked runner: first=%q second=%q created=%v",
			first.ID, second.ID, created)
	}
	if len(runnerRepo.items) != 1 {
		t.Fatalf("expected a single runner row, got %d", len(runnerRepo.items))
	}
}
