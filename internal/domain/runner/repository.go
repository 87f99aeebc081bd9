package runner

import (
	"context"
	"time"
)

// Repository describes runner persistence needs from use cases.
//
// FindByName returns candidates ordered so that a chat-linked runner
// comes first; the import pipeline relies on that ordering when several
// runners share a name.
type Repository interface {
	Create(ctx context.Context, item Runner) (Runner, error)
	GetByID(ctx context.Context, runnerID string) (Runner, bool, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (Runner, bool, error)
	FindByName(ctx context.Context, lastName, firstName string, birthDate *time.Time) ([]Runner, error)
	LinkTelegram(ctx context.Context, runnerID string, telegramID int64) error
	Update(ctx context.Context, item Runner) error
	Delete(ctx context.Context, runnerID string) error
}
