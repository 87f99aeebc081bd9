package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/subscription"
)

type subscriptionTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	RunnerID  string     `db:"runner_public_id"`
	RaceID    string     `db:"race_public_id"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type subscriptionInsertModel struct {
	PublicID  string    `db:"public_id"`
	RunnerID  string    `db:"runner_public_id"`
	RaceID    string    `db:"race_public_id"`
	CreatedAt time.Time `db:"created_at"`
}

func subscriptionFromRow(row subscriptionTableModel) subscription.Subscription {
	return subscription.Subscription{
		ID:        row.PublicID,
		RunnerID:  row.RunnerID,
		RaceID:    row.RaceID,
		CreatedAt: row.CreatedAt,
	}
}
