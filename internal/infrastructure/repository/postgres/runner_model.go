package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/runner"
)

type runnerTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	LastName   string     `db:"last_name"`
	FirstName  string     `db:"first_name"`
	MiddleName *string    `db:"middle_name"`
	BirthDate  *time.Time `db:"birth_date"`
	Gender     *string    `db:"gender"`
	City       *string    `db:"city"`
	Club       *string    `db:"club"`
	TelegramID *int64     `db:"telegram_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type runnerInsertModel struct {
	PublicID   string     `db:"public_id"`
	LastName   string     `db:"last_name"`
	FirstName  string     `db:"first_name"`
	MiddleName *string    `db:"middle_name"`
	BirthDate  *time.Time `db:"birth_date"`
	Gender     *string    `db:"gender"`
	City       *string    `db:"city"`
	Club       *string    `db:"club"`
	TelegramID *int64     `db:"telegram_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func runnerFromRow(row runnerTableModel) runner.Runner {
	return runner.Runner{
		ID:         row.PublicID,
		LastName:   row.LastName,
		FirstName:  row.FirstName,
		MiddleName: stringValue(row.MiddleName),
		BirthDate:  row.BirthDate,
		Gender:     stringValue(row.Gender),
		City:       stringValue(row.City),
		Club:       stringValue(row.Club),
		TelegramID: row.TelegramID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
