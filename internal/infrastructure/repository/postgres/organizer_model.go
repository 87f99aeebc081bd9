package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/organizer"
)

type organizerTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	Name       string     `db:"name"`
	WebsiteURL *string    `db:"website_url"`
	CreatedAt  time.Time  `db:"created_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type organizerInsertModel struct {
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func organizerFromRow(row organizerTableModel) organizer.Organizer {
	return organizer.Organizer{
		ID:         row.PublicID,
		Name:       row.Name,
		WebsiteURL: stringValue(row.WebsiteURL),
		CreatedAt:  row.CreatedAt,
	}
}
