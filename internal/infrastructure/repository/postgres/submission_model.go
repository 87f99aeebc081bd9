package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/submission"
)

type submissionTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	ChatID        int64      `db:"chat_id"`
	Name          string     `db:"name"`
	Date          time.Time  `db:"date"`
	Location      *string    `db:"location"`
	WebsiteURL    *string    `db:"website_url"`
	Status        string     `db:"status"`
	ReviewedBy    *string    `db:"reviewed_by"`
	Comment       *string    `db:"comment"`
	CreatedRaceID *string    `db:"created_race_public_id"`
	CreatedAt     time.Time  `db:"created_at"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
}

type submissionInsertModel struct {
	PublicID   string    `db:"public_id"`
	ChatID     int64     `db:"chat_id"`
	Name       string    `db:"name"`
	Date       time.Time `db:"date"`
	Location   *string   `db:"location"`
	WebsiteURL *string   `db:"website_url"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

func submissionFromRow(row submissionTableModel) submission.Submission {
	return submission.Submission{
		ID:            row.PublicID,
		ChatID:        row.ChatID,
		Name:          row.Name,
		Date:          row.Date,
		Location:      stringValue(row.Location),
		WebsiteURL:    stringValue(row.WebsiteURL),
		Status:        row.Status,
		ReviewedBy:    stringValue(row.ReviewedBy),
		Comment:       stringValue(row.Comment),
		CreatedRaceID: stringValue(row.CreatedRaceID),
		CreatedAt:     row.CreatedAt,
		ReviewedAt:    row.ReviewedAt,
	}
}
