package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/claim"
)

type claimTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	ResultID   string     `db:"result_public_id"`
	RunnerID   string     `db:"runner_public_id"`
	ChatID     int64      `db:"chat_id"`
	Status     string     `db:"status"`
	ReviewedBy *string    `db:"reviewed_by"`
	Comment    *string    `db:"comment"`
	CreatedAt  time.Time  `db:"created_at"`
	ReviewedAt *time.Time `db:"reviewed_at"`
}

type claimInsertModel struct {
	PublicID  string    `db:"public_id"`
	ResultID  string    `db:"result_public_id"`
	RunnerID  string    `db:"runner_public_id"`
	ChatID    int64     `db:"chat_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func claimFromRow(row claimTableModel) claim.Claim {
	return claim.Claim{
		ID:         row.PublicID,
		ResultID:   row.ResultID,
		RunnerID:   row.RunnerID,
		ChatID:     row.ChatID,
		Status:     row.Status,
		ReviewedBy: stringValue(row.ReviewedBy),
		Comment:    stringValue(row.Comment),
		CreatedAt:  row.CreatedAt,
		ReviewedAt: row.ReviewedAt,
	}
}
