package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/feedback"
)

type feedbackTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	ChatID    int64     `db:"chat_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

type feedbackInsertModel struct {
	PublicID  string    `db:"public_id"`
	ChatID    int64     `db:"chat_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

func feedbackFromRow(row feedbackTableModel) feedback.Feedback {
	return feedback.Feedback{
		ID:        row.PublicID,
		ChatID:    row.ChatID,
		Message:   row.Message,
		CreatedAt: row.CreatedAt,
	}
}
