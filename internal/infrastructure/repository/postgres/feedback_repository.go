package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/feedback"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type FeedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, item feedback.Feedback) (feedback.Feedback, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	model := feedbackInsertModel{
		PublicID:  item.ID,
		ChatID:    item.ChatID,
		Message:   item.Message,
		CreatedAt: createdAt,
	}

	query, args, err := qb.InsertModel("feedback", model, "")
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("build insert feedback query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return feedback.Feedback{}, fmt.Errorf("insert feedback: %w", err)
	}

	item.CreatedAt = createdAt
	return item, nil
}

func (r *FeedbackRepository) List(ctx context.Context, limit int) ([]feedback.Feedback, error) {
	builder := qb.Select("*").From("feedback").OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list feedback query: %w", err)
	}

	var rows []feedbackTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	out := make([]feedback.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, feedbackFromRow(row))
	}
	return out, nil
}
