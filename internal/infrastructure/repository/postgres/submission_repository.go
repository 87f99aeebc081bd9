package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/submission"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, item submission.Submission) (submission.Submission, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	model := submissionInsertModel{
		PublicID:   item.ID,
		ChatID:     item.ChatID,
		Name:       item.Name,
		Date:       item.Date.UTC(),
		Location:   optionalString(item.Location),
		WebsiteURL: optionalString(item.WebsiteURL),
		Status:     item.Status,
		CreatedAt:  createdAt,
	}

	query, args, err := qb.InsertModel("race_submissions", model, "")
	if err != nil {
		return submission.Submission{}, fmt.Errorf("build insert submission query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return submission.Submission{}, fmt.Errorf("insert submission: %w", err)
	}

	item.CreatedAt = createdAt
	return item, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (submission.Submission, bool, error) {
	query, args, err := qb.Select("*").From("race_submissions").
		Where(qb.Eq("public_id", submissionID)).
		ToSQL()
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("build get submission by id query: %w", err)
	}

	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return submission.Submission{}, false, nil
		}
		return submission.Submission{}, false, fmt.Errorf("get submission by id: %w", err)
	}

	return submissionFromRow(row), true, nil
}

func (r *SubmissionRepository) ListPending(ctx context.Context) ([]submission.Submission, error) {
	query, args, err := qb.Select("*").From("race_submissions").
		Where(qb.EqLiteral("status", submission.StatusPending)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}

	out := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, submissionFromRow(row))
	}
	return out, nil
}

func (r *SubmissionRepository) SetStatus(ctx context.Context, submissionID, status, reviewedBy, comment, createdRaceID string) error {
	query, args, err := qb.Update("race_submissions").
		Set("status", status).
		Set("reviewed_by", optionalString(reviewedBy)).
		Set("comment", optionalString(comment)).
		Set("created_race_public_id", optionalString(createdRaceID)).
		SetExpr("reviewed_at", "NOW()").
		Where(qb.Eq("public_id", submissionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set submission status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set submission status: %w", err)
	}
	return nil
}
