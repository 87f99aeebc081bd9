package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/runner"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type RunnerRepository struct {
	db *sqlx.DB
}

func NewRunnerRepository(db *sqlx.DB) *RunnerRepository {
	return &RunnerRepository{db: db}
}

func (r *RunnerRepository) Create(ctx context.Context, item runner.Runner) (runner.Runner, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := item.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	model := runnerInsertModel{
		PublicID:   item.ID,
		LastName:   item.LastName,
		FirstName:  item.FirstName,
		MiddleName: optionalString(item.MiddleName),
		BirthDate:  item.BirthDate,
		Gender:     optionalString(item.Gender),
		City:       optionalString(item.City),
		Club:       optionalString(item.Club),
		TelegramID: item.TelegramID,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}

	query, args, err := qb.InsertModel("runners", model, "")
	if err != nil {
		return runner.Runner{}, fmt.Errorf("build insert runner query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return runner.Runner{}, fmt.Errorf("insert runner: %w", err)
	}

	item.CreatedAt = createdAt
	item.UpdatedAt = updatedAt
	return item, nil
}

func (r *RunnerRepository) GetByID(ctx context.Context, runnerID string) (runner.Runner, bool, error) {
	query, args, err := qb.Select("*").From("runners").
		Where(
			qb.Eq("public_id", runnerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return runner.Runner{}, false, fmt.Errorf("build get runner by id query: %w", err)
	}

	var row runnerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return runner.Runner{}, false, nil
		}
		return runner.Runner{}, false, fmt.Errorf("get runner by id: %w", err)
	}

	return runnerFromRow(row), true, nil
}

func (r *RunnerRepository) GetByTelegramID(ctx context.Context, telegramID int64) (runner.Runner, bool, error) {
	query, args, err := qb.Select("*").From("runners").
		Where(
			qb.Eq("telegram_id", telegramID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return runner.Runner{}, false, fmt.Errorf("build get runner by telegram id query: %w", err)
	}

	var row runnerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return runner.Runner{}, false, nil
		}
		return runner.Runner{}, false, fmt.Errorf("get runner by telegram id: %w", err)
	}

	return runnerFromRow(row), true, nil
}

// FindByName matches case-insensitively. A stored runner without a birth
// date still matches a search that carries one; two conflicting birth
// dates never match.
func (r *RunnerRepository) FindByName(ctx context.Context, lastName, firstName string, birthDate *time.Time) ([]runner.Runner, error) {
	conditions := []qb.Condition{
		qb.Expr("LOWER(last_name) = LOWER(?)", lastName),
		qb.Expr("LOWER(first_name) = LOWER(?)", firstName),
		qb.IsNull("deleted_at"),
	}
	if birthDate != nil {
		conditions = append(conditions, qb.Expr("(birth_date IS NULL OR birth_date = ?)", birthDate.UTC()))
	}

	query, args, err := qb.Select("*").From("runners").
		Where(conditions...).
		OrderBy("CASE WHEN telegram_id IS NOT NULL THEN 0 ELSE 1 END", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find runners by name query: %w", err)
	}

	var rows []runnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find runners by name: %w", err)
	}

	out := make([]runner.Runner, 0, len(rows))
	for _, row := range rows {
		out = append(out, runnerFromRow(row))
	}
	return out, nil
}

func (r *RunnerRepository) LinkTelegram(ctx context.Context, runnerID string, telegramID int64) error {
	query, args, err := qb.Update("runners").
		Set("telegram_id", telegramID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", runnerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build link runner telegram query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link runner telegram: %w", err)
	}
	return nil
}

func (r *RunnerRepository) Update(ctx context.Context, item runner.Runner) error {
	query, args, err := qb.Update("runners").
		Set("last_name", item.LastName).
		Set("first_name", item.FirstName).
		Set("middle_name", optionalString(item.MiddleName)).
		Set("birth_date", item.BirthDate).
		Set("gender", optionalString(item.Gender)).
		Set("city", optionalString(item.City)).
		Set("club", optionalString(item.Club)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update runner query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update runner: %w", err)
	}
	return nil
}

func (r *RunnerRepository) Delete(ctx context.Context, runnerID string) error {
	query, args, err := qb.Update("runners").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", runnerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete runner query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete runner: %w", err)
	}
	return nil
}
