package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/result"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert inserts a result or, on a (runner, race, distance) conflict,
// overwrites the mutable fields of the stored row. The stored row keeps
// its original public id and created_at.
func (r *ResultRepository) Upsert(ctx context.Context, item result.Result) (result.Result, bool, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := item.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	model := resultInsertModel{
		PublicID:       item.ID,
		RunnerID:       item.RunnerID,
		RaceID:         item.RaceID,
		Distance:       item.Distance,
		FinishSeconds:  item.FinishSeconds,
		FinishDisplay:  optionalString(item.FinishDisplay),
		Place:          item.Place,
		GenderPlace:    item.GenderPlace,
		GroupPlace:     item.GroupPlace,
		TotalFinishers: item.TotalFinishers,
		AgeGroup:       optionalString(item.AgeGroup),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}

	query, args, err := qb.InsertModel("results", model, `ON CONFLICT (runner_public_id, race_public_id, distance) WHERE deleted_at IS NULL
DO UPDATE SET
    finish_seconds = EXCLUDED.finish_seconds,
    finish_display = EXCLUDED.finish_display,
    place = EXCLUDED.place,
    gender_place = EXCLUDED.gender_place,
    group_place = EXCLUDED.group_place,
    total_finishers = EXCLUDED.total_finishers,
    age_group = EXCLUDED.age_group,
    updated_at = EXCLUDED.updated_at
RETURNING public_id, created_at, updated_at, (xmax = 0) AS inserted`)
	if err != nil {
		return result.Result{}, false, fmt.Errorf("build upsert result query: %w", err)
	}

	var row struct {
		PublicID  string    `db:"public_id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
		Inserted  bool      `db:"inserted"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return result.Result{}, false, fmt.Errorf("upsert result: %w", err)
	}

	item.ID = row.PublicID
	item.CreatedAt = row.CreatedAt
	item.UpdatedAt = row.UpdatedAt
	return item, row.Inserted, nil
}

func (r *ResultRepository) GetByID(ctx context.Context, resultID string) (result.Result, bool, error) {
	query, args, err := qb.Select("*").From("results").
		Where(
			qb.Eq("public_id", resultID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return result.Result{}, false, fmt.Errorf("build get result by id query: %w", err)
	}

	var row resultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return result.Result{}, false, nil
		}
		return result.Result{}, false, fmt.Errorf("get result by id: %w", err)
	}

	return resultFromRow(row), true, nil
}

func (r *ResultRepository) ListByRunner(ctx context.Context, runnerID string) ([]result.Result, error) {
	return r.list(ctx, "list results by runner", qb.Eq("runner_public_id", runnerID))
}

func (r *ResultRepository) ListByRace(ctx context.Context, raceID string) ([]result.Result, error) {
	return r.list(ctx, "list results by race", qb.Eq("race_public_id", raceID))
}

func (r *ResultRepository) list(ctx context.Context, op string, condition qb.Condition) ([]result.Result, error) {
	query, args, err := qb.Select("*").From("results").
		Where(condition, qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultFromRow(row))
	}
	return out, nil
}

// PersonalBests keeps the fastest timed finish per distance label.
// Untimed rows (DNF and friends) never produce a best.
func (r *ResultRepository) PersonalBests(ctx context.Context, runnerID string) ([]result.PersonalBest, error) {
	query, args, err := qb.Select(
		"DISTINCT ON (res.distance) res.distance",
		"res.finish_seconds",
		"res.finish_display",
		"res.race_public_id",
		"races.name AS race_name",
	).
		From("results res JOIN races ON races.public_id = res.race_public_id AND races.deleted_at IS NULL").
		Where(
			qb.Eq("res.runner_public_id", runnerID),
			qb.Expr("res.finish_seconds IS NOT NULL"),
			qb.IsNull("res.deleted_at"),
		).
		OrderBy("res.distance", "res.finish_seconds").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build personal bests query: %w", err)
	}

	var rows []struct {
		Distance      string  `db:"distance"`
		FinishSeconds int     `db:"finish_seconds"`
		FinishDisplay *string `db:"finish_display"`
		RaceID        string  `db:"race_public_id"`
		RaceName      string  `db:"race_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select personal bests: %w", err)
	}

	out := make([]result.PersonalBest, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.PersonalBest{
			Distance:      row.Distance,
			FinishSeconds: row.FinishSeconds,
			FinishDisplay: stringValue(row.FinishDisplay),
			RaceID:        row.RaceID,
			RaceName:      row.RaceName,
		})
	}
	return out, nil
}

func (r *ResultRepository) Reassign(ctx context.Context, resultID, runnerID string) error {
	query, args, err := qb.Update("results").
		Set("runner_public_id", runnerID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", resultID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reassign result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reassign result: %w", err)
	}
	return nil
}

func (r *ResultRepository) DeleteByRunner(ctx context.Context, runnerID string) error {
	return r.softDelete(ctx, "delete results by runner", qb.Eq("runner_public_id", runnerID))
}

func (r *ResultRepository) DeleteByRace(ctx context.Context, raceID string) error {
	return r.softDelete(ctx, "delete results by race", qb.Eq("race_public_id", raceID))
}

func (r *ResultRepository) softDelete(ctx context.Context, op string, condition qb.Condition) error {
	query, args, err := qb.Update("results").
		SetExpr("deleted_at", "NOW()").
		Where(condition, qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
