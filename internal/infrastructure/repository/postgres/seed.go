package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the known organizer series into an empty
// database. Running it against a populated database is a no-op.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM organizers WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count organizers for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range memory.SeedOrganizers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO organizers (public_id, name, website_url, created_at)
VALUES (:public_id, :name, :website_url, now())
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":   item.ID,
			"name":        item.Name,
			"website_url": item.WebsiteURL,
		})
		if err != nil {
			return fmt.Errorf("bind seed organizer %s query: %w", item.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed organizer %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap seed: %w", err)
	}
	return nil
}
