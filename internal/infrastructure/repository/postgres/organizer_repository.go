package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/organizer"
	"github.com/probegapp/probeg/internal/platform/id"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type OrganizerRepository struct {
	db    *sqlx.DB
	idGen id.Generator
}

func NewOrganizerRepository(db *sqlx.DB, idGen id.Generator) *OrganizerRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &OrganizerRepository{db: db, idGen: idGen}
}

// GetOrCreateByName resolves an organizer by exact name, minting a row
// when none exists. Two concurrent calls for the same name settle on a
// single row through the name conflict.
func (r *OrganizerRepository) GetOrCreateByName(ctx context.Context, name string) (organizer.Organizer, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return organizer.Organizer{}, fmt.Errorf("organizer name is required")
	}

	existing, found, err := r.GetByName(ctx, trimmed)
	if err != nil {
		return organizer.Organizer{}, err
	}
	if found {
		return existing, nil
	}

	publicID, err := r.idGen.NewID()
	if err != nil {
		return organizer.Organizer{}, fmt.Errorf("generate organizer id: %w", err)
	}

	model := organizerInsertModel{
		PublicID:  publicID,
		Name:      trimmed,
		CreatedAt: time.Now().UTC(),
	}

	// DO UPDATE keeps RETURNING populated when another writer won the
	// race on the name.
	query, args, err := qb.InsertModel("organizers", model, `ON CONFLICT (name) WHERE deleted_at IS NULL
DO UPDATE SET name = EXCLUDED.name
RETURNING public_id, name, website_url, created_at`)
	if err != nil {
		return organizer.Organizer{}, fmt.Errorf("build insert organizer query: %w", err)
	}

	var row struct {
		PublicID   string    `db:"public_id"`
		Name       string    `db:"name"`
		WebsiteURL *string   `db:"website_url"`
		CreatedAt  time.Time `db:"created_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return organizer.Organizer{}, fmt.Errorf("insert organizer: %w", err)
	}

	return organizer.Organizer{
		ID:         row.PublicID,
		Name:       row.Name,
		WebsiteURL: stringValue(row.WebsiteURL),
		CreatedAt:  row.CreatedAt,
	}, nil
}

func (r *OrganizerRepository) GetByName(ctx context.Context, name string) (organizer.Organizer, bool, error) {
	query, args, err := qb.Select("*").From("organizers").
		Where(
			qb.Eq("name", strings.TrimSpace(name)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return organizer.Organizer{}, false, fmt.Errorf("build get organizer by name query: %w", err)
	}

	var row organizerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return organizer.Organizer{}, false, nil
		}
		return organizer.Organizer{}, false, fmt.Errorf("get organizer by name: %w", err)
	}

	return organizerFromRow(row), true, nil
}

func (r *OrganizerRepository) List(ctx context.Context) ([]organizer.Organizer, error) {
	query, args, err := qb.Select("*").From("organizers").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list organizers query: %w", err)
	}

	var rows []organizerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}

	out := make([]organizer.Organizer, 0, len(rows))
	for _, row := range rows {
		out = append(out, organizerFromRow(row))
	}
	return out, nil
}
