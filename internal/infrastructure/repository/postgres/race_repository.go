package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/race"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func (r *RaceRepository) Create(ctx context.Context, item race.Race) (race.Race, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := item.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	distances, err := encodeDistances(item.Distances)
	if err != nil {
		return race.Race{}, fmt.Errorf("encode race distances: %w", err)
	}

	model := raceInsertModel{
		PublicID:    item.ID,
		Name:        item.Name,
		Date:        item.Date.UTC(),
		Location:    optionalString(item.Location),
		Organizer:   optionalString(item.Organizer),
		OrganizerID: optionalString(item.OrganizerID),
		RaceType:    optionalString(item.RaceType),
		Distances:   distances,
		WebsiteURL:  optionalString(item.WebsiteURL),
		ProtocolURL: optionalString(item.ProtocolURL),
		Source:      item.Source,
		IsActive:    item.IsActive,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	query, args, err := qb.InsertModel("races", model, "")
	if err != nil {
		return race.Race{}, fmt.Errorf("build insert race query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return race.Race{}, fmt.Errorf("insert race: %w", err)
	}

	item.CreatedAt = createdAt
	item.UpdatedAt = updatedAt
	return item, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	return r.getOne(ctx, "get race by id", qb.Eq("public_id", raceID))
}

func (r *RaceRepository) GetByWebsiteURL(ctx context.Context, websiteURL string) (race.Race, bool, error) {
	trimmed := strings.TrimSpace(websiteURL)
	if trimmed == "" {
		return race.Race{}, false, nil
	}
	return r.getOne(ctx, "get race by website url", qb.Expr("LOWER(website_url) = LOWER(?)", trimmed))
}

func (r *RaceRepository) GetByNameAndDate(ctx context.Context, name string, date time.Time) (race.Race, bool, error) {
	return r.getOne(ctx, "get race by name and date",
		qb.Expr("LOWER(name) = LOWER(?)", strings.TrimSpace(name)),
		qb.Eq("date", date.UTC()),
	)
}

func (r *RaceRepository) getOne(ctx context.Context, op string, conditions ...qb.Condition) (race.Race, bool, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := qb.Select("*").From("races").
		Where(conditions...).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("%s: %w", op, err)
	}

	item, err := raceFromRow(row)
	if err != nil {
		return race.Race{}, false, err
	}
	return item, true, nil
}

func (r *RaceRepository) Search(ctx context.Context, filter race.SearchFilter) ([]race.Race, int, error) {
	conditions := searchConditions(filter)

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("races").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count races query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count races: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	query, args, err := qb.Select("*").From("races").
		Where(conditions...).
		OrderBy("date", "id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build search races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search races: %w", err)
	}

	out, err := racesFromRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func searchConditions(filter race.SearchFilter) []qb.Condition {
	conditions := []qb.Condition{qb.IsNull("deleted_at")}
	if query := strings.TrimSpace(filter.Query); query != "" {
		conditions = append(conditions, qb.Expr("name ILIKE ?", "%"+query+"%"))
	}
	if raceType := strings.TrimSpace(filter.RaceType); raceType != "" {
		conditions = append(conditions, qb.Eq("race_type", raceType))
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		conditions = append(conditions, qb.Expr("location ILIKE ?", "%"+location+"%"))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, qb.Expr("date >= ?", filter.DateFrom.UTC()))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, qb.Expr("date <= ?", filter.DateTo.UTC()))
	}
	if filter.HasProtocol {
		conditions = append(conditions, qb.Expr("protocol_url IS NOT NULL"))
	}
	return conditions
}

func (r *RaceRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]race.Race, error) {
	query, args, err := qb.Select("*").From("races").
		Where(
			qb.Expr("date >= ?", from.UTC()),
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("date", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list upcoming races: %w", err)
	}

	return racesFromRows(rows)
}

func (r *RaceRepository) ListWithProtocols(ctx context.Context, source string, limit int) ([]race.Race, error) {
	conditions := []qb.Condition{
		qb.Expr("protocol_url IS NOT NULL"),
		qb.IsNull("deleted_at"),
	}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		conditions = append(conditions, qb.Eq("source", trimmed))
	}

	query, args, err := qb.Select("*").From("races").
		Where(conditions...).
		OrderBy("date DESC", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list races with protocols query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list races with protocols: %w", err)
	}

	return racesFromRows(rows)
}

func (r *RaceRepository) Update(ctx context.Context, item race.Race) error {
	distances, err := encodeDistances(item.Distances)
	if err != nil {
		return fmt.Errorf("encode race distances: %w", err)
	}

	query, args, err := qb.Update("races").
		Set("name", item.Name).
		Set("date", item.Date.UTC()).
		Set("location", optionalString(item.Location)).
		Set("organizer", optionalString(item.Organizer)).
		Set("organizer_public_id", optionalString(item.OrganizerID)).
		Set("race_type", optionalString(item.RaceType)).
		Set("distances", distances).
		Set("website_url", optionalString(item.WebsiteURL)).
		Set("protocol_url", optionalString(item.ProtocolURL)).
		Set("is_active", item.IsActive).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update race query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update race: %w", err)
	}
	return nil
}

func (r *RaceRepository) Delete(ctx context.Context, raceID string) error {
	query, args, err := qb.Update("races").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", raceID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete race query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete race: %w", err)
	}
	return nil
}
