package postgres

import (
	"time"

	"github.com/probegapp/probeg/internal/domain/result"
)

type resultTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	RunnerID       string     `db:"runner_public_id"`
	RaceID         string     `db:"race_public_id"`
	Distance       string     `db:"distance"`
	FinishSeconds  *int       `db:"finish_seconds"`
	FinishDisplay  *string    `db:"finish_display"`
	Place          *int       `db:"place"`
	GenderPlace    *int       `db:"gender_place"`
	GroupPlace     *int       `db:"group_place"`
	TotalFinishers *int       `db:"total_finishers"`
	AgeGroup       *string    `db:"age_group"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type resultInsertModel struct {
	PublicID       string    `db:"public_id"`
	RunnerID       string    `db:"runner_public_id"`
	RaceID         string    `db:"race_public_id"`
	Distance       string    `db:"distance"`
	FinishSeconds  *int      `db:"finish_seconds"`
	FinishDisplay  *string   `db:"finish_display"`
	Place          *int      `db:"place"`
	GenderPlace    *int      `db:"gender_place"`
	GroupPlace     *int      `db:"group_place"`
	TotalFinishers *int      `db:"total_finishers"`
	AgeGroup       *string   `db:"age_group"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func resultFromRow(row resultTableModel) result.Result {
	return result.Result{
		ID:             row.PublicID,
		RunnerID:       row.RunnerID,
		RaceID:         row.RaceID,
		Distance:       row.Distance,
		FinishSeconds:  row.FinishSeconds,
		FinishDisplay:  stringValue(row.FinishDisplay),
		Place:          row.Place,
		GenderPlace:    row.GenderPlace,
		GroupPlace:     row.GroupPlace,
		TotalFinishers: row.TotalFinishers,
		AgeGroup:       stringValue(row.AgeGroup),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
