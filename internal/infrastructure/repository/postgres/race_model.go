package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/probegapp/probeg/internal/domain/race"
)

type raceTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Name        string     `db:"name"`
	Date        time.Time  `db:"date"`
	Location    *string    `db:"location"`
	Organizer   *string    `db:"organizer"`
	OrganizerID *string    `db:"organizer_public_id"`
	RaceType    *string    `db:"race_type"`
	Distances   *string    `db:"distances"`
	WebsiteURL  *string    `db:"website_url"`
	ProtocolURL *string    `db:"protocol_url"`
	Source      string     `db:"source"`
	IsActive    bool       `db:"is_active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type raceInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Date        time.Time `db:"date"`
	Location    *string   `db:"location"`
	Organizer   *string   `db:"organizer"`
	OrganizerID *string   `db:"organizer_public_id"`
	RaceType    *string   `db:"race_type"`
	Distances   *string   `db:"distances"`
	WebsiteURL  *string   `db:"website_url"`
	ProtocolURL *string   `db:"protocol_url"`
	Source      string    `db:"source"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func raceFromRow(row raceTableModel) (race.Race, error) {
	distances, err := decodeDistances(row.Distances)
	if err != nil {
		return race.Race{}, fmt.Errorf("decode distances for race %s: %w", row.PublicID, err)
	}

	return race.Race{
		ID:          row.PublicID,
		Name:        row.Name,
		Date:        row.Date,
		Location:    stringValue(row.Location),
		Organizer:   stringValue(row.Organizer),
		OrganizerID: stringValue(row.OrganizerID),
		RaceType:    stringValue(row.RaceType),
		Distances:   distances,
		WebsiteURL:  stringValue(row.WebsiteURL),
		ProtocolURL: stringValue(row.ProtocolURL),
		Source:      row.Source,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func racesFromRows(rows []raceTableModel) ([]race.Race, error) {
	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		item, err := raceFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func encodeDistances(distances []race.Distance) (*string, error) {
	if len(distances) == 0 {
		return nil, nil
	}
	raw, err := sonic.MarshalString(distances)
	if err != nil {
		return nil, err
	}
	return &raw, nil
}

func decodeDistances(raw *string) ([]race.Distance, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var out []race.Distance
	if err := sonic.UnmarshalString(*raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
