package result

import "time"

// Result is one runner's finish in one distance of one race. Unique per
// (runner, race, distance); re-importing a protocol overwrites mutable
// fields instead of duplicating the row. Results are created only by the
// import pipeline, never by direct user entry.
type Result struct {
	ID             string
	RunnerID       string
	RaceID         string
	Distance       string
	FinishSeconds  *int
	FinishDisplay  string
	Place          *int
	GenderPlace    *int
	GroupPlace     *int
	TotalFinishers *int
	AgeGroup       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
