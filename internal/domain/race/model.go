package race

import "time"

// Distance is one timed sub-event within a race. The distance list is
// stored as a JSON array of these objects; both source adapters and the
// display layer depend on this shape staying stable.
type Distance struct {
	Name      string `json:"name"`
	Elevation int    `json:"elevation"`
}

// Race is one real-world event instance. A yearly recurring event gets a
// new row per edition; dedup is by website URL, else by (name, date).
type Race struct {
	ID          string
	Name        string
	Date        time.Time
	Location    string
	Organizer   string
	OrganizerID string
	RaceType    string
	Distances   []Distance
	WebsiteURL  string
	ProtocolURL string
	Source      string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
