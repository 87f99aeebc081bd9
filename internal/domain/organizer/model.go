package organizer

import "time"

// Organizer is the canonical identity for a race-hosting entity. It
// exists to merge free-text organizer strings spelled differently across
// sources; races link to it lazily by name match.
type Organizer struct {
	ID         string
	Name       string
	WebsiteURL string
	CreatedAt  time.Time
}
