package subscription

import "time"

// Subscription means a runner wants to be notified about a race (new
// protocol imported, date changes).
type Subscription struct {
	ID        string
	RunnerID  string
	RaceID    string
	CreatedAt time.Time
}
