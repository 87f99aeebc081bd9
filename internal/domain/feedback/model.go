package feedback

import "time"

// Feedback is one free-text message left by a bot user.
type Feedback struct {
	ID        string
	ChatID    int64
	Message   string
	CreatedAt time.Time
}
