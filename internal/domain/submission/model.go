package submission

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a user-suggested race waiting for moderation. Approval
// publishes it to the calendar as a regular race; the created race id
// is kept on the submission for traceability.
type Submission struct {
	ID            string
	ChatID        int64
	Name          string
	Date          time.Time
	Location      string
	WebsiteURL    string
	Status        string
	ReviewedBy    string
	Comment       string
	CreatedRaceID string
	CreatedAt     time.Time
	ReviewedAt    *time.Time
}

func (s Submission) IsTerminal() bool {
	return s.Status == StatusApproved || s.Status == StatusRejected
}
