package claim

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Claim is a user's assertion that a specific result belongs to them.
// At most one claim exists per (result, runner) pair; a duplicate
// submission is a silent no-op. Only approval mutates result ownership.
type Claim struct {
	ID         string
	ResultID   string
	RunnerID   string
	ChatID     int64
	Status     string
	ReviewedBy string
	Comment    string
	CreatedAt  time.Time
	ReviewedAt *time.Time
}

func (c Claim) IsTerminal() bool {
	return c.Status == StatusApproved || c.Status == StatusRejected
}
