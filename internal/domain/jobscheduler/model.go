package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchEvent is one lifecycle transition of a scheduled job run:
// enqueued to the job queue, completed, or failed. Target narrows the
// run (a source filter for collection or protocol sync); "all" means
// unscoped.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	Target       string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
