package protocol

import "time"

// RawRow is one extracted protocol row: column label → trimmed cell
// text. Extractors lower-case and whitespace-normalize the labels.
type RawRow map[string]string

// NormalizedRow is one finisher entry with typed fields. Pointer fields
// are nil when the source cell was absent or unparsable; a missing time
// is valid (a DNF entry can still appear in a protocol).
type NormalizedRow struct {
	LastName      string
	FirstName     string
	MiddleName    string
	FinishSeconds *int
	FinishDisplay string
	Place         *int
	GenderPlace   *int
	GroupPlace    *int
	BirthDate     *time.Time
	Distance      string
	Gender        string
	City          string
	Club          string
	AgeGroup      string
}
