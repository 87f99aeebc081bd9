package calendar

import (
	"context"
	"time"
)

// RawEvent is the untyped bag of fields a source adapter emits for one
// listing. Adapters fill whatever their source exposes; normalization
// turns it into an Event. Source-specific leftovers go into Extras.
type RawEvent struct {
	Name        string
	Date        string
	Location    string
	Organizer   string
	RaceType    string
	Distances   any
	WebsiteURL  string
	ProtocolURL string
	Extras      map[string]string
}

// Event is the canonical race record produced from a RawEvent. Date is
// nil when the raw date string could not be parsed; such events are not
// upcoming and are skipped by the collector.
type Event struct {
	Name        string
	Date        *time.Time
	Location    string
	Organizer   string
	RaceType    string
	Distances   []Distance
	WebsiteURL  string
	ProtocolURL string
	Source      string
}

// Distance mirrors the stored {name, elevation} shape.
type Distance struct {
	Name      string `json:"name"`
	Elevation int    `json:"elevation"`
}

// Source is one race-calendar provider. Implementations own their
// transport and markup knowledge; the collector only sees this contract.
// A failing source returns an error and the collector degrades it to
// zero events, it never aborts the other sources.
type Source interface {
	Name() string
	FetchUpcoming(ctx context.Context) ([]RawEvent, error)
}
