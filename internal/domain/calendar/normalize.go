package calendar

import (
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

const defaultRaceType = "шоссе"

// Genitive Russian month names and their 3-letter forms, longest first
// so that "марта" is rewritten before "мар".
var monthReplacer = strings.NewReplacer(
	"января", "January", "февраля", "February", "марта", "March",
	"апреля", "April", "мая", "May", "июня", "June",
	"июля", "July", "августа", "August", "сентября", "September",
	"октября", "October", "ноября", "November", "декабря", "December",
	"янв", "Jan", "фев", "Feb", "мар", "Mar", "апр", "Apr",
	"июн", "Jun", "июл", "Jul", "авг", "Aug", "сен", "Sep",
	"окт", "Oct", "ноя", "Nov", "дек", "Dec",
)

var dateFormats = []string{
	"02.01.2006",
	"2006-01-02",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02.01.2006 15:04",
}

var dottedDateRegex = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`)

// organizerTable maps known URL or name fragments (lower-case) to
// canonical organizer display names.
var organizerTable = []struct {
	fragment  string
	canonical string
}{
	{"5verst", "5верст"},
	{"5 верст", "5верст"},
	{"s95", "S95"},
	{"sport-95", "S95"},
	{"rhr", "RHR"},
	{"runhide", "RHR"},
	{"rhr-marathon", "RHR"},
	{"moscow marathon", "Московский марафон"},
	{"moscowmarathon", "Московский марафон"},
	{"ironstar", "IronStar"},
	{"iron-star", "IronStar"},
	{"russiarunning", "RussiaRunning"},
	{"myrace", "MyRace"},
	{"timerman", "TIMERMAN"},
	{"kazan.run", "TIMERMAN"},
	{"kazan marathon", "TIMERMAN"},
	{"казанский марафон", "TIMERMAN"},
	{"runc.run", "Юнистар"},
	{"unistar", "Юнистар"},
	{"юнистар", "Юнистар"},
	{"белые ночи", "Марафон «Белые ночи»"},
	{"whitenights", "Марафон «Белые ночи»"},
	{"runup", "RUNUP"},
	{"iloverunning", "I Love Running"},
	{"orgeo", "Orgeo"},
	{"cronosport", "CronoSport"},
}

const organizerUnknown = "Не указан"

// CleanString collapses internal whitespace runs into single spaces.
func CleanString(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ParseEventDate parses a calendar date out of the formats the sources
// produce: dd.mm.yyyy, ISO, free text with Russian month names in the
// genitive case or 3-letter abbreviations, and as a last resort a
// dd.mm.yyyy substring anywhere in a noisy string. It reports failure
// through the second return value, never through a panic or error.
func ParseEventDate(raw string) (time.Time, bool) {
	cleaned := CleanString(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	candidate := monthReplacer.Replace(strings.ToLower(cleaned))
	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, candidate); err == nil {
			return parsed.Truncate(24 * time.Hour), true
		}
	}

	if match := dottedDateRegex.FindString(candidate); match != "" {
		if parsed, err := time.Parse("2.1.2006", match); err == nil {
			return parsed.Truncate(24 * time.Hour), true
		}
	}

	return time.Time{}, false
}

// DetectOrganizer canonicalizes the organizer via case-insensitive
// substring matching against the known fragment table, checking the
// event URL first and the event name second. Unmatched input passes
// through as free text.
func DetectOrganizer(raw RawEvent) string {
	url := strings.ToLower(raw.WebsiteURL)
	name := strings.ToLower(raw.Name)

	for _, entry := range organizerTable {
		if strings.Contains(url, entry.fragment) || strings.Contains(name, entry.fragment) {
			return entry.canonical
		}
	}

	if organizer := CleanString(raw.Organizer); organizer != "" {
		return organizer
	}
	return organizerUnknown
}

// NormalizeDistances accepts the shapes adapters produce (a plain
// string, a list of strings, a list of {name, elevation} objects, or a
// pre-serialized JSON array) and always yields the canonical list.
// Malformed or empty input yields an empty list.
func NormalizeDistances(value any) []Distance {
	switch v := value.(type) {
	case nil:
		return []Distance{}
	case []Distance:
		if v == nil {
			return []Distance{}
		}
		return v
	case Distance:
		return []Distance{v}
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return []Distance{}
		}
		if strings.HasPrefix(trimmed, "[") {
			var parsed []Distance
			if err := sonic.UnmarshalString(trimmed, &parsed); err == nil {
				return parsed
			}
		}
		return []Distance{{Name: trimmed}}
	case []string:
		out := make([]Distance, 0, len(v))
		for _, name := range v {
			if strings.TrimSpace(name) == "" {
				continue
			}
			out = append(out, Distance{Name: strings.TrimSpace(name)})
		}
		return out
	case []any:
		out := make([]Distance, 0, len(v))
		for _, item := range v {
			switch entry := item.(type) {
			case string:
				if strings.TrimSpace(entry) != "" {
					out = append(out, Distance{Name: strings.TrimSpace(entry)})
				}
			case Distance:
				out = append(out, entry)
			case map[string]any:
				name, _ := entry["name"].(string)
				if strings.TrimSpace(name) == "" {
					continue
				}
				elevation := 0
				switch e := entry["elevation"].(type) {
				case float64:
					elevation = int(e)
				case int:
					elevation = e
				}
				out = append(out, Distance{Name: strings.TrimSpace(name), Elevation: elevation})
			}
		}
		return out
	default:
		return []Distance{}
	}
}

// EncodeDistances serializes the canonical distance list. This is the
// one wire format the pipeline guarantees stability on.
func EncodeDistances(distances []Distance) string {
	if distances == nil {
		distances = []Distance{}
	}
	encoded, err := sonic.MarshalString(distances)
	if err != nil {
		return "[]"
	}
	return encoded
}

// Normalize turns a raw adapter listing into the canonical event shape.
func Normalize(raw RawEvent, source string) Event {
	raceType := CleanString(raw.RaceType)
	if raceType == "" {
		raceType = defaultRaceType
	}

	event := Event{
		Name:        CleanString(raw.Name),
		Location:    CleanString(raw.Location),
		Organizer:   DetectOrganizer(raw),
		RaceType:    raceType,
		Distances:   NormalizeDistances(raw.Distances),
		WebsiteURL:  strings.TrimSpace(raw.WebsiteURL),
		ProtocolURL: strings.TrimSpace(raw.ProtocolURL),
		Source:      source,
	}
	if parsed, ok := ParseEventDate(raw.Date); ok {
		event.Date = &parsed
	}
	return event
}

// IsUpcoming reports whether the event happens today or later. Events
// whose date failed to parse are never upcoming.
func IsUpcoming(event Event, today time.Time) bool {
	if event.Date == nil {
		return false
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return !event.Date.Before(day)
}
