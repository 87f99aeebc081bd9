package protocol

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A cases.Caser keeps internal transform state, so a fresh one is built
// per call instead of being shared across goroutines.
func titleCase(s string) string {
	return cases.Title(language.Russian).String(s)
}

var (
	digitsRegex     = regexp.MustCompile(`\d+`)
	numberRegex     = regexp.MustCompile(`\d+\.?\d*`)
	verbalTimeRegex = regexp.MustCompile(`(?i)(\d+)\s*[чh]\s*(\d+)\s*[мm]\s*(\d+)`)
	timeJunkRegex   = regexp.MustCompile(`[^\d:.]`)
	cityJunkRegex   = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
)

// Place tokens meaning the runner did not finish, start or was
// disqualified. They parse to "no place", not to zero.
var noPlaceTokens = map[string]struct{}{
	"DNF": {}, "DSQ": {}, "DNS": {}, "НФ": {}, "СН": {}, "ДИСК": {},
}

// NormalizeName splits a protocol name cell into title-cased parts.
// One token is a bare surname, two are surname + given name, three or
// more add a patronymic; tokens beyond the third are ignored.
func NormalizeName(fullName string) (lastName, firstName, middleName string) {
	parts := strings.Fields(fullName)
	switch {
	case len(parts) == 0:
		return "", "", ""
	case len(parts) == 1:
		return titleCase(parts[0]), "", ""
	case len(parts) == 2:
		return titleCase(parts[0]), titleCase(parts[1]), ""
	default:
		return titleCase(parts[0]), titleCase(parts[1]), titleCase(parts[2])
	}
}

// ParseFinishSeconds converts a finish-time cell into total seconds.
// Accepted shapes: plain integer seconds, MM:SS, HH:MM:SS (fractional
// seconds truncated) and the verbal "1ч 15м 30с" pattern. Anything else
// yields nil; a missing time is not an error.
func ParseFinishSeconds(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if seconds, err := strconv.Atoi(trimmed); err == nil {
		return &seconds
	}

	if match := verbalTimeRegex.FindStringSubmatch(trimmed); match != nil {
		hours, _ := strconv.Atoi(match[1])
		minutes, _ := strconv.Atoi(match[2])
		seconds, _ := strconv.Atoi(match[3])
		total := hours*3600 + minutes*60 + seconds
		return &total
	}

	cleaned := timeJunkRegex.ReplaceAllString(trimmed, "")
	parts := strings.Split(cleaned, ":")
	switch len(parts) {
	case 2:
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil
		}
		seconds, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil
		}
		total := minutes*60 + int(seconds)
		return &total
	case 3:
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil
		}
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil
		}
		total := hours*3600 + minutes*60 + int(seconds)
		return &total
	default:
		return nil
	}
}

// ParsePlace extracts the first integer from a place cell. DNF-family
// tokens in either language yield nil rather than zero.
func ParsePlace(raw string) *int {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil
	}
	if _, skip := noPlaceTokens[trimmed]; skip {
		return nil
	}
	match := digitsRegex.FindString(trimmed)
	if match == "" {
		return nil
	}
	place, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &place
}

// ParseBirthDate handles the birth cells protocols carry: a bare year
// within [1950, 2010] becomes January 1 of that year; full dates are
// tried as ISO, dd.mm.yyyy, dd/mm/yyyy and yyyy.mm.dd.
func ParseBirthDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if year, err := strconv.Atoi(trimmed); err == nil && len(trimmed) == 4 {
		if year < 1950 || year > 2010 {
			return nil
		}
		date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &date
	}

	for _, format := range []string{"2006-01-02", "02.01.2006", "02/01/2006", "2006.01.02"} {
		if parsed, err := time.Parse(format, trimmed); err == nil {
			return &parsed
		}
	}
	return nil
}

// NormalizeDistance reduces a distance cell to "<n> км". The leading
// number is extracted, the unit classified by substring (Cyrillic or
// Latin, km before m since the latter matches inside the former), metre
// values divided by 1000. At most one decimal survives, trailing zeros
// and points are stripped.
func NormalizeDistance(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	match := numberRegex.FindString(trimmed)
	if match == "" {
		return trimmed
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return trimmed
	}

	lowered := strings.ToLower(trimmed)
	kilometres := strings.Contains(lowered, "км") || strings.Contains(lowered, "km") || strings.Contains(lowered, "k")
	metres := strings.Contains(lowered, "м") || strings.Contains(lowered, "m")
	if !kilometres && metres {
		value /= 1000
	}

	formatted := strconv.FormatFloat(value, 'f', 1, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	return formatted + " км"
}

// NormalizeGender maps single-letter and word forms in both languages
// onto the binary M/F code. Unrecognized input yields empty.
func NormalizeGender(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "М", "M", "МУЖ", "MALE", "МУЖСКОЙ":
		return "M"
	case "Ж", "F", "ЖЕН", "FEMALE", "ЖЕНСКИЙ":
		return "F"
	default:
		return ""
	}
}

// NormalizeCity strips punctuation noise and title-cases the rest.
func NormalizeCity(raw string) string {
	cleaned := cityJunkRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return ""
	}
	return titleCase(cleaned)
}

func firstValue(row RawRow, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(row[key]); value != "" {
			return value
		}
	}
	return ""
}

// Normalize converts one raw protocol row into typed fields. The name
// is checked against the noise filter first; rows failing it are
// rejected outright regardless of the other cells.
func Normalize(row RawRow) (NormalizedRow, bool) {
	fullName := firstValue(row, "name", "full_name", "фио")
	if !LooksLikeRunnerName(fullName) {
		return NormalizedRow{}, false
	}

	lastName, firstName, middleName := NormalizeName(fullName)
	rawTime := firstValue(row, "time", "finish_time", "время")
	normalized := NormalizedRow{
		LastName:      lastName,
		FirstName:     firstName,
		MiddleName:    middleName,
		FinishSeconds: ParseFinishSeconds(rawTime),
		FinishDisplay: rawTime,
		Place:         ParsePlace(firstValue(row, "place", "место", "overall_place")),
		GenderPlace:   ParsePlace(firstValue(row, "gender_place", "место по полу")),
		GroupPlace:    ParsePlace(firstValue(row, "age_group_place", "место в категории")),
		BirthDate:     ParseBirthDate(firstValue(row, "birth_date", "birth_year", "год рождения")),
		Distance:      NormalizeDistance(firstValue(row, "distance", "дистанция")),
		Gender:        NormalizeGender(firstValue(row, "gender", "пол", "sex")),
		City:          NormalizeCity(firstValue(row, "city", "город", "location")),
		Club:          firstValue(row, "club", "клуб"),
		AgeGroup:      firstValue(row, "age_group", "возрастная категория", "группа"),
	}
	return normalized, true
}
