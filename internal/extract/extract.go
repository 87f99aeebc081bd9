// Package extract turns downloaded result documents into raw protocol
// rows. Three extractor families share one output shape: spreadsheets,
// PDF protocols and client-rendered result pages. Every retained row
// passes the shared runner-name noise filter regardless of which
// extraction path produced it.
package extract

import (
	"strconv"
	"strings"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// Options tune where an extractor looks for the header row.
type Options struct {
	// SheetName picks a spreadsheet sheet explicitly. Empty means
	// auto-detect by keyword, falling back to the first sheet.
	SheetName string
	// HeaderRow is the zero-based index of the row holding column
	// labels.
	HeaderRow int
	// Page limits PDF extraction to one page (1-based). Zero means all
	// pages.
	Page int
}

// Header fragments mapped onto canonical row keys, matched by substring
// against the lower-cased label. Order matters: the first match wins.
var headerKeywords = []struct {
	fragments []string
	key       string
}{
	{fragments: []string{"место", "place", "позиц", "#"}, key: "place"},
	{fragments: []string{"фио", "имя", "name", "участник", "runner"}, key: "name"},
	{fragments: []string{"время", "time", "финиш", "finish"}, key: "time"},
	{fragments: []string{"дистанц", "distance", "дист"}, key: "distance"},
	{fragments: []string{"город", "city", "location"}, key: "city"},
	{fragments: []string{"пол", "gender", "sex", "м/ж"}, key: "gender"},
	{fragments: []string{"год", "рожден", "birth", "возраст"}, key: "birth_date"},
	{fragments: []string{"клуб", "club", "команда", "team"}, key: "club"},
	{fragments: []string{"категор", "группа", "age"}, key: "age_group"},
}

// MapHeader resolves a raw column label to its canonical key, or ""
// when the label is not recognized.
func MapHeader(label string) string {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return ""
	}
	for _, entry := range headerKeywords {
		for _, fragment := range entry.fragments {
			if fragment == "#" {
				if lowered == "#" {
					return entry.key
				}
				continue
			}
			if strings.Contains(lowered, fragment) {
				return entry.key
			}
		}
	}
	return ""
}

// normalizeLabel lower-cases a header cell and collapses whitespace
// into underscores, so unrecognized labels still make stable keys.
func normalizeLabel(label string) string {
	lowered := strings.ToLower(strings.TrimSpace(label))
	lowered = strings.ReplaceAll(lowered, "ё", "е")
	return strings.Join(strings.Fields(lowered), "_")
}

// assembleRow pairs header labels with cells. Recognized labels become
// canonical keys; the rest keep their normalized label. Rows with no
// non-empty cell yield nil.
func assembleRow(headers []string, cells []string) protocol.RawRow {
	row := make(protocol.RawRow, len(cells))
	hasValue := false
	for i, cell := range cells {
		value := strings.TrimSpace(cell)
		if value != "" {
			hasValue = true
		}

		key := ""
		if i < len(headers) {
			if mapped := MapHeader(headers[i]); mapped != "" {
				key = mapped
			} else if normalized := normalizeLabel(headers[i]); normalized != "" {
				key = normalized
			}
		}
		if key == "" {
			key = colKey(i)
		}
		if _, taken := row[key]; !taken {
			row[key] = value
		}
	}
	if !hasValue {
		return nil
	}
	return row
}

func colKey(i int) string {
	return "col_" + strconv.Itoa(i)
}

// FilterRows keeps only rows whose name field passes the runner-name
// noise filter. Rows without any name field are dropped too: a row the
// pipeline cannot attribute to a person has no value downstream.
func FilterRows(rows []protocol.RawRow) []protocol.RawRow {
	kept := make([]protocol.RawRow, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		name := row["name"]
		if name == "" {
			name = row["full_name"]
		}
		if name == "" {
			name = bestUnlabeledName(row)
			if name != "" {
				row["name"] = name
			}
		}
		if protocol.LooksLikeRunnerName(name) {
			kept = append(kept, row)
		}
	}
	return kept
}

// bestUnlabeledName probes the positional columns a headerless table
// produces. Result listings usually run place, name, time, so the
// second column is tried first.
func bestUnlabeledName(row protocol.RawRow) string {
	for _, key := range []string{"col_1", "col_2", "col_0"} {
		if value := row[key]; protocol.LooksLikeRunnerName(value) {
			return value
		}
	}
	return ""
}
