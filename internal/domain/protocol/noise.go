package protocol

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words that mark a row as a category header, a totals line or other
// non-finisher noise. Matched by substring against the lower-cased name.
var noiseWords = []string{
	"онлайн", "офлайн", "участие", "забег", "детский", "км.", "км ",
	"полумарафон", "марафон", "дистанц", "категор", "всего", "место",
	"фио", "итого", "dns", "dnf", "start", "finish", "старт", "финиш",
}

// LooksLikeRunnerName reports whether the text can plausibly be a
// finisher's name. Both the extractors and the row normalizer apply
// this filter; it is the primary defense against polluting the runner
// table with category headers and totals lines.
func LooksLikeRunnerName(text string) bool {
	name := strings.TrimSpace(text)
	if name == "" || utf8.RuneCountInString(name) < 4 {
		return false
	}

	lowered := strings.ToLower(name)
	for _, word := range noiseWords {
		if strings.Contains(lowered, word) {
			return false
		}
	}

	for _, r := range name {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
