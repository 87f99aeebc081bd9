package extract

import (
	"strconv"
	"strings"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// RowLikeText splits the text content of a generic "row-like" container
// element into place, time and name by pattern: a leading integer is
// the place, a colon-carrying token is the time, the remaining tokens
// form the name. Containers whose text cannot yield a plausible name
// report ok=false.
func RowLikeText(text string) (protocol.RawRow, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, false
	}

	row := protocol.RawRow{}
	rest := fields

	if _, err := strconv.Atoi(rest[0]); err == nil {
		row["place"] = rest[0]
		rest = rest[1:]
	}

	nameTokens := make([]string, 0, len(rest))
	for _, token := range rest {
		if row["time"] == "" && strings.Contains(token, ":") {
			row["time"] = token
			continue
		}
		nameTokens = append(nameTokens, token)
	}

	name := strings.Join(nameTokens, " ")
	if !protocol.LooksLikeRunnerName(name) {
		return nil, false
	}
	row["name"] = name

	return row, true
}
