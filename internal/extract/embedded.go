package extract

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// Keys whose presence marks an object as a participant entry during the
// recursive page-state search.
var participantKeys = []string{"firstname", "lastname", "fullname", "фио", "participant", "runner"}

// EmbeddedJSON searches a JSON payload (an intercepted API response or
// a page-state blob) recursively for objects that look like participant
// entries and converts them to raw rows. Malformed JSON yields nothing.
func EmbeddedJSON(payload string) []protocol.RawRow {
	var data any
	if err := sonic.UnmarshalString(payload, &data); err != nil {
		return nil
	}

	var rows []protocol.RawRow
	var walk func(value any)
	walk = func(value any) {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				if object, ok := item.(map[string]any); ok && looksLikeParticipant(object) {
					if row := objectToRow(object); row != nil {
						rows = append(rows, row)
					}
					continue
				}
				walk(item)
			}
		case map[string]any:
			for _, nested := range v {
				walk(nested)
			}
		}
	}
	walk(data)

	return FilterRows(rows)
}

func looksLikeParticipant(object map[string]any) bool {
	for key := range object {
		lowered := strings.ToLower(key)
		for _, marker := range participantKeys {
			if strings.Contains(lowered, marker) {
				return true
			}
		}
	}
	return false
}

func objectToRow(object map[string]any) protocol.RawRow {
	name := stringField(object, "name", "fullName", "фио")
	if name == "" {
		name = strings.TrimSpace(strings.Join([]string{
			stringField(object, "lastName", "last_name"),
			stringField(object, "firstName", "first_name"),
			stringField(object, "middleName", "middle_name"),
		}, " "))
		name = strings.Join(strings.Fields(name), " ")
	}
	if name == "" {
		return nil
	}

	return protocol.RawRow{
		"name":       name,
		"place":      stringField(object, "place", "position", "overallPlace", "место"),
		"time":       stringField(object, "time", "finishTime", "resultTime", "время"),
		"distance":   stringField(object, "distance", "дистанция", "raceName"),
		"city":       stringField(object, "city", "город", "location"),
		"gender":     stringField(object, "gender", "пол", "sex"),
		"birth_date": stringField(object, "birthDate", "birthYear", "birth_date"),
		"club":       stringField(object, "club", "клуб"),
	}
}

func stringField(object map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := object[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// ResponseLooksLikeResults is the cheap pre-check applied to
// intercepted network responses before attempting a full parse.
func ResponseLooksLikeResults(url, contentType, body string) bool {
	if !strings.Contains(strings.ToLower(contentType), "json") {
		return false
	}
	loweredURL := strings.ToLower(url)
	if !strings.Contains(loweredURL, "api") && !strings.Contains(loweredURL, "result") {
		return false
	}
	loweredBody := strings.ToLower(body)
	return strings.Contains(loweredBody, "name") ||
		strings.Contains(loweredBody, "participant") ||
		strings.Contains(loweredBody, "result")
}
