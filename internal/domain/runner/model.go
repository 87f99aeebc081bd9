package runner

import (
	"strings"
	"time"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Runner is one person's racing identity. Several runners may share a
// name; a birth date disambiguates where available. At most one runner
// is linked to a given chat identity.
type Runner struct {
	ID         string
	LastName   string
	FirstName  string
	MiddleName string
	BirthDate  *time.Time
	Gender     string
	City       string
	Club       string
	TelegramID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r Runner) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.LastName, r.FirstName, r.MiddleName} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func (r Runner) IsChatLinked() bool {
	return r.TelegramID != nil
}
