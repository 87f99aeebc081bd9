package calendar

import (
	"testing"
	"time"
)

func TestParseEventDateFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dotted", input: "15.03.2026", want: "2026-03-15"},
		{name: "iso", input: "2026-03-15", want: "2026-03-15"},
		{name: "russian genitive", input: "15 марта 2026", want: "2026-03-15"},
		{name: "russian abbreviated", input: "15 мар 2026", want: "2026-03-15"},
		{name: "english", input: "March 15, 2026", want: "2026-03-15"},
		{name: "dotted with time", input: "15.03.2026 10:00", want: "2026-03-15"},
		{name: "embedded in noise", input: "Старт забега: 15.03.2026, Москва", want: "2026-03-15"},
		{name: "extra whitespace", input: "  15   марта   2026 ", want: "2026-03-15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			parsed, ok := ParseEventDate(tc.input)
			if !ok {
				t.Fatalf("expected %q to parse", tc.input)
			}
			if got := parsed.Format("2006-01-02"); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseEventDateFailures(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "скоро", "весна 2026", "??.??.????"} {
		if _, ok := ParseEventDate(input); ok {
			t.Fatalf("expected %q to fail parsing", input)
		}
	}
}

func TestDetectOrganizerSubstringMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  RawEvent
		want string
	}{
		{
			name: "url fragment anywhere in path",
			raw:  RawEvent{WebsiteURL: "https://5verst.ru/kolomenskoe/results/latest/"},
			want: "5верст",
		},
		{
			name: "case-insensitive url",
			raw:  RawEvent{WebsiteURL: "https://IRONSTAR.ru/event/sochi"},
			want: "IronStar",
		},
		{
			name: "match in event name",
			raw:  RawEvent{Name: "Казанский марафон 2026"},
			want: "TIMERMAN",
		},
		{
			name: "pass-through free text",
			raw:  RawEvent{Organizer: "Клуб любителей бега"},
			want: "Клуб любителей бега",
		},
		{
			name: "nothing known",
			raw:  RawEvent{},
			want: "Не указан",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := DetectOrganizer(tc.raw); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeDistancesShapes(t *testing.T) {
	t.Parallel()

	t.Run("plain string", func(t *testing.T) {
		t.Parallel()

		got := NormalizeDistances("10 км")
		if len(got) != 1 || got[0].Name != "10 км" || got[0].Elevation != 0 {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("string list", func(t *testing.T) {
		t.Parallel()

		got := NormalizeDistances([]string{"5 км", "10 км", ""})
		if len(got) != 2 {
			t.Fatalf("expected 2 distances, got %d", len(got))
		}
	})

	t.Run("object list", func(t *testing.T) {
		t.Parallel()

		got := NormalizeDistances([]any{
			map[string]any{"name": "30 км", "elevation": float64(1200)},
			map[string]any{"name": ""},
		})
		if len(got) != 1 || got[0].Elevation != 1200 {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("json string round-trip", func(t *testing.T) {
		t.Parallel()

		encoded := EncodeDistances([]Distance{{Name: "21.1 км", Elevation: 350}})
		got := NormalizeDistances(encoded)
		if len(got) != 1 || got[0].Name != "21.1 км" || got[0].Elevation != 350 {
			t.Fatalf("round-trip mismatch: %+v", got)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		for _, input := range []any{nil, 42, "", []any{42}} {
			if got := NormalizeDistances(input); len(got) != 0 {
				t.Fatalf("expected empty list for %v, got %+v", input, got)
			}
		}
	})
}

func TestEncodeDistancesStableShape(t *testing.T) {
	t.Parallel()

	if got := EncodeDistances(nil); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}

	got := EncodeDistances([]Distance{{Name: "5 км"}})
	want := `[{"name":"5 км","elevation":0}]`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestIsUpcoming(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

	sameDay, _ := ParseEventDate("15.03.2026")
	yesterday, _ := ParseEventDate("14.03.2026")
	tomorrow, _ := ParseEventDate("16.03.2026")

	if !IsUpcoming(Event{Date: &sameDay}, today) {
		t.Fatal("a race dated today must be upcoming")
	}
	if IsUpcoming(Event{Date: &yesterday}, today) {
		t.Fatal("a past race must not be upcoming")
	}
	if !IsUpcoming(Event{Date: &tomorrow}, today) {
		t.Fatal("a future race must be upcoming")
	}
	if IsUpcoming(Event{}, today) {
		t.Fatal("an event with an unparsed date must not be upcoming")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	event := Normalize(RawEvent{
		Name:       "  Весенний   полумарафон ",
		Date:       "19 апреля 2026",
		Location:   "Санкт-Петербург",
		WebsiteURL: "https://example.org/spring",
		Distances:  []string{"21.1 км"},
	}, "probegorg")

	if event.Name != "Весенний полумарафон" {
		t.Fatalf("unexpected name: %q", event.Name)
	}
	if event.Date == nil || event.Date.Format("2006-01-02") != "2026-04-19" {
		t.Fatalf("unexpected date: %v", event.Date)
	}
	if event.RaceType != "шоссе" {
		t.Fatalf("expected default race type, got %q", event.RaceType)
	}
	if event.Source != "probegorg" {
		t.Fatalf("unexpected source: %q", event.Source)
	}
	if len(event.Distances) != 1 {
		t.Fatalf("unexpected distances: %+v", event.Distances)
	}
}
