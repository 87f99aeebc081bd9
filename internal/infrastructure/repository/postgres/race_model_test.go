package postgres

import (
	"testing"

	"github.com/probegapp/probeg/internal/domain/race"
)

func TestDistancesCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := []race.Distance{
			{Name: "10 км", Elevation: 120},
			{Name: "42.2 км", Elevation: 850},
		}
		raw, err := encodeDistances(in)
		if err != nil {
			t.Fatalf("encode distances: %v", err)
		}
		if raw == nil {
			t.Fatal("expected encoded payload")
		}

		out, err := decodeDistances(raw)
		if err != nil {
			t.Fatalf("decode distances: %v", err)
		}
		if len(out) != 2 || out[0].Name != "10 км" || out[1].Elevation != 850 {
			t.Fatalf("unexpected distances: %+v", out)
		}
	})

	t.Run("empty list stores null", func(t *testing.T) {
		raw, err := encodeDistances(nil)
		if err != nil {
			t.Fatalf("encode distances: %v", err)
		}
		if raw != nil {
			t.Fatalf("expected nil for empty list, got %q", *raw)
		}

		out, err := decodeDistances(nil)
		if err != nil {
			t.Fatalf("decode distances: %v", err)
		}
		if out != nil {
			t.Fatalf("expected nil, got %+v", out)
		}
	})
}
