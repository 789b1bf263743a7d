package tz

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		abbr   string
		wantID string
		wantOK bool
	}{
		{"NZDT", "Pacific/Auckland", true},
		{"nzdt", "Pacific/Auckland", true},
		{"NzSt", "Pacific/Auckland", true},
		{"aedt", "Australia/Sydney", true},
		{"gmt", "UTC", true},
		{"jst", "Asia/Tokyo", true},
		{"XXX", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.abbr, func(t *testing.T) {
			id, ok := Resolve(tc.abbr)
			if ok != tc.wantOK || id != tc.wantID {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tc.abbr, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestAllZonesLoadable(t *testing.T) {
	for abbr, id := range table {
		if _, err := time.LoadLocation(id); err != nil {
			t.Errorf("abbreviation %s: cannot load %s: %v", abbr, id, err)
		}
	}
	for _, z := range Important {
		if _, err := time.LoadLocation(z.ID); err != nil {
			t.Errorf("important zone %s: cannot load %s: %v", z.Label, z.ID, err)
		}
	}
}

func TestImportantOrder(t *testing.T) {
	if len(Important) != 7 {
		t.Fatalf("expected 7 important zones, got %d", len(Important))
	}
	if Important[0].Label != "New Zealand" || Important[6].Label != "London" {
		t.Errorf("important zone order changed: first=%q last=%q", Important[0].Label, Important[6].Label)
	}
}
