package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseSortMode(t *testing.T) {
	cases := []struct {
		in   string
		want SortMode
	}{
		{"insertion-descending", SortInsertionDesc},
		{"insertion-ascending", SortInsertionAsc},
		{"alphabetical-ascending", SortAlphaAsc},
		{"alphabetical-descending", SortAlphaDesc},
		// Legacy persisted names.
		{"date-desc", SortInsertionDesc},
		{"date-asc", SortInsertionAsc},
		{"alpha-asc", SortAlphaAsc},
		{"alpha-desc", SortAlphaDesc},
		// Noise falls back to the default.
		{" DATE-DESC ", SortInsertionDesc},
		{"", SortInsertionDesc},
		{"garbage", SortInsertionDesc},
	}
	for _, tc := range cases {
		if got := ParseSortMode(tc.in); got != tc.want {
			t.Fatalf("ParseSortMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDonor(t *testing.T) {
	if got := NormalizeDonor("  Acme Grocery "); got != "acme grocery" {
		t.Fatalf("normalize = %q", got)
	}
	if got := NormalizeDonor("   "); got != "" {
		t.Fatalf("blank should normalize to empty: %q", got)
	}
}

func TestDonation_JSONKeysMatchLegacyPayload(t *testing.T) {
	d := Donation{
		DateTime:    "1/15/2024, 3:04:05 PM",
		DonorName:   "Acme",
		Produce:     1,
		FrozenMeats: 2,
		MiscFrozen:  3,
		Bakery:      4,
		Dry:         5,
		Temperature: "28",
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"dateTime", "companyName", "Produce", "Frozen Meats", "Misc Frozen", "Bakery", "Dry", "temperature"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing legacy key %q in %s", key, b)
		}
	}
}

func TestDonation_When(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	d := Donation{CreatedAt: now}
	if got, ok := d.When(); !ok || !got.Equal(now) {
		t.Fatalf("CreatedAt should win: %v %v", got, ok)
	}

	d = Donation{DateTime: "1/15/2024, 3:04:05 PM"}
	got, ok := d.When()
	if !ok {
		t.Fatalf("display string should parse")
	}
	if got.Year() != 2024 || got.Month() != time.January || got.Hour() != 15 {
		t.Fatalf("parsed = %v", got)
	}

	d = Donation{DateTime: "not a date"}
	if _, ok := d.When(); ok {
		t.Fatalf("junk should not parse")
	}
	if _, ok := (Donation{}).When(); ok {
		t.Fatalf("empty record has no time")
	}
}

func TestWeightAccessors(t *testing.T) {
	var d Donation
	for i, c := range Categories() {
		d.SetWeight(c, float64(i+1))
	}
	for i, c := range Categories() {
		if got := d.Weight(c); got != float64(i+1) {
			t.Fatalf("Weight(%s) = %v", c, got)
		}
	}
	if got := d.Weight("Nope"); got != 0 {
		t.Fatalf("unknown category weight = %v", got)
	}
	if !ValidCategory(CategoryFrozenMeats) || ValidCategory("Nope") {
		t.Fatalf("ValidCategory misbehaves")
	}
}
