package model

import (
	"strings"
	"time"
)

// Category is one of the five fixed intake categories.
type Category string

const (
	CategoryProduce     Category = "Produce"
	CategoryFrozenMeats Category = "Frozen Meats"
	CategoryMiscFrozen  Category = "Misc Frozen"
	CategoryBakery      Category = "Bakery"
	CategoryDry         Category = "Dry"
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryProduce,
		CategoryFrozenMeats,
		CategoryMiscFrozen,
		CategoryBakery,
		CategoryDry,
	}
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryProduce, CategoryFrozenMeats, CategoryMiscFrozen, CategoryBakery, CategoryDry:
		return true
	default:
		return false
	}
}

// SortMode is the shared donor-list ordering preference. A single value is
// persisted and read by every view that displays the donor list.
type SortMode string

const (
	SortInsertionDesc SortMode = "insertion-descending"
	SortInsertionAsc  SortMode = "insertion-ascending"
	SortAlphaAsc      SortMode = "alphabetical-ascending"
	SortAlphaDesc     SortMode = "alphabetical-descending"
)

// ParseSortMode normalizes a stored or user-supplied sort mode. The legacy
// web app persisted date-desc/date-asc/alpha-asc/alpha-desc; those map onto
// the current names. Anything unrecognized falls back to the default.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortInsertionDesc), "date-desc":
		return SortInsertionDesc
	case string(SortInsertionAsc), "date-asc":
		return SortInsertionAsc
	case string(SortAlphaAsc), "alpha-asc":
		return SortAlphaAsc
	case string(SortAlphaDesc), "alpha-desc":
		return SortAlphaDesc
	default:
		return SortInsertionDesc
	}
}

// NormalizeDonor returns the identity form of a donor name: trimmed and
// lower-cased. Identity is what uniqueness and favorite membership key on;
// the stored form keeps the original casing.
func NormalizeDonor(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Donation is one submitted intake record. Weights are pounds per category,
// non-negative. DonorName is denormalized on purpose: renaming or deleting a
// donor never rewrites history.
//
// The JSON keys (including the spaced ones) match the legacy donationsList
// payload so old data imports unchanged.
type Donation struct {
	ID        string    `json:"id,omitempty"`
	DateTime  string    `json:"dateTime"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	DonorName string    `json:"companyName"`

	Produce     float64 `json:"Produce"`
	FrozenMeats float64 `json:"Frozen Meats"`
	MiscFrozen  float64 `json:"Misc Frozen"`
	Bakery      float64 `json:"Bakery"`
	Dry         float64 `json:"Dry"`

	// Temperature is required exactly when FrozenMeats > 0, empty otherwise.
	Temperature string `json:"temperature"`
}

func (d Donation) Weight(c Category) float64 {
	switch c {
	case CategoryProduce:
		return d.Produce
	case CategoryFrozenMeats:
		return d.FrozenMeats
	case CategoryMiscFrozen:
		return d.MiscFrozen
	case CategoryBakery:
		return d.Bakery
	case CategoryDry:
		return d.Dry
	default:
		return 0
	}
}

func (d *Donation) SetWeight(c Category, w float64) {
	switch c {
	case CategoryProduce:
		d.Produce = w
	case CategoryFrozenMeats:
		d.FrozenMeats = w
	case CategoryMiscFrozen:
		d.MiscFrozen = w
	case CategoryBakery:
		d.Bakery = w
	case CategoryDry:
		d.Dry = w
	}
}

// DateTimeLayout mirrors the display format the legacy app produced with
// toLocaleString(); new records store it alongside CreatedAt.
const DateTimeLayout = "1/2/2006, 3:04:05 PM"

// When returns the best-effort submission time: CreatedAt when present,
// otherwise the parsed display string. Legacy imports only carry the latter.
func (d Donation) When() (time.Time, bool) {
	if !d.CreatedAt.IsZero() {
		return d.CreatedAt, true
	}
	s := strings.TrimSpace(d.DateTime)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateTimeLayout, time.RFC3339, "1/2/2006, 15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
