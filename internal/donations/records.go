// Package donations holds the append-only donation register and the
// per-visit entry session.
package donations

import (
	"sort"
	"strings"

	"pantry-cli/internal/model"
	"pantry-cli/internal/store"
)

type Direction string

const (
	Descending Direction = "descending"
	Ascending  Direction = "ascending"
)

func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Register is the donation record store. Records are appended at submission
// and only ever mutated by deletion.
type Register struct {
	Store store.Store
}

// Append adds a record to the end of the list. There is no uniqueness
// constraint on donation records; this always succeeds barring storage
// failure.
func (r Register) Append(d model.Donation) error {
	db, err := r.Store.Load()
	if err != nil {
		return err
	}
	db.Donations = append(db.Donations, d)
	return r.Store.Save(db)
}

// Sorted returns all records ordered by submission time. Records whose
// timestamp cannot be parsed keep their insertion position relative to each
// other (stable sort, unparsable sorts last in descending order).
func (r Register) Sorted(dir Direction) ([]model.Donation, error) {
	db, err := r.Store.Load()
	if err != nil {
		return nil, err
	}
	return Sorted(db.Donations, dir), nil
}

// Sorted is the pure ordering over an in-memory record list.
func Sorted(records []model.Donation, dir Direction) []model.Donation {
	out := make([]model.Donation, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := out[i].When()
		tj, okj := out[j].When()
		if oki != okj {
			// Unparsable timestamps sort after parsable ones.
			return oki
		}
		if !oki {
			return false
		}
		if dir == Ascending {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})
	return out
}

// DeleteByID removes one record by its stable identity.
func (r Register) DeleteByID(id string) error {
	db, err := r.Store.Load()
	if err != nil {
		return err
	}
	idx, ok := db.FindDonation(id)
	if !ok {
		return NotFoundError{ID: id}
	}
	db.Donations = append(db.Donations[:idx], db.Donations[idx+1:]...)
	return r.Store.Save(db)
}

// DeleteAt removes the record at a display index into the sorted view. The
// legacy web UI deleted this way; it re-derives the same sorted order and
// resolves the row's identity before deleting, so a concurrent append in
// another view cannot shift the target.
func (r Register) DeleteAt(displayIndex int, dir Direction) error {
	sorted, err := r.Sorted(dir)
	if err != nil {
		return err
	}
	if displayIndex < 0 || displayIndex >= len(sorted) {
		return NotFoundError{ID: "(out of range)"}
	}
	return r.DeleteByID(sorted[displayIndex].ID)
}
