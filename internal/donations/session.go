package donations

import (
	"fmt"
	"strings"
	"time"

	"pantry-cli/internal/model"

	"github.com/google/uuid"
)

// Measurement is one logged weight entry. Only the most recent one can be
// undone.
type Measurement struct {
	Category model.Category
	Weight   float64
}

// Session is the per-visit entry state: the running category totals and the
// single-level undo. It belongs to the entry view that created it; there are
// no package-level totals.
type Session struct {
	Selected model.Category

	totals map[model.Category]float64
	last   *Measurement
}

func NewSession() *Session {
	return &Session{totals: map[model.Category]float64{}}
}

func (s *Session) Total(c model.Category) float64 {
	return s.totals[c]
}

// LogWeight adds a positive weight to one category and remembers it as the
// undo target.
func (s *Session) LogWeight(c model.Category, w float64) error {
	if !model.ValidCategory(c) {
		return ValidationError{Reason: "please select a category"}
	}
	if w <= 0 {
		return ValidationError{Reason: "please enter a valid weight"}
	}
	s.totals[c] += w
	s.last = &Measurement{Category: c, Weight: w}
	return nil
}

// Undo subtracts the most recent measurement, clamped at zero, and forgets
// it. Returns false when there is nothing to undo.
func (s *Session) Undo() (Measurement, bool) {
	if s.last == nil {
		return Measurement{}, false
	}
	m := *s.last
	s.totals[m.Category] -= m.Weight
	if s.totals[m.Category] < 0 {
		s.totals[m.Category] = 0
	}
	s.last = nil
	return m, true
}

// ClearCategory zeroes one named total.
func (s *Session) ClearCategory(c model.Category) error {
	if !model.ValidCategory(c) {
		return ValidationError{Reason: "please select a category to clear"}
	}
	s.totals[c] = 0
	return nil
}

// Restart zeroes all totals, forgets the undo entry, and clears the
// selection.
func (s *Session) Restart() {
	s.totals = map[model.Category]float64{}
	s.last = nil
	s.Selected = ""
}

// Empty reports whether nothing has been logged yet.
func (s *Session) Empty() bool {
	for _, v := range s.totals {
		if v > 0 {
			return false
		}
	}
	return true
}

// NeedsTemperature reports whether submission will require a temperature
// reading (any Frozen Meats weight present).
func (s *Session) NeedsTemperature() bool {
	return s.totals[model.CategoryFrozenMeats] > 0
}

// Build validates and assembles the donation record from the accumulated
// totals. The session is left untouched; the caller resets it after a
// confirmed append.
func (s *Session) Build(donorName, temperature string, now time.Time) (model.Donation, error) {
	donorName = strings.TrimSpace(donorName)
	if donorName == "" {
		return model.Donation{}, ValidationError{Reason: "please select a donor"}
	}
	temperature = strings.TrimSpace(temperature)
	if s.NeedsTemperature() && temperature == "" {
		return model.Donation{}, ValidationError{Reason: "temperature is required for frozen meats"}
	}
	if !s.NeedsTemperature() {
		temperature = ""
	}
	d := model.Donation{
		ID:          uuid.NewString(),
		DateTime:    now.Format(model.DateTimeLayout),
		CreatedAt:   now,
		DonorName:   donorName,
		Temperature: temperature,
	}
	for _, c := range model.Categories() {
		d.SetWeight(c, s.totals[c])
	}
	return d, nil
}

// FormatWeight renders a weight the way every view shows it.
func FormatWeight(w float64) string {
	return fmt.Sprintf("%.2f", w)
}
