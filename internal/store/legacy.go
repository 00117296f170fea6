package store

import (
	"encoding/json"
	"strings"

	"pantry-cli/internal/model"

	"github.com/google/uuid"
)

// The legacy web app persisted donors either as bare strings or, in its
// oldest format, as {"name": ...} objects. donorWire models that union
// explicitly at the persistence boundary; everything past load sees only the
// canonical flat string.
type donorWire struct {
	Name string
}

func (w *donorWire) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		w.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		w.Name = obj.Name
		return nil
	}
	// Unrecognized entry: drop it rather than failing the whole list.
	w.Name = ""
	return nil
}

type legacyData struct {
	DonationsList   []model.Donation `json:"donationsList"`
	DonorList       []donorWire      `json:"donorList"`
	DonorFavorites  []string         `json:"donorFavorites"`
	DonorSortMode   string           `json:"donorSortMode"`
	FavoritesOnTop  *bool            `json:"donorFavoritesOnTop"`
}

func (l legacyData) empty() bool {
	return len(l.DonationsList) == 0 && len(l.DonorList) == 0
}

// toDB produces the canonical snapshot: flat donor strings, normalized
// favorites, and a generated id on every donation that lacks one.
func (l legacyData) toDB() *DB {
	out := &DB{Version: 1, SortMode: model.ParseSortMode(l.DonorSortMode), FavoritesPinned: true}
	if l.FavoritesOnTop != nil {
		out.FavoritesPinned = *l.FavoritesOnTop
	}
	for _, w := range l.DonorList {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		out.Donors = append(out.Donors, name)
	}
	for _, f := range l.DonorFavorites {
		if key := model.NormalizeDonor(f); key != "" {
			out.Favorites = append(out.Favorites, key)
		}
	}
	for _, d := range l.DonationsList {
		if strings.TrimSpace(d.ID) == "" {
			d.ID = uuid.NewString()
		}
		out.Donations = append(out.Donations, d)
	}
	return out
}

// loadLegacyData parses a legacy data.json payload. Any parse failure yields
// an empty dataset: the system always degrades to empty-but-usable.
func loadLegacyData(b []byte) legacyData {
	var l legacyData
	if err := json.Unmarshal(b, &l); err != nil {
		return legacyData{}
	}
	return l
}
