package store

import (
	"context"
	"os"
	"path/filepath"

	"pantry-cli/internal/model"
)

const (
	legacyDataFileName = "data.json"
	sqliteFileName     = "pantry.sqlite"
)

// DB is the in-memory snapshot of everything the store persists.
type DB struct {
	Version int `json:"version"`

	// Donors in storage (insertion) order. Append-only except in-place
	// rename; delete removes the slot.
	Donors []string `json:"donorList"`

	// Favorites holds normalized donor identities. Stale entries (favorite
	// kept after an out-of-band donor removal) are tolerated on read.
	Favorites []string `json:"donorFavorites"`

	SortMode        model.SortMode   `json:"donorSortMode"`
	FavoritesPinned bool             `json:"donorFavoritesOnTop"`
	Donations       []model.Donation `json:"donationsList"`
}

// FavoriteSet returns the favorites as a normalized-identity set.
func (db *DB) FavoriteSet() map[string]bool {
	out := make(map[string]bool, len(db.Favorites))
	for _, f := range db.Favorites {
		if key := model.NormalizeDonor(f); key != "" {
			out[key] = true
		}
	}
	return out
}

func (db *DB) SetFavorites(set map[string]bool) {
	out := make([]string, 0, len(set))
	for key, on := range set {
		if on && key != "" {
			out = append(out, key)
		}
	}
	db.Favorites = out
}

// FindDonor returns the storage index of the donor with the given identity.
func (db *DB) FindDonor(identity string) (int, bool) {
	if identity == "" {
		return -1, false
	}
	for i, d := range db.Donors {
		if model.NormalizeDonor(d) == identity {
			return i, true
		}
	}
	return -1, false
}

func (db *DB) FindDonation(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i := range db.Donations {
		if db.Donations[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for an existing .pantry dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".pantry")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".pantry"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) legacyDataPath() string {
	return filepath.Join(s.Dir, legacyDataFileName)
}

// SQLitePath is exposed for mod-time based change detection in the TUI.
func (s Store) SQLitePath() string { return s.sqlitePath() }

// Load reads the full state. SQLite is the source of truth; when it holds no
// rows yet, a legacy data.json (if present) is imported once, including the
// object-shaped donor migration.
func (s Store) Load() (*DB, error) {
	return s.loadSQLite(context.Background())
}

// Save replaces the full persisted state in one transaction, so readers in
// another process never observe a partial write.
func (s Store) Save(db *DB) error {
	return s.saveSQLite(context.Background(), db)
}

// The per-collection helpers below are conveniences for callers that only
// touch one key. They still go through the whole-snapshot load/save, which
// keeps last-write-wins semantics identical across entry points.

func (s Store) LoadDonors() ([]string, error) {
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	return db.Donors, nil
}

func (s Store) SaveDonors(donors []string) error {
	db, err := s.Load()
	if err != nil {
		return err
	}
	db.Donors = donors
	return s.Save(db)
}

func (s Store) LoadFavorites() (map[string]bool, error) {
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	return db.FavoriteSet(), nil
}

func (s Store) SaveFavorites(set map[string]bool) error {
	db, err := s.Load()
	if err != nil {
		return err
	}
	db.SetFavorites(set)
	return s.Save(db)
}

func (s Store) LoadSortMode() (model.SortMode, error) {
	db, err := s.Load()
	if err != nil {
		return model.SortInsertionDesc, err
	}
	return db.SortMode, nil
}

func (s Store) SaveSortMode(mode model.SortMode) error {
	db, err := s.Load()
	if err != nil {
		return err
	}
	db.SortMode = mode
	return s.Save(db)
}

func (s Store) LoadFavoritesPinned() (bool, error) {
	db, err := s.Load()
	if err != nil {
		return true, err
	}
	return db.FavoritesPinned, nil
}

func (s Store) SaveFavoritesPinned(pinned bool) error {
	db, err := s.Load()
	if err != nil {
		return err
	}
	db.FavoritesPinned = pinned
	return s.Save(db)
}
