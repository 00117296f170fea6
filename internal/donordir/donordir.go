// Package donordir is the donor directory service: add/rename/delete/list
// with case-insensitive uniqueness, favorite flags, and the shared display
// ordering. It holds no state of its own; every operation loads the current
// snapshot, mutates it, and persists it back.
package donordir

import (
	"strings"

	"pantry-cli/internal/model"
	"pantry-cli/internal/store"
)

type Directory struct {
	Store store.Store
}

// Add appends a new donor. The stored (trimmed) name is returned.
func (d Directory) Add(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", EmptyNameError{}
	}
	db, err := d.Store.Load()
	if err != nil {
		return "", err
	}
	if _, ok := db.FindDonor(model.NormalizeDonor(name)); ok {
		return "", DuplicateDonorError{Name: name}
	}
	db.Donors = append(db.Donors, name)
	if err := d.Store.Save(db); err != nil {
		return "", err
	}
	return name, nil
}

// Rename replaces a donor in place, preserving its storage position and
// carrying any favorite flag from the old identity to the new one. Renaming
// a donor to its own identity (a casing fix) is allowed.
func (d Directory) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return EmptyNameError{}
	}
	db, err := d.Store.Load()
	if err != nil {
		return err
	}
	oldKey := model.NormalizeDonor(oldName)
	idx, ok := db.FindDonor(oldKey)
	if !ok {
		return NotFoundError{Name: oldName}
	}
	newKey := model.NormalizeDonor(newName)
	if other, ok := db.FindDonor(newKey); ok && other != idx {
		return DuplicateDonorError{Name: newName}
	}
	db.Donors[idx] = newName

	favorites := db.FavoriteSet()
	if favorites[oldKey] {
		delete(favorites, oldKey)
		favorites[newKey] = true
		db.SetFavorites(favorites)
	}
	return d.Store.Save(db)
}

// Remove deletes a donor and its favorite flag.
func (d Directory) Remove(name string) error {
	db, err := d.Store.Load()
	if err != nil {
		return err
	}
	key := model.NormalizeDonor(name)
	idx, ok := db.FindDonor(key)
	if !ok {
		return NotFoundError{Name: name}
	}
	db.Donors = append(db.Donors[:idx], db.Donors[idx+1:]...)

	favorites := db.FavoriteSet()
	if favorites[key] {
		delete(favorites, key)
		db.SetFavorites(favorites)
	}
	return d.Store.Save(db)
}

// ToggleFavorite flips the favorite flag for a donor identity. Blank names
// are a no-op.
func (d Directory) ToggleFavorite(name string) error {
	key := model.NormalizeDonor(name)
	if key == "" {
		return nil
	}
	db, err := d.Store.Load()
	if err != nil {
		return err
	}
	favorites := db.FavoriteSet()
	if favorites[key] {
		delete(favorites, key)
	} else {
		favorites[key] = true
	}
	db.SetFavorites(favorites)
	return d.Store.Save(db)
}

func (d Directory) IsFavorite(name string) (bool, error) {
	key := model.NormalizeDonor(name)
	if key == "" {
		return false, nil
	}
	favorites, err := d.Store.LoadFavorites()
	if err != nil {
		return false, err
	}
	return favorites[key], nil
}

// List returns the donors in display order using the persisted sort mode and
// pin preference.
func (d Directory) List() ([]string, error) {
	db, err := d.Store.Load()
	if err != nil {
		return nil, err
	}
	return DisplayOrder(db.Donors, db.SortMode, db.FavoriteSet(), db.FavoritesPinned), nil
}
