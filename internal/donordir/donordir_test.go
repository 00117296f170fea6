package donordir

import (
	"errors"
	"testing"

	"pantry-cli/internal/model"
	"pantry-cli/internal/store"

	"github.com/google/go-cmp/cmp"
)

func newTestDirectory(t *testing.T) Directory {
	t.Helper()
	return Directory{Store: store.Store{Dir: t.TempDir()}}
}

func TestDirectory_Add(t *testing.T) {
	d := newTestDirectory(t)

	name, err := d.Add("  Acme Grocery  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if name != "Acme Grocery" {
		t.Fatalf("stored name should be trimmed: %q", name)
	}

	donors, err := d.Store.LoadDonors()
	if err != nil {
		t.Fatalf("load donors: %v", err)
	}
	if diff := cmp.Diff([]string{"Acme Grocery"}, donors); diff != "" {
		t.Fatalf("donors (-want +got):\n%s", diff)
	}
}

func TestDirectory_Add_RejectsEmptyAndDuplicate(t *testing.T) {
	d := newTestDirectory(t)

	if _, err := d.Add("   "); !errors.As(err, &EmptyNameError{}) {
		t.Fatalf("whitespace-only name: %v", err)
	}

	if _, err := d.Add("Acme Grocery"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Uniqueness is case-insensitive and trim-insensitive.
	var dup DuplicateDonorError
	if _, err := d.Add("  ACME grocery "); !errors.As(err, &dup) {
		t.Fatalf("duplicate identity should be rejected: %v", err)
	}

	donors, _ := d.Store.LoadDonors()
	if len(donors) != 1 {
		t.Fatalf("duplicate add must not change the list: %+v", donors)
	}
}

func TestDirectory_Rename(t *testing.T) {
	d := newTestDirectory(t)
	for _, n := range []string{"Acme", "Beta", "Gamma"} {
		if _, err := d.Add(n); err != nil {
			t.Fatalf("add %s: %v", n, err)
		}
	}
	if err := d.ToggleFavorite("Beta"); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	if err := d.Rename("Beta", "Beta Farms"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	donors, _ := d.Store.LoadDonors()
	if diff := cmp.Diff([]string{"Acme", "Beta Farms", "Gamma"}, donors); diff != "" {
		t.Fatalf("rename should keep position (-want +got):\n%s", diff)
	}
	if fav, _ := d.IsFavorite("Beta Farms"); !fav {
		t.Fatalf("favorite flag should follow the rename")
	}
	if fav, _ := d.IsFavorite("Beta"); fav {
		t.Fatalf("old identity should no longer be a favorite")
	}
}

func TestDirectory_Rename_Validation(t *testing.T) {
	d := newTestDirectory(t)
	if _, err := d.Add("Acme"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := d.Add("Beta"); err != nil {
		t.Fatalf("add: %v", err)
	}

	var notFound NotFoundError
	if err := d.Rename("Gamma", "Delta"); !errors.As(err, &notFound) {
		t.Fatalf("rename missing donor: %v", err)
	}
	if err := d.Rename("Acme", " "); !errors.As(err, &EmptyNameError{}) {
		t.Fatalf("rename to blank: %v", err)
	}
	var dup DuplicateDonorError
	if err := d.Rename("Acme", "beta"); !errors.As(err, &dup) {
		t.Fatalf("rename onto another identity: %v", err)
	}

	// Casing fix of the same identity is allowed.
	if err := d.Rename("Acme", "ACME"); err != nil {
		t.Fatalf("casing fix: %v", err)
	}
	donors, _ := d.Store.LoadDonors()
	if donors[0] != "ACME" {
		t.Fatalf("casing fix should store the new form: %+v", donors)
	}
}

func TestDirectory_Remove_CascadesFavorite(t *testing.T) {
	d := newTestDirectory(t)
	if _, err := d.Add("Acme"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.ToggleFavorite("Acme"); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	if err := d.Remove("acme"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	donors, _ := d.Store.LoadDonors()
	if len(donors) != 0 {
		t.Fatalf("donor should be gone: %+v", donors)
	}
	favorites, _ := d.Store.LoadFavorites()
	if len(favorites) != 0 {
		t.Fatalf("favorite flag should be removed with the donor: %+v", favorites)
	}

	var notFound NotFoundError
	if err := d.Remove("acme"); !errors.As(err, &notFound) {
		t.Fatalf("second remove: %v", err)
	}
}

func TestDirectory_ToggleFavorite(t *testing.T) {
	d := newTestDirectory(t)
	if _, err := d.Add("Acme"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := d.ToggleFavorite("ACME "); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if fav, _ := d.IsFavorite("acme"); !fav {
		t.Fatalf("should be favorite after toggle")
	}
	if err := d.ToggleFavorite("Acme"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if fav, _ := d.IsFavorite("acme"); fav {
		t.Fatalf("should not be favorite after second toggle")
	}

	// Blank names are a no-op, not an error.
	if err := d.ToggleFavorite("   "); err != nil {
		t.Fatalf("blank toggle: %v", err)
	}
}

func TestDirectory_List_UsesPersistedPrefs(t *testing.T) {
	d := newTestDirectory(t)
	for _, n := range []string{"beta", "Charlie", "Acme"} {
		if _, err := d.Add(n); err != nil {
			t.Fatalf("add %s: %v", n, err)
		}
	}
	if err := d.Store.SaveSortMode(model.SortAlphaAsc); err != nil {
		t.Fatalf("save sort mode: %v", err)
	}
	if err := d.ToggleFavorite("Charlie"); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	got, err := d.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Favorites pinned (the default) lifts Charlie above the alphabetical rest.
	if diff := cmp.Diff([]string{"Charlie", "Acme", "beta"}, got); diff != "" {
		t.Fatalf("list (-want +got):\n%s", diff)
	}
}
