package donordir

import (
	"testing"

	"pantry-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestDisplayOrder_InsertionModes(t *testing.T) {
	donors := []string{"First", "Second", "Third"}

	got := DisplayOrder(donors, model.SortInsertionDesc, nil, true)
	if diff := cmp.Diff([]string{"Third", "Second", "First"}, got); diff != "" {
		t.Fatalf("insertion-descending (-want +got):\n%s", diff)
	}

	got = DisplayOrder(donors, model.SortInsertionAsc, nil, true)
	if diff := cmp.Diff([]string{"First", "Second", "Third"}, got); diff != "" {
		t.Fatalf("insertion-ascending (-want +got):\n%s", diff)
	}
}

func TestDisplayOrder_AlphabeticalIsCaseInsensitive(t *testing.T) {
	// Bytewise ordering would put "beta" after both capitalized names.
	donors := []string{"beta", "Charlie", "Acme"}

	got := DisplayOrder(donors, model.SortAlphaAsc, nil, true)
	if diff := cmp.Diff([]string{"Acme", "beta", "Charlie"}, got); diff != "" {
		t.Fatalf("alphabetical-ascending (-want +got):\n%s", diff)
	}

	got = DisplayOrder(donors, model.SortAlphaDesc, nil, true)
	if diff := cmp.Diff([]string{"Charlie", "beta", "Acme"}, got); diff != "" {
		t.Fatalf("alphabetical-descending (-want +got):\n%s", diff)
	}
}

func TestDisplayOrder_PinnedFavoritesPartitionIsStable(t *testing.T) {
	donors := []string{"A", "B", "C", "D"}
	favorites := map[string]bool{"b": true, "d": true}

	// insertion-descending yields D C B A; favorites keep that relative order.
	got := DisplayOrder(donors, model.SortInsertionDesc, favorites, true)
	if diff := cmp.Diff([]string{"D", "B", "C", "A"}, got); diff != "" {
		t.Fatalf("pinned partition (-want +got):\n%s", diff)
	}

	// Unpinned: favorites do not move.
	got = DisplayOrder(donors, model.SortInsertionDesc, favorites, false)
	if diff := cmp.Diff([]string{"D", "C", "B", "A"}, got); diff != "" {
		t.Fatalf("unpinned (-want +got):\n%s", diff)
	}
}

func TestDisplayOrder_DoesNotMutateInput(t *testing.T) {
	donors := []string{"b", "a", "c"}
	_ = DisplayOrder(donors, model.SortAlphaAsc, map[string]bool{"c": true}, true)
	if diff := cmp.Diff([]string{"b", "a", "c"}, donors); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestStorageIndex(t *testing.T) {
	donors := []string{"First", "Second", "Third"}

	cases := []struct {
		mode    model.SortMode
		display int
		want    int
	}{
		{model.SortInsertionAsc, 0, 0},
		{model.SortInsertionAsc, 2, 2},
		{model.SortInsertionDesc, 0, 2},
		{model.SortInsertionDesc, 2, 0},
		{model.SortAlphaAsc, 0, 0},  // First
		{model.SortAlphaAsc, 1, 1},  // Second
		{model.SortAlphaDesc, 0, 2}, // Third
	}
	for _, tc := range cases {
		if got := StorageIndex(tc.display, donors, tc.mode); got != tc.want {
			t.Fatalf("StorageIndex(%d, %q) = %d, want %d", tc.display, tc.mode, got, tc.want)
		}
	}

	if got := StorageIndex(-1, donors, model.SortInsertionAsc); got != -1 {
		t.Fatalf("negative index = %d", got)
	}
	if got := StorageIndex(3, donors, model.SortInsertionAsc); got != -1 {
		t.Fatalf("out-of-range index = %d", got)
	}
}
