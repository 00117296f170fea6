package donordir

import (
	"sort"

	"pantry-cli/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Alphabetical modes use locale-aware collation, not bytewise ordering:
// "beta" sorts between "Acme" and "Charlie".
var collator = collate.New(language.English)

// DisplayOrder is the pure function from (stored list, sort mode, favorites,
// pin flag) to the list as rendered. It must stay side-effect free and
// deterministic: index mapping in legacy paths relies on recomputing the
// exact same ordering used for rendering.
func DisplayOrder(donors []string, mode model.SortMode, favorites map[string]bool, pinned bool) []string {
	out := sortedView(donors, mode)

	if pinned && len(favorites) > 0 {
		// Stable partition: favorites first, relative order within each
		// group unchanged from the sort above.
		fav := make([]string, 0, len(out))
		rest := make([]string, 0, len(out))
		for _, d := range out {
			if favorites[model.NormalizeDonor(d)] {
				fav = append(fav, d)
			} else {
				rest = append(rest, d)
			}
		}
		out = append(fav, rest...)
	}
	return out
}

func sortedView(donors []string, mode model.SortMode) []string {
	out := make([]string, len(donors))
	copy(out, donors)
	switch mode {
	case model.SortInsertionAsc:
		// storage order
	case model.SortAlphaAsc:
		sort.SliceStable(out, func(i, j int) bool { return collator.CompareString(out[i], out[j]) < 0 })
	case model.SortAlphaDesc:
		sort.SliceStable(out, func(i, j int) bool { return collator.CompareString(out[j], out[i]) < 0 })
	default: // SortInsertionDesc
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// StorageIndex maps a display index (favorites pinning ignored) back to the
// storage index. Mutating callers should resolve by identity instead; this
// mapping mirrors the rendered order and misfires when duplicate display
// names exist in an alphabetical mode.
func StorageIndex(displayIndex int, donors []string, mode model.SortMode) int {
	if displayIndex < 0 || displayIndex >= len(donors) {
		return -1
	}
	switch mode {
	case model.SortInsertionAsc:
		return displayIndex
	case model.SortInsertionDesc:
		return len(donors) - 1 - displayIndex
	default:
		name := sortedView(donors, mode)[displayIndex]
		for i, d := range donors {
			if d == name {
				return i
			}
		}
		return -1
	}
}
