package roster

import (
	"strings"

	"golang.org/x/text/cases"

	"homeboard/internal/domain"
)

// SortPlaceholder is the label of the sort select's empty option. Selecting it never
// changes the active sort key.
const SortPlaceholder = "Sort By"

// SortOptions are the labels offered by the sort select, placeholder first
var SortOptions = []string{
	SortPlaceholder,
	domain.SortFirstName.Label(),
	domain.SortLastName.Label(),
}

// NormalizeSortLabel case-folds a label and joins its words with underscores,
// so "First Name" becomes "first_name".
func NormalizeSortLabel(label string) string {
	folded := cases.Fold().String(strings.TrimSpace(label))
	return strings.Join(strings.Fields(folded), "_")
}

// ParseSortKey maps a toolbar label or key name to a SortKey.
// The placeholder and unknown labels report false.
func ParseSortKey(label string) (domain.SortKey, bool) {
	if strings.TrimSpace(label) == SortPlaceholder {
		return "", false
	}

	key := domain.SortKey(NormalizeSortLabel(label))
	if !key.Valid() {
		return "", false
	}
	return key, true
}
