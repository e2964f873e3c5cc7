package roster

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"homeboard/internal/domain"
)

// Derive returns students sorted by key and, when query is not empty, narrowed to
// those whose first or last name contains query. Comparison and matching are
// case-insensitive. students is never modified.
func Derive(students []domain.Person, key domain.SortKey, query string) []domain.Person {
	fold := cases.Fold()

	// fold once per person, not once per comparison
	keys := make([]string, len(students))
	order := make([]int, len(students))
	for i, p := range students {
		keys[i] = fold.String(key.Field(p))
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return strings.Compare(keys[a], keys[b])
	})

	out := make([]domain.Person, 0, len(students))
	needle := fold.String(query)
	for _, i := range order {
		p := students[i]
		if needle != "" && !matches(fold, p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Matches reports whether p's first or last name contains query, ignoring case.
// An empty query matches everyone.
func Matches(p domain.Person, query string) bool {
	fold := cases.Fold()
	needle := fold.String(query)
	if needle == "" {
		return true
	}
	return matches(fold, p, needle)
}

func matches(fold cases.Caser, p domain.Person, needle string) bool {
	return strings.Contains(fold.String(p.FirstName), needle) ||
		strings.Contains(fold.String(p.LastName), needle)
}
