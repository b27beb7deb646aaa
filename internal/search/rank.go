package search

import (
	"fmt"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// Rank picks one search result without asking the user, or returns nil
// when the choice is ambiguous. Tiers are tried in order: a lone result,
// a lone match in the watching list, a lone match in the bookmarks. Zero
// or several matches in a tier fall through to the next.
func Rank(results []domain.Content, watching, bookmarks domain.IDSet) (*domain.Content, string) {
	if len(results) == 1 {
		return &results[0], ""
	}

	if c := soleMatch(results, watching); c != nil {
		return c, fmt.Sprintf("In your watching list: %s", c.Title)
	}
	if c := soleMatch(results, bookmarks); c != nil {
		return c, fmt.Sprintf("In your bookmarks: %s", c.Title)
	}
	return nil, ""
}

func soleMatch(results []domain.Content, ids domain.IDSet) *domain.Content {
	var match *domain.Content
	for i := range results {
		if !ids.Has(results[i].ID) {
			continue
		}
		if match != nil {
			return nil
		}
		match = &results[i]
	}
	return match
}
