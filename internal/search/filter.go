package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// FilterWatching narrows watching items to those fuzzily matching query,
// best matches first. An empty query returns the items unchanged.
func FilterWatching(items []domain.WatchingItem, query string) []domain.WatchingItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}

	matches := fuzzy.RankFindNormalizedFold(query, titles)

	// Lower distance is better; ties keep list order
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	filtered := make([]domain.WatchingItem, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, items[m.OriginalIndex])
	}
	return filtered
}
