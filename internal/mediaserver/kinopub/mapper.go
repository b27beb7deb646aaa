package kinopub

import (
	"time"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// MapSearchResults converts search items to domain content without seasons
func MapSearchResults(items []itemDTO) []domain.Content {
	results := make([]domain.Content, 0, len(items))
	for _, it := range items {
		results = append(results, mapContent(it))
	}
	return results
}

func mapContent(it itemDTO) domain.Content {
	return domain.Content{
		ID:    it.ID,
		Title: it.Title,
		Type:  domain.ContentType(it.Type),
		Year:  intOr(it.Year, 0),
	}
}

// MapItemDetail converts a detail payload, copying each season number
// into its episodes. Service order is preserved.
func MapItemDetail(it itemDTO) *domain.Content {
	content := mapContent(it)
	if len(it.Seasons) == 0 {
		return &content
	}

	content.Seasons = make([]domain.Season, 0, len(it.Seasons))
	for _, s := range it.Seasons {
		season := domain.Season{
			Number:   s.Number,
			Episodes: make([]domain.Episode, 0, len(s.Episodes)),
		}
		for _, ep := range s.Episodes {
			season.Episodes = append(season.Episodes, domain.Episode{
				ID:           ep.ID,
				Number:       ep.Number,
				Title:        stringOr(ep.Title, ""),
				SeasonNumber: s.Number,
			})
		}
		content.Seasons = append(content.Seasons, season)
	}
	return &content
}

// MapWatching converts watching list entries; unknown counters become 0
func MapWatching(items []watchingDTO) []domain.WatchingItem {
	result := make([]domain.WatchingItem, 0, len(items))
	for _, w := range items {
		result = append(result, domain.WatchingItem{
			ID:      w.ID,
			Title:   w.Title,
			Type:    domain.ContentType(w.Type),
			Total:   intOr(w.Total, 0),
			Watched: intOr(w.Watched, 0),
		})
	}
	return result
}

// MapBookmarkFolders converts bookmark folder listings
func MapBookmarkFolders(items []bookmarkFolderDTO) []domain.BookmarkFolder {
	folders := make([]domain.BookmarkFolder, 0, len(items))
	for _, f := range items {
		folders = append(folders, domain.BookmarkFolder{ID: f.ID, Title: f.Title})
	}
	return folders
}

// MapCatalogEntries converts a category listing, stamping every entry with
// the fetch time.
func MapCatalogEntries(items []itemDTO, fetchedAt time.Time) []domain.CatalogEntry {
	stamp := fetchedAt.UTC().Format(time.RFC3339)
	entries := make([]domain.CatalogEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, domain.CatalogEntry{
			ID:              it.ID,
			Title:           it.Title,
			Year:            intOr(it.Year, 0),
			Type:            domain.ContentType(it.Type),
			Genres:          titles(it.Genres),
			Countries:       titles(it.Countries),
			IMDbRating:      it.IMDbRating,
			KinopoiskRating: it.KinopoiskRating,
			Plot:            stringOr(it.Plot, ""),
			CreatedAt:       stamp,
		})
	}
	return entries
}

func titles(named []namedDTO) []string {
	out := make([]string, 0, len(named))
	for _, n := range named {
		if n.Title != "" {
			out = append(out, n.Title)
		}
	}
	return out
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
