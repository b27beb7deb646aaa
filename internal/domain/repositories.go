package domain

import "context"

// SearchRepository resolves free-text queries against the catalog
type SearchRepository interface {
	// Search returns matching titles without season detail
	Search(ctx context.Context, query string) ([]Content, error)
}

// MetadataRepository provides detail lookups
type MetadataRepository interface {
	// GetItem returns a title with its seasons and episodes
	GetItem(ctx context.Context, id int) (*Content, error)
}

// ActivityRepository exposes the user's own activity on the service
type ActivityRepository interface {
	GetWatchingSerials(ctx context.Context) ([]WatchingItem, error)
	GetWatchingMovies(ctx context.Context) ([]WatchingItem, error)
	GetBookmarkFolders(ctx context.Context) ([]BookmarkFolder, error)
	GetBookmarkItems(ctx context.Context, folderID int) ([]int, error)
}

// CatalogRepository lists catalog categories for ingestion
type CatalogRepository interface {
	GetCategoryItems(ctx context.Context, category string, contentType ContentType, perPage int) ([]CatalogEntry, error)
}

// RatingStore persists personal ratings with insert-or-ignore semantics
type RatingStore interface {
	InsertRatings(ctx context.Context, ratings []Rating) error
	GetAllRatings(ctx context.Context) ([]Rating, error)
	GetRatedContentIDs(ctx context.Context) (IDSet, error)
	DeleteAllRatings(ctx context.Context) error
}

// CatalogStore persists catalog entries with insert-or-ignore semantics
type CatalogStore interface {
	InsertCatalogEntries(ctx context.Context, entries []CatalogEntry) error
	GetCatalogCount(ctx context.Context) (int, error)
	GetExistingCatalogIDs(ctx context.Context) (IDSet, error)
	GetCatalogEntries(ctx context.Context) ([]CatalogEntry, error)
}

// ItemCache is a local cache of detail lookups keyed by content id
type ItemCache interface {
	GetItem(id int) (*Content, bool)
	SaveItem(item *Content) error
	InvalidateItem(id int)
	InvalidateAll()
	Close() error
}
