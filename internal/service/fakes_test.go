package service

import (
	"context"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

type fakeSource struct {
	results     []domain.Content
	items       map[int]*domain.Content
	serials     []domain.WatchingItem
	movies      []domain.WatchingItem
	folders     []domain.BookmarkFolder
	folderItems map[int][]int
	categories  map[string][]domain.CatalogEntry // keyed by "category/type"

	itemCalls     int
	categoryCalls []string
	perPages      []int
	err           error
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]domain.Content, error) {
	return f.results, f.err
}

func (f *fakeSource) GetItem(ctx context.Context, id int) (*domain.Content, error) {
	f.itemCalls++
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, domain.NewStatusError(domain.KindNotFound, "GET /items", 404, "item not found")
	}
	return item, nil
}

func (f *fakeSource) GetWatchingSerials(ctx context.Context) ([]domain.WatchingItem, error) {
	return f.serials, f.err
}

func (f *fakeSource) GetWatchingMovies(ctx context.Context) ([]domain.WatchingItem, error) {
	return f.movies, f.err
}

func (f *fakeSource) GetBookmarkFolders(ctx context.Context) ([]domain.BookmarkFolder, error) {
	return f.folders, f.err
}

func (f *fakeSource) GetBookmarkItems(ctx context.Context, folderID int) ([]int, error) {
	return f.folderItems[folderID], f.err
}

func (f *fakeSource) GetCategoryItems(ctx context.Context, category string, t domain.ContentType, perPage int) ([]domain.CatalogEntry, error) {
	key := category + "/" + string(t)
	f.categoryCalls = append(f.categoryCalls, key)
	f.perPages = append(f.perPages, perPage)
	return f.categories[key], f.err
}

type memoryStore struct {
	ratings []domain.Rating
	catalog []domain.CatalogEntry
}

func (m *memoryStore) InsertRatings(ctx context.Context, ratings []domain.Rating) error {
	for _, r := range ratings {
		if m.hasRating(r.ContentID) {
			continue
		}
		m.ratings = append(m.ratings, r)
	}
	return nil
}

func (m *memoryStore) hasRating(id int) bool {
	for _, r := range m.ratings {
		if r.ContentID == id {
			return true
		}
	}
	return false
}

func (m *memoryStore) GetAllRatings(ctx context.Context) ([]domain.Rating, error) {
	return m.ratings, nil
}

func (m *memoryStore) GetRatedContentIDs(ctx context.Context) (domain.IDSet, error) {
	ids := domain.NewIDSet()
	for _, r := range m.ratings {
		ids.Add(r.ContentID)
	}
	return ids, nil
}

func (m *memoryStore) DeleteAllRatings(ctx context.Context) error {
	m.ratings = nil
	return nil
}

func (m *memoryStore) GetCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	return m.catalog, nil
}

func (m *memoryStore) InsertCatalogEntries(ctx context.Context, entries []domain.CatalogEntry) error {
	m.catalog = append(m.catalog, entries...)
	return nil
}

func (m *memoryStore) GetCatalogCount(ctx context.Context) (int, error) {
	return len(m.catalog), nil
}

func (m *memoryStore) GetExistingCatalogIDs(ctx context.Context) (domain.IDSet, error) {
	ids := domain.NewIDSet()
	for _, e := range m.catalog {
		ids.Add(e.ID)
	}
	return ids, nil
}
