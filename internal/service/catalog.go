package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// CatalogCategories are the listings ingested on each update
var CatalogCategories = []string{"fresh", "hot", "popular"}

// CatalogSummary reports what an update added
type CatalogSummary struct {
	Added int
	Total int
}

// CatalogService copies category listings into the local catalog
type CatalogService struct {
	catalog domain.CatalogRepository
	store   domain.CatalogStore
	perPage int // 0 lets the backend choose its page size
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog domain.CatalogRepository, store domain.CatalogStore, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{catalog: catalog, store: store, logger: logger}
}

// Update fetches every category for every content type and stores entries
// not seen before. progress, if set, is called before each fetch.
func (s *CatalogService) Update(ctx context.Context, progress func(category string, t domain.ContentType)) (*CatalogSummary, error) {
	existing, err := s.store.GetExistingCatalogIDs(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing = domain.NewIDSet()
	}

	var fresh []domain.CatalogEntry
	for _, category := range CatalogCategories {
		for _, t := range domain.SupportedTypes() {
			if progress != nil {
				progress(category, t)
			}
			entries, err := s.catalog.GetCategoryItems(ctx, category, t, s.perPage)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if existing.Has(e.ID) {
					continue
				}
				existing.Add(e.ID)
				fresh = append(fresh, e)
			}
		}
	}

	if len(fresh) > 0 {
		if err := s.store.InsertCatalogEntries(ctx, fresh); err != nil {
			return nil, err
		}
	}

	total, err := s.store.GetCatalogCount(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog updated", "added", len(fresh), "total", total)
	return &CatalogSummary{Added: len(fresh), Total: total}, nil
}

// List returns the stored catalog
func (s *CatalogService) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.store.GetCatalogEntries(ctx)
}
