package mediaserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/moviebuddy/internal/config"
	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/mediaserver/kinopub"
)

// MediaSource combines all repository interfaces the catalog backend implements.
type MediaSource interface {
	domain.SearchRepository   // Search(query)
	domain.MetadataRepository // GetItem(id) with seasons
	domain.ActivityRepository // watching lists and bookmarks
	domain.CatalogRepository  // category listings for ingestion
}

// NewClient creates a MediaSource authorised with a valid token,
// refreshing the stored token first when it has expired.
func NewClient(ctx context.Context, cfg *config.Config, auth *kinopub.Authenticator, logger *slog.Logger) (MediaSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.KinoPub.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	tok, err := auth.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	exec := kinopub.NewExecutor(cfg.KinoPub.APIBaseURL, tok.AccessToken, kinopub.WithLogger(logger))
	return kinopub.NewClient(exec, logger), nil
}
