package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// launcher abstracts browser launching (consumer-defined interface)
type launcher interface {
	Open(url string) error
}

// Selection is what was opened: the title, the episode for series, and the page URL
type Selection struct {
	Content *domain.Content
	Episode *domain.Episode
	URL     string
}

// PlaybackService chooses what to watch for a resolved title and opens it
type PlaybackService struct {
	launcher launcher
	metadata domain.MetadataRepository
	cache    domain.ItemCache // optional
	episodes *EpisodePicker
	webBase  string
	logger   *slog.Logger
}

// NewPlaybackService creates a new playback service. cache may be nil.
func NewPlaybackService(
	launcher launcher,
	metadata domain.MetadataRepository,
	cache domain.ItemCache,
	episodes *EpisodePicker,
	webBase string,
	logger *slog.Logger,
) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	if episodes == nil {
		episodes = NewEpisodePicker(nil)
	}
	return &PlaybackService{
		launcher: launcher,
		metadata: metadata,
		cache:    cache,
		episodes: episodes,
		webBase:  webBase,
		logger:   logger,
	}
}

// Select builds the watch URL: the title page for movies, a random
// episode for everything else. refresh bypasses the item cache.
func (s *PlaybackService) Select(ctx context.Context, content domain.Content, refresh bool) (*Selection, error) {
	if !content.Type.IsEpisodic() {
		return &Selection{Content: &content, URL: content.WatchURL(s.webBase, nil)}, nil
	}

	detailed, err := s.itemDetail(ctx, content.ID, refresh)
	if err != nil {
		return nil, err
	}

	ep, err := s.episodes.Pick(detailed.AllEpisodes())
	if err != nil {
		return nil, err
	}
	return &Selection{Content: detailed, Episode: &ep, URL: detailed.WatchURL(s.webBase, &ep)}, nil
}

// Open selects and launches the browser on the result
func (s *PlaybackService) Open(ctx context.Context, content domain.Content, refresh bool) (*Selection, error) {
	sel, err := s.Select(ctx, content, refresh)
	if err != nil {
		return nil, err
	}

	s.logger.Info("opening watch page", "title", sel.Content.Title, "itemID", sel.Content.ID, "url", sel.URL)
	if err := s.launcher.Open(sel.URL); err != nil {
		return sel, err
	}
	return sel, nil
}

func (s *PlaybackService) itemDetail(ctx context.Context, id int, refresh bool) (*domain.Content, error) {
	if s.cache != nil && !refresh {
		if item, ok := s.cache.GetItem(id); ok {
			s.logger.Debug("item cache hit", "itemID", id)
			return item, nil
		}
	}

	item, err := s.metadata.GetItem(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch item detail", "error", err, "itemID", id)
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveItem(item); err != nil {
			s.logger.Warn("failed to cache item", "error", err, "itemID", id)
		}
	}
	return item, nil
}
