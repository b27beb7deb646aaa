package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/search"
)

// MaxPickerChoices is how many results the interactive picker offers
const MaxPickerChoices = 5

// Picker asks the user to choose among results (consumer-defined interface).
// It returns a 1-based index into choices.
type Picker interface {
	Pick(ctx context.Context, choices []domain.Content) (int, error)
}

// Resolution is the outcome of resolving a query to one title
type Resolution struct {
	Content *domain.Content
	Reason  string // why it was auto-selected, empty for a lone result or a user pick
	Picked  bool   // chosen interactively
}

// ResolveService turns a free-text query into a single title
type ResolveService struct {
	search   domain.SearchRepository
	activity domain.ActivityRepository
	picker   Picker
	logger   *slog.Logger
}

// NewResolveService creates a new resolve service
func NewResolveService(
	search domain.SearchRepository,
	activity domain.ActivityRepository,
	picker Picker,
	logger *slog.Logger,
) *ResolveService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolveService{
		search:   search,
		activity: activity,
		picker:   picker,
		logger:   logger,
	}
}

// Resolve searches for query and picks one result: a lone result directly,
// otherwise by the user's activity, otherwise by asking.
func (s *ResolveService) Resolve(ctx context.Context, query string) (*Resolution, error) {
	results, err := s.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %q", domain.ErrNoResults, query)
	}
	if len(results) == 1 {
		return &Resolution{Content: &results[0]}, nil
	}

	watching, bookmarks, err := s.ActivityIDs(ctx)
	if err != nil {
		return nil, err
	}

	if matched, reason := search.Rank(results, watching, bookmarks); matched != nil {
		s.logger.Info("auto-selected result", "id", matched.ID, "reason", reason)
		return &Resolution{Content: matched, Reason: reason}, nil
	}

	choices := results
	if len(choices) > MaxPickerChoices {
		choices = choices[:MaxPickerChoices]
	}
	idx, err := s.picker.Pick(ctx, choices)
	if err != nil {
		return nil, err
	}
	if idx < 1 || idx > len(choices) {
		return nil, fmt.Errorf("picker returned %d, want 1-%d", idx, len(choices))
	}
	picked := choices[idx-1]
	return &Resolution{Content: &picked, Picked: true}, nil
}

// ActivityIDs fetches the ids in the user's watching lists and in every
// bookmark folder. Sets are built fresh on each call.
func (s *ResolveService) ActivityIDs(ctx context.Context) (watching, bookmarks domain.IDSet, err error) {
	watching = domain.NewIDSet()
	bookmarks = domain.NewIDSet()

	serials, err := s.activity.GetWatchingSerials(ctx)
	if err != nil {
		return nil, nil, err
	}
	movies, err := s.activity.GetWatchingMovies(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range append(serials, movies...) {
		watching.Add(w.ID)
	}

	folders, err := s.activity.GetBookmarkFolders(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range folders {
		ids, err := s.activity.GetBookmarkItems(ctx, f.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, id := range ids {
			bookmarks.Add(id)
		}
	}

	s.logger.Debug("fetched activity", "watching", watching.Len(), "bookmarks", bookmarks.Len(), "folders", len(folders))
	return watching, bookmarks, nil
}
