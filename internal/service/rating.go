package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// MaxRatingCandidates caps how many titles one rating session offers
const MaxRatingCandidates = 10

// RatingAction is the user's answer to one prompt
type RatingAction int

const (
	RatingRate RatingAction = iota
	RatingSkip
	RatingQuit
)

// RatingAnswer carries a score when Action is RatingRate
type RatingAnswer struct {
	Action RatingAction
	Score  int
}

// RatingPrompter asks the user to score one title (consumer-defined interface).
// index is 1-based.
type RatingPrompter interface {
	PromptRating(ctx context.Context, item domain.WatchingItem, index, total int) (RatingAnswer, error)
}

// RatingSummary reports what a rating session did
type RatingSummary struct {
	Offered int
	Rated   int
	Total   int // ratings stored after the session
}

// RatingService collects personal scores for watched titles
type RatingService struct {
	activity domain.ActivityRepository
	store    domain.RatingStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewRatingService creates a new rating service
func NewRatingService(activity domain.ActivityRepository, store domain.RatingStore, logger *slog.Logger) *RatingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingService{activity: activity, store: store, now: time.Now, logger: logger}
}

// SetClock overrides the time source used for rated_at stamps
func (s *RatingService) SetClock(now func() time.Time) {
	s.now = now
}

// Candidates returns up to MaxRatingCandidates watched titles that have no
// rating yet, serials first.
func (s *RatingService) Candidates(ctx context.Context) ([]domain.WatchingItem, error) {
	serials, err := s.activity.GetWatchingSerials(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := s.activity.GetWatchingMovies(ctx)
	if err != nil {
		return nil, err
	}
	rated, err := s.store.GetRatedContentIDs(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.WatchingItem
	for _, w := range append(serials, movies...) {
		if rated.Has(w.ID) {
			continue
		}
		out = append(out, w)
		if len(out) == MaxRatingCandidates {
			break
		}
	}
	return out, nil
}

// Run prompts for each candidate and stores every score as it is given.
// A quit answer ends the session early; ratings already stored are kept.
func (s *RatingService) Run(ctx context.Context, prompter RatingPrompter) (*RatingSummary, error) {
	candidates, err := s.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	summary := &RatingSummary{Offered: len(candidates)}
	if len(candidates) == 0 {
		return summary, nil
	}

	for i, item := range candidates {
		answer, err := prompter.PromptRating(ctx, item, i+1, len(candidates))
		if err != nil {
			return nil, err
		}
		if answer.Action == RatingQuit {
			break
		}
		if answer.Action == RatingSkip {
			continue
		}

		r := domain.Rating{
			ContentID: item.ID,
			Title:     item.Title,
			Type:      item.Type,
			Score:     answer.Score,
			RatedAt:   s.now().UTC().Format(time.RFC3339),
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if err := s.store.InsertRatings(ctx, []domain.Rating{r}); err != nil {
			return nil, err
		}
		summary.Rated++
		s.logger.Info("rated title", "id", item.ID, "score", answer.Score)
	}

	all, err := s.store.GetAllRatings(ctx)
	if err != nil {
		return nil, err
	}
	summary.Total = len(all)
	return summary, nil
}

// Reset deletes every stored rating
func (s *RatingService) Reset(ctx context.Context) error {
	if err := s.store.DeleteAllRatings(ctx); err != nil {
		return err
	}
	s.logger.Info("ratings reset")
	return nil
}
