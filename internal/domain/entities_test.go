package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func makeSerial() Content {
	return Content{
		ID:    8894,
		Title: "Friends",
		Type:  ContentTypeSerial,
		Year:  1994,
		Seasons: []Season{
			{Number: 1, Episodes: []Episode{
				{ID: 100, Number: 1, Title: "S1E1", SeasonNumber: 1},
				{ID: 101, Number: 2, Title: "S1E2", SeasonNumber: 1},
			}},
			{Number: 2, Episodes: []Episode{
				{ID: 200, Number: 1, Title: "S2E1", SeasonNumber: 2},
			}},
		},
	}
}

func TestTokenIsExpired(t *testing.T) {
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-10 * time.Second), true},
		{"exactly now", now, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Token{AccessToken: "abc", RefreshToken: "def", ExpiresAt: tt.expiresAt}
			if got := tok.IsExpired(now); got != tt.want {
				t.Fatalf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllEpisodesPreservesOrder(t *testing.T) {
	content := makeSerial()

	got := content.AllEpisodes()
	wantIDs := []int{100, 101, 200}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d episodes, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("episode %d: got id %d want %d", i, got[i].ID, id)
		}
	}
	if got[0].SeasonNumber != 1 || got[2].SeasonNumber != 2 {
		t.Fatalf("unexpected season numbers: %+v", got)
	}
}

func TestAllEpisodesEmptyForMovie(t *testing.T) {
	movie := Content{ID: 113, Title: "The Matrix", Type: ContentTypeMovie, Year: 1999}
	if eps := movie.AllEpisodes(); len(eps) != 0 {
		t.Fatalf("expected no episodes, got %d", len(eps))
	}
}

func TestWatchURL(t *testing.T) {
	const web = "https://kino.pub/item/view"
	serial := makeSerial()

	if got := serial.WatchURL(web, &serial.Seasons[0].Episodes[0]); got != web+"/8894/s1e1" {
		t.Fatalf("unexpected first episode url %q", got)
	}
	if got := serial.WatchURL(web+"/", &serial.Seasons[1].Episodes[0]); got != web+"/8894/s2e1" {
		t.Fatalf("unexpected season 2 url %q", got)
	}

	movie := Content{ID: 113, Title: "The Matrix", Type: ContentTypeMovie}
	if got := movie.WatchURL(web, nil); got != web+"/113" {
		t.Fatalf("unexpected movie url %q", got)
	}
}

func TestEpisodeCode(t *testing.T) {
	ep := Episode{ID: 1, Number: 5, SeasonNumber: 2}
	if got := ep.Code(); got != "S02E05" {
		t.Fatalf("Code() = %q", got)
	}
}

func TestContentTypeLabel(t *testing.T) {
	tests := map[ContentType]string{
		ContentTypeMovie:  "Movie",
		ContentTypeSerial: "Series",
		ContentTypeTVShow: "TV Show",
		"documovie":       "Documovie",
		"":                "Unknown",
	}
	for ct, want := range tests {
		if got := ct.Label(); got != want {
			t.Fatalf("Label(%q) = %q, want %q", ct, got, want)
		}
	}
}

func TestRatingValidate(t *testing.T) {
	for _, score := range []int{1, 5, 10} {
		r := Rating{ContentID: 1, Score: score}
		if err := r.Validate(); err != nil {
			t.Fatalf("score %d: unexpected error %v", score, err)
		}
	}
	for _, score := range []int{0, 11, -3} {
		r := Rating{ContentID: 1, Score: score}
		if err := r.Validate(); !errors.Is(err, ErrInvalidScore) {
			t.Fatalf("score %d: expected ErrInvalidScore, got %v", score, err)
		}
	}
}

func TestIDSet(t *testing.T) {
	s := NewIDSet(1, 2, 2)
	s.Add(3)
	if s.Len() != 3 {
		t.Fatalf("expected 3 ids, got %d", s.Len())
	}
	if !s.Has(2) || s.Has(4) {
		t.Fatalf("unexpected membership: %v", s)
	}
}

func TestErrorKinds(t *testing.T) {
	timeout := &Error{Kind: KindAuthTimeout}
	if !errors.Is(timeout, ErrAuthTimeout) || !errors.Is(timeout, ErrAuth) {
		t.Fatal("auth timeout should match ErrAuthTimeout and ErrAuth")
	}
	if !errors.Is(timeout, ErrKinoPub) {
		t.Fatal("every kind should match ErrKinoPub")
	}

	wrapped := fmt.Errorf("search: %w", NewStatusError(KindRateLimit, "GET /items/search", 429, ""))
	if !errors.Is(wrapped, ErrRateLimited) {
		t.Fatal("expected wrapped error to match ErrRateLimited")
	}
	if errors.Is(wrapped, ErrAuth) {
		t.Fatal("rate limit must not match ErrAuth")
	}
	if kind, ok := KindOf(wrapped); !ok || kind != KindRateLimit {
		t.Fatalf("KindOf = %v, %v", kind, ok)
	}

	notFound := NewStatusError(KindNotFound, "GET /items/1", 404, "")
	if !errors.Is(notFound, ErrNotFound) || !errors.Is(notFound, ErrService) {
		t.Fatal("not found should belong to the service error family")
	}
	if got := notFound.Error(); got != "GET /items/1: item not found (status 404)" {
		t.Fatalf("unexpected message %q", got)
	}
}
