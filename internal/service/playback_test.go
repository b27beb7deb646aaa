package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/store"
)

const webBase = "https://kino.pub/item/view"

type recordingLauncher struct {
	urls []string
	err  error
}

func (l *recordingLauncher) Open(url string) error {
	l.urls = append(l.urls, url)
	return l.err
}

func friends() *domain.Content {
	return &domain.Content{
		ID:    8894,
		Title: "Friends",
		Type:  domain.ContentTypeSerial,
		Seasons: []domain.Season{
			{Number: 1, Episodes: []domain.Episode{
				{ID: 1, Number: 1, Title: "Pilot", SeasonNumber: 1},
				{ID: 2, Number: 2, Title: "The Sonogram", SeasonNumber: 1},
			}},
			{Number: 2, Episodes: []domain.Episode{
				{ID: 3, Number: 1, Title: "Ross's New Girlfriend", SeasonNumber: 2},
			}},
		},
	}
}

func TestOpenMovieUsesTitlePage(t *testing.T) {
	l := &recordingLauncher{}
	src := &fakeSource{}
	svc := NewPlaybackService(l, src, nil, nil, webBase, nil)

	sel, err := svc.Open(context.Background(), domain.Content{ID: 113, Title: "The Matrix", Type: domain.ContentTypeMovie}, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sel.Episode != nil || sel.URL != webBase+"/113" {
		t.Fatalf("unexpected selection %#v", sel)
	}
	if len(l.urls) != 1 || l.urls[0] != sel.URL {
		t.Fatalf("launcher got %v", l.urls)
	}
	if src.itemCalls != 0 {
		t.Fatal("movies should not fetch item detail")
	}
}

func TestOpenSeriesPicksEpisode(t *testing.T) {
	l := &recordingLauncher{}
	src := &fakeSource{items: map[int]*domain.Content{8894: friends()}}
	svc := NewPlaybackService(l, src, nil, NewEpisodePicker(rand.NewPCG(1, 2)), webBase, nil)

	sel, err := svc.Open(context.Background(), domain.Content{ID: 8894, Type: domain.ContentTypeSerial}, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sel.Episode == nil {
		t.Fatal("expected an episode")
	}
	want := sel.Content.WatchURL(webBase, sel.Episode)
	if sel.URL != want || l.urls[0] != want {
		t.Fatalf("url = %q, want %q", sel.URL, want)
	}
	if sel.Content.Title != "Friends" {
		t.Fatalf("expected detailed content, got %#v", sel.Content)
	}
}

func TestOpenSeriesWithoutEpisodes(t *testing.T) {
	l := &recordingLauncher{}
	src := &fakeSource{items: map[int]*domain.Content{5: {ID: 5, Type: domain.ContentTypeTVShow}}}
	svc := NewPlaybackService(l, src, nil, nil, webBase, nil)

	_, err := svc.Open(context.Background(), domain.Content{ID: 5, Type: domain.ContentTypeTVShow}, false)
	if !errors.Is(err, domain.ErrNoEpisodes) {
		t.Fatalf("expected ErrNoEpisodes, got %v", err)
	}
	if len(l.urls) != 0 {
		t.Fatal("browser should not open")
	}
}

func TestOpenUsesItemCache(t *testing.T) {
	cache, err := store.NewItemStore("", "", 0)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	src := &fakeSource{items: map[int]*domain.Content{8894: friends()}}
	svc := NewPlaybackService(&recordingLauncher{}, src, cache, nil, webBase, nil)
	ctx := context.Background()
	target := domain.Content{ID: 8894, Type: domain.ContentTypeSerial}

	for range 3 {
		if _, err := svc.Select(ctx, target, false); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	if src.itemCalls != 1 {
		t.Fatalf("expected 1 detail fetch, got %d", src.itemCalls)
	}

	if _, err := svc.Select(ctx, target, true); err != nil {
		t.Fatalf("select refresh: %v", err)
	}
	if src.itemCalls != 2 {
		t.Fatalf("expected refresh to bypass cache, got %d fetches", src.itemCalls)
	}
}

func TestOpenReportsLauncherFailure(t *testing.T) {
	l := &recordingLauncher{err: domain.ErrNoBrowser}
	svc := NewPlaybackService(l, &fakeSource{}, nil, nil, webBase, nil)

	sel, err := svc.Open(context.Background(), domain.Content{ID: 1, Type: domain.ContentTypeMovie}, false)
	if !errors.Is(err, domain.ErrNoBrowser) {
		t.Fatalf("expected ErrNoBrowser, got %v", err)
	}
	if sel == nil || sel.URL == "" {
		t.Fatal("selection should still be returned so the URL can be shown")
	}
}

func TestEpisodePickerCoversSeasons(t *testing.T) {
	p := NewEpisodePicker(rand.NewPCG(42, 7))
	episodes := friends().AllEpisodes()

	seasons := map[int]bool{}
	for range 200 {
		ep, err := p.Pick(episodes)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		seasons[ep.SeasonNumber] = true
	}
	if len(seasons) != 2 {
		t.Fatalf("expected picks from both seasons, got %v", seasons)
	}
}

func TestEpisodePickerEmpty(t *testing.T) {
	if _, err := NewEpisodePicker(nil).Pick(nil); !errors.Is(err, domain.ErrNoEpisodes) {
		t.Fatalf("expected ErrNoEpisodes, got %v", err)
	}
}

func TestEpisodePickerSeededIsReproducible(t *testing.T) {
	episodes := friends().AllEpisodes()
	a := NewEpisodePicker(rand.NewPCG(2026, 10))
	b := NewEpisodePicker(rand.NewPCG(2026, 10))

	for i := range 50 {
		x, err := a.Pick(episodes)
		if err != nil {
			t.Fatalf("pick a: %v", err)
		}
		y, err := b.Pick(episodes)
		if err != nil {
			t.Fatalf("pick b: %v", err)
		}
		if x != y {
			t.Fatalf("pick %d diverged: %#v vs %#v", i, x, y)
		}
	}
}
