package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContentType distinguishes catalog content kinds as reported by the service
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSerial ContentType = "serial"
	ContentTypeTVShow ContentType = "tvshow"
)

// SupportedTypes returns the content types requested from search, in wire order
func SupportedTypes() []ContentType {
	return []ContentType{ContentTypeMovie, ContentTypeSerial, ContentTypeTVShow}
}

// Label returns a human-readable label for the content type
func (t ContentType) Label() string {
	switch t {
	case ContentTypeMovie:
		return "Movie"
	case ContentTypeSerial:
		return "Series"
	case ContentTypeTVShow:
		return "TV Show"
	case "":
		return "Unknown"
	default:
		return cases.Title(language.Und).String(string(t))
	}
}

// IsEpisodic reports whether content of this type is organised into seasons
func (t ContentType) IsEpisodic() bool {
	return t != ContentTypeMovie
}

// Token is an OAuth access/refresh token pair.
// Tokens are replaced on refresh, never mutated.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IsExpired reports whether the token is no longer usable at the given instant
func (t Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// DeviceCode is the ephemeral state of one device authorization attempt
type DeviceCode struct {
	Code            string
	UserCode        string
	VerificationURI string
	Interval        int // seconds between polls
	ExpiresIn       int // seconds the code stays valid
	IssuedAt        time.Time
}

// Deadline returns the instant after which polling must stop
func (d DeviceCode) Deadline() time.Time {
	return d.IssuedAt.Add(time.Duration(d.ExpiresIn) * time.Second)
}

// Content is a catalog title. Search results carry no seasons;
// seasons are only populated by a detail fetch.
type Content struct {
	ID      int
	Title   string
	Type    ContentType
	Year    int
	Seasons []Season
}

// AllEpisodes flattens seasons in stored order, preserving the order of
// episodes within each season.
func (c Content) AllEpisodes() []Episode {
	var n int
	for _, s := range c.Seasons {
		n += len(s.Episodes)
	}
	episodes := make([]Episode, 0, n)
	for _, s := range c.Seasons {
		episodes = append(episodes, s.Episodes...)
	}
	return episodes
}

// WatchURL builds the web page URL for the content, or for one of its
// episodes when ep is non-nil.
func (c Content) WatchURL(webBase string, ep *Episode) string {
	base := strings.TrimRight(webBase, "/")
	if ep == nil {
		return fmt.Sprintf("%s/%d", base, c.ID)
	}
	return fmt.Sprintf("%s/%d/s%de%d", base, c.ID, ep.SeasonNumber, ep.Number)
}

// DisplayTitle returns "Title (Year)" when the year is known
func (c Content) DisplayTitle() string {
	if c.Year > 0 {
		return fmt.Sprintf("%s (%d)", c.Title, c.Year)
	}
	return c.Title
}

// Season groups episodes in the order returned by the service
type Season struct {
	Number   int
	Episodes []Episode
}

// Episode is a single episode. SeasonNumber is copied from the parent season.
type Episode struct {
	ID           int
	Number       int
	Title        string
	SeasonNumber int
}

// Code returns the formatted episode code (e.g., "S01E05")
func (e Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.SeasonNumber, e.Number)
}

// WatchingItem is an entry of the user's watching list with progress counters.
// Total may be 0 when the length is unknown.
type WatchingItem struct {
	ID      int
	Title   string
	Type    ContentType
	Total   int
	Watched int
}

// Progress returns "watched/total", or just the watched count if total is unknown
func (w WatchingItem) Progress() string {
	if w.Total <= 0 {
		return fmt.Sprintf("%d", w.Watched)
	}
	return fmt.Sprintf("%d/%d", w.Watched, w.Total)
}

// BookmarkFolder is a named bookmark folder. Membership is fetched separately.
type BookmarkFolder struct {
	ID    int
	Title string
}

// CatalogEntry is a catalog listing row keyed by the remote content id
type CatalogEntry struct {
	ID              int
	Title           string
	Year            int
	Type            ContentType
	Genres          []string
	Countries       []string
	IMDbRating      *float64
	KinopoiskRating *float64
	Plot            string
	CreatedAt       string // RFC 3339, UTC, stamped at fetch time
}

// Score bounds for a Rating
const (
	MinScore = 1
	MaxScore = 10
)

// ErrInvalidScore indicates a rating score outside [MinScore, MaxScore]
var ErrInvalidScore = errors.New("rating score must be between 1 and 10")

// Rating is the user's personal score for a title
type Rating struct {
	ContentID int
	Title     string
	Type      ContentType
	Score     int
	RatedAt   string // RFC 3339, UTC
}

// Validate checks the score range
func (r Rating) Validate() error {
	if r.Score < MinScore || r.Score > MaxScore {
		return fmt.Errorf("%w: got %d", ErrInvalidScore, r.Score)
	}
	return nil
}

// IDSet is a set of content ids
type IDSet map[int]struct{}

// NewIDSet builds a set from the given ids
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id int) { s[id] = struct{}{} }

func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }
