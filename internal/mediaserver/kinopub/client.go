package kinopub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// DefaultPerPage is the category page size when none is given
const DefaultPerPage = 50

// Requester performs one API request and returns its JSON body
type Requester interface {
	Execute(ctx context.Context, method, path string, query url.Values) (json.RawMessage, error)
}

// Client implements domain.SearchRepository, domain.MetadataRepository,
// domain.ActivityRepository, and domain.CatalogRepository for kino.pub
type Client struct {
	exec   Requester
	now    func() time.Time
	logger *slog.Logger
}

// NewClient creates a kino.pub API client on top of an executor
func NewClient(exec Requester, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{exec: exec, now: time.Now, logger: logger}
}

// SetClock overrides the time source used to stamp catalog entries
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

var (
	_ domain.SearchRepository   = (*Client)(nil)
	_ domain.MetadataRepository = (*Client)(nil)
	_ domain.ActivityRepository = (*Client)(nil)
	_ domain.CatalogRepository  = (*Client)(nil)
)

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.exec.Execute(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return &domain.Error{Kind: domain.KindService, Op: "GET " + path, Msg: "failed to parse response", Err: err}
	}
	return nil
}

// Search finds titles of every supported type
func (c *Client) Search(ctx context.Context, query string) ([]domain.Content, error) {
	q := strings.TrimSpace(norm.NFC.String(query))
	types := make([]string, 0, 3)
	for _, t := range domain.SupportedTypes() {
		types = append(types, string(t))
	}

	var resp itemListResponse
	if err := c.get(ctx, "/items/search", url.Values{
		"q":    {q},
		"type": {strings.Join(types, ",")},
	}, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("search completed", "query", q, "results", len(resp.Items))
	return MapSearchResults(resp.Items), nil
}

// GetItem fetches a title with its seasons and episodes
func (c *Client) GetItem(ctx context.Context, id int) (*domain.Content, error) {
	path := "/items/" + strconv.Itoa(id)
	var resp itemDetailResponse
	if err := c.get(ctx, path, url.Values{"nolinks": {"1"}}, &resp); err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, &domain.Error{Kind: domain.KindNotFound, Op: "GET " + path, Msg: fmt.Sprintf("item %d not found", id)}
	}
	return MapItemDetail(*resp.Item), nil
}

// GetWatchingSerials returns series the user is watching
func (c *Client) GetWatchingSerials(ctx context.Context) ([]domain.WatchingItem, error) {
	return c.watching(ctx, "/watching/serials")
}

// GetWatchingMovies returns movies the user is watching
func (c *Client) GetWatchingMovies(ctx context.Context) ([]domain.WatchingItem, error) {
	return c.watching(ctx, "/watching/movies")
}

func (c *Client) watching(ctx context.Context, path string) ([]domain.WatchingItem, error) {
	var resp watchingListResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return MapWatching(resp.Items), nil
}

// GetBookmarkFolders lists the user's bookmark folders
func (c *Client) GetBookmarkFolders(ctx context.Context) ([]domain.BookmarkFolder, error) {
	var resp bookmarkFoldersResponse
	if err := c.get(ctx, "/bookmarks", nil, &resp); err != nil {
		return nil, err
	}
	return MapBookmarkFolders(resp.Items), nil
}

// GetBookmarkItems returns the content ids in one folder
func (c *Client) GetBookmarkItems(ctx context.Context, folderID int) ([]int, error) {
	var resp bookmarkItemsResponse
	if err := c.get(ctx, "/bookmarks/"+strconv.Itoa(folderID), nil, &resp); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(resp.Items))
	for _, it := range resp.Items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

// GetCategoryItems lists one catalog category (e.g. "fresh", "hot", "popular")
func (c *Client) GetCategoryItems(ctx context.Context, category string, contentType domain.ContentType, perPage int) ([]domain.CatalogEntry, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	var resp itemListResponse
	if err := c.get(ctx, "/items/"+category, url.Values{
		"type":    {string(contentType)},
		"perpage": {strconv.Itoa(perPage)},
	}, &resp); err != nil {
		return nil, err
	}
	return MapCatalogEntries(resp.Items, c.now()), nil
}
