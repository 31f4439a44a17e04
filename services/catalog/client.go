package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"reelist/config"
	"reelist/models"
)

// Client issues read-only requests against the external movie catalog. It
// holds no cross-call state: paging is a pass-through of the upstream
// cursor, and no response is cached or retried.
type Client struct {
	baseURL    string
	apiKey     string
	images     ImageResolver
	httpClient *http.Client
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		images:     NewImageResolver(cfg.ImageBaseURL),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Images returns the resolver for poster/backdrop asset URLs.
func (c *Client) Images() ImageResolver {
	return c.images
}

// get performs one GET against the catalog and decodes the JSON body into
// out. Any transport error or non-2xx status is returned to the caller
// unchanged in meaning; a single attempt is made.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full request URL, api_key included; strip
		// the query before the error leaves the client.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.baseURL + endpoint
		}
		slog.Warn("catalog request failed", "endpoint", endpoint, "err", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		slog.Warn("catalog returned non-success status", "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("catalog status %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Trending returns the catalog's current weekly trending movies, one page.
func (c *Client) Trending(ctx context.Context) ([]models.Movie, error) {
	var page models.MoviePage
	if err := c.get(ctx, "/trending/movie/week", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// NowPlaying returns movies currently in theatrical release, one page.
func (c *Client) NowPlaying(ctx context.Context) ([]models.Movie, error) {
	var page models.MoviePage
	if err := c.get(ctx, "/movie/now_playing", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Search returns one page of movies matching query, with the upstream
// total_pages and total_results passed through verbatim. query must be
// non-empty and page at least 1; both are checked before any network call.
func (c *Client) Search(ctx context.Context, query string, page int) (models.MoviePage, error) {
	if query == "" {
		return models.MoviePage{}, fmt.Errorf("search query must not be empty")
	}
	if page < 1 {
		return models.MoviePage{}, fmt.Errorf("search page must be >= 1, got %d", page)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var result models.MoviePage
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return models.MoviePage{}, err
	}
	return result, nil
}

// Details returns a single movie enriched with runtime and genre list,
// fields only the detail endpoint carries.
func (c *Client) Details(ctx context.Context, id int) (models.Movie, error) {
	var movie models.Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &movie); err != nil {
		return models.Movie{}, err
	}
	return movie, nil
}

// Recommendations returns movies related to id, one page, in the catalog's
// own ranking order.
func (c *Client) Recommendations(ctx context.Context, id int) ([]models.Movie, error) {
	var page models.MoviePage
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/recommendations", id), nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}
