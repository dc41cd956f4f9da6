// Package apiclient is the client request layer for the movie API. Identical
// in-flight requests share one network call and successful responses are
// reused from an injected ResponseCache.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

const defaultTimeout = 30 * time.Second

var (
	ErrRequestFailed = errors.New("request failed")
	ErrInvalidBody   = errors.New("invalid response body")
)

// APIError is a failed envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Errors  []envelope.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Response is a decoded envelope.
type Response[T any] struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Data      T                     `json:"data"`
	Errors    []envelope.FieldError `json:"errors,omitempty"`
	Timestamp string                `json:"timestamp"`
}

// MoviePage is the data of list endpoints.
type MoviePage = envelope.ListData[metadata.Movie]

// Health is the data of the health endpoint.
type Health struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Version        string `json:"version"`
	TMDBConfigured bool   `json:"tmdbConfigured"`
	OMDBConfigured bool   `json:"omdbConfigured"`
}

// DiscoverOptions are the optional discover filters. Zero values are omitted.
type DiscoverOptions struct {
	Genre     string
	Year      int
	MinRating *float64
	MaxRating *float64
	Language  string
	SortBy    string
	Query     string
}

func (o DiscoverOptions) values() url.Values {
	v := url.Values{}
	if o.Genre != "" {
		v.Set("genre", o.Genre)
	}
	if o.Year != 0 {
		v.Set("year", strconv.Itoa(o.Year))
	}
	if o.MinRating != nil {
		v.Set("minRating", strconv.FormatFloat(*o.MinRating, 'f', -1, 64))
	}
	if o.MaxRating != nil {
		v.Set("maxRating", strconv.FormatFloat(*o.MaxRating, 'f', -1, 64))
	}
	if o.Language != "" {
		v.Set("language", o.Language)
	}
	if o.SortBy != "" {
		v.Set("sortBy", o.SortBy)
	}
	if o.Query != "" {
		v.Set("query", o.Query)
	}
	return v
}

// Client calls the movie API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *ResponseCache
	group      singleflight.Group
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCache sets the response cache.
func WithCache(cache *ResponseCache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API mounted at baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewResponseCache()
	}
	c.logger = c.logger.With().Str("component", "apiclient").Logger()
	return c
}

// Cache returns the client's response cache.
func (c *Client) Cache() *ResponseCache {
	return c.cache
}

// Movies lists the default (popular) category.
func (c *Client) Movies(ctx context.Context, page int) (*MoviePage, error) {
	return getData[MoviePage](ctx, c, "/movies", pageValues(page))
}

// PopularMovies lists popular movies.
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	return getData[MoviePage](ctx, c, "/movies/popular", pageValues(page))
}

// TopRatedMovies lists top rated movies.
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*MoviePage, error) {
	return getData[MoviePage](ctx, c, "/movies/top-rated", pageValues(page))
}

// SearchMovies searches by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	params := pageValues(page)
	params.Set("q", query)
	return getData[MoviePage](ctx, c, "/movies/search", params)
}

// DiscoverMovies lists movies matching the filters.
func (c *Client) DiscoverMovies(ctx context.Context, opts DiscoverOptions, page int) (*MoviePage, error) {
	params := opts.values()
	params.Set("page", strconv.Itoa(normalizePage(page)))
	return getData[MoviePage](ctx, c, "/movies/discover", params)
}

// Movie fetches one movie's details.
func (c *Client) Movie(ctx context.Context, id int) (*metadata.MovieDetail, error) {
	return getData[metadata.MovieDetail](ctx, c, "/movies/"+strconv.Itoa(id), nil)
}

// Genres fetches the genre list.
func (c *Client) Genres(ctx context.Context) ([]metadata.Genre, error) {
	genres, err := getData[[]metadata.Genre](ctx, c, "/genres", nil)
	if err != nil {
		return nil, err
	}
	return *genres, nil
}

// Health probes the API. It bypasses the cache.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	body, err := c.fetch(ctx, "/health", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[Health](body)
}

func getData[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (*T, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return decodeData[T](body)
}

func decodeData[T any](body []byte) (*T, error) {
	var resp Response[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return &resp.Data, nil
}

// get serves from the cache, or joins an in-flight call for the same key, or
// issues a new one. Only successful bodies are cached.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	key := c.cache.Key(endpoint, params)

	if body, ok := c.cache.Get(key); ok {
		c.logger.Debug().Str("key", key).Msg("Cache hit")
		return body, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		body, err := c.fetch(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Debug().Str("key", key).Msg("Joined in-flight request")
	}
	return v.([]byte), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var head Response[json.RawMessage]
	if err := json.Unmarshal(body, &head); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !head.Success {
		c.logger.Debug().
			Str("url", reqURL).
			Int("status", resp.StatusCode).
			Str("message", head.Message).
			Msg("API request failed")
		return nil, &APIError{Status: resp.StatusCode, Message: head.Message, Errors: head.Errors}
	}

	return body, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageValues(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(normalizePage(page))}}
}
