package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/amartyachowdhury/movie-stack/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrMovieNotFound = errors.New("movie not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// DefaultSortBy is the discover ordering used when none is requested.
const DefaultSortBy = "popularity.desc"

// DiscoverFilters are the optional filters of /discover/movie.
// Zero values are not sent.
type DiscoverFilters struct {
	Genre     string
	Year      int
	MinRating *float64
	MaxRating *float64
	Language  string
	SortBy    string
	Query     string
}

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// GetPopular returns a page of /movie/popular.
func (c *Client) GetPopular(ctx context.Context, page int) ([]MovieResult, error) {
	return c.getList(ctx, "/movie/popular", c.pageParams(page))
}

// GetTopRated returns a page of /movie/top_rated.
func (c *Client) GetTopRated(ctx context.Context, page int) ([]MovieResult, error) {
	return c.getList(ctx, "/movie/top_rated", c.pageParams(page))
}

// SearchMovies returns a page of /search/movie for query.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]MovieResult, error) {
	params := c.pageParams(page)
	params.Set("query", query)
	return c.getList(ctx, "/search/movie", params)
}

// DiscoverMovies returns a page of /discover/movie narrowed by filters.
func (c *Client) DiscoverMovies(ctx context.Context, filters DiscoverFilters, page int) ([]MovieResult, error) {
	params := c.pageParams(page)
	params.Set("include_adult", "false")

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	params.Set("sort_by", sortBy)

	if filters.Genre != "" {
		params.Set("with_genres", filters.Genre)
	}
	if filters.Year > 0 {
		params.Set("year", strconv.Itoa(filters.Year))
	}
	if filters.MinRating != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*filters.MinRating, 'f', -1, 64))
	}
	if filters.MaxRating != nil {
		params.Set("vote_average.lte", strconv.FormatFloat(*filters.MaxRating, 'f', -1, 64))
	}
	if filters.Language != "" {
		params.Set("with_original_language", filters.Language)
	}
	if filters.Query != "" {
		params.Set("query", filters.Query)
	}

	return c.getList(ctx, "/discover/movie", params)
}

// GetMovieDetails fetches a movie with credits, videos and similar titles
// in a single round trip.
func (c *Client) GetMovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.baseParams()
	params.Set("append_to_response", "credits,videos,similar")

	var details MovieDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("movieId", id).
		Str("title", details.Title).
		Msg("Fetched movie details")

	return &details, nil
}

// GetGenres returns the movie genre list.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var response GenreListResponse
	if err := c.doRequest(ctx, "/genre/movie/list", c.baseParams(), &response); err != nil {
		return nil, err
	}
	return response.Genres, nil
}

func (c *Client) getList(ctx context.Context, path string, params url.Values) ([]MovieResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var response ListResponse
	if err := c.doRequest(ctx, path, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("path", path).
		Str("page", params.Get("page")).
		Int("results", len(response.Results)).
		Msg("Fetched movie list")

	if response.Results == nil {
		return []MovieResult{}, nil
	}
	return response.Results, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}
	return params
}

func (c *Client) pageParams(page int) url.Values {
	params := c.baseParams()
	params.Set("page", strconv.Itoa(page))
	return params
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result any) error {
	endpoint := c.config.BaseURL + path
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("url", endpoint).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrMovieNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

