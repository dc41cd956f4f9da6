package omdb

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
	ErrAPIKeyMissing = errors.New("OMDb API key is not configured")
	ErrNotFound      = errors.New("not found on OMDb")
	ErrAPIError      = errors.New("OMDb API error")
)

// Client is an OMDb API client.
type Client struct {
	httpClient *http.Client
	config     config.OMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(cfg config.OMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "omdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "omdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// GetByTitle looks a movie up by title, narrowed by year when year > 0.
func (c *Client) GetByTitle(ctx context.Context, title string, year int) (*Response, error) {
	if title == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("t", title)
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}
	return c.lookup(ctx, params)
}

// GetByIMDbID looks a movie up by IMDb id.
func (c *Client) GetByIMDbID(ctx context.Context, imdbID string) (*Response, error) {
	if imdbID == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("i", imdbID)
	return c.lookup(ctx, params)
}

func (c *Client) lookup(ctx context.Context, params url.Values) (*Response, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params.Set("apikey", c.config.APIKey)
	params.Set("plot", "full")

	reqURL := fmt.Sprintf("%s/?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("title", params.Get("t")).
			Str("imdbId", params.Get("i")).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var omdbResp Response
	if err := json.NewDecoder(resp.Body).Decode(&omdbResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if omdbResp.Response == "False" {
		if omdbResp.Error == "Movie not found!" || omdbResp.Error == "Incorrect IMDb ID." {
			return nil, ErrNotFound
		}
		c.logger.Warn().Str("error", omdbResp.Error).Msg("OMDb API returned error")
		return nil, fmt.Errorf("%w: %s", ErrAPIError, omdbResp.Error)
	}

	c.logger.Debug().
		Str("title", omdbResp.Title).
		Str("year", omdbResp.Year).
		Str("imdbId", omdbResp.ImdbID).
		Msg("Fetched OMDb record")

	return &omdbResp, nil
}
