package metadata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
	"github.com/amartyachowdhury/movie-stack/internal/api/validation"
	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
)

type listBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Items      []Movie             `json:"items"`
		Pagination envelope.Pagination `json:"pagination"`
	} `json:"data"`
}

type detailBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    MovieDetail `json:"data"`
}

func setupTestHandlers(t *testing.T, tm *fakeTMDB) (*echo.Echo, *Handlers) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()
	return e, NewHandlers(newTestService(t, tm, nil, nil))
}

func serve(e *echo.Echo, target string, pnames []string, pvalues []string, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(pnames) > 0 {
		c.SetParamNames(pnames...)
		c.SetParamValues(pvalues...)
	}
	return rec, h(c)
}

func requireValidationError(t *testing.T, err error, message string) *envelope.ValidationError {
	t.Helper()
	var vErr *envelope.ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	assert.Equal(t, message, vErr.Message)
	return vErr
}

func TestHandlers_Search_SampleNarrowing(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	rec, err := serve(e, "/api/movies/search?q=fight", nil, nil, h.Search)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sample", rec.Header().Get(DataSourceHeader))

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Search results retrieved successfully", body.Message)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "Fight Club", body.Data.Items[0].Title)
	assert.Equal(t, envelope.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, body.Data.Pagination)
}

func TestHandlers_Search_QueryValidation(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	tests := []struct {
		target  string
		message string
	}{
		{"/api/movies/search", "Search query is required"},
		{"/api/movies/search?q=%20%20", "Search query is required"},
		{"/api/movies/search?q=f", "Search query must be at least 2 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			_, err := serve(e, tt.target, nil, nil, h.Search)
			requireValidationError(t, err, tt.message)
		})
	}
}

func TestHandlers_ListEndpoints_NoCredentials(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		message string
	}{
		{"movies", h.GetMovies, "Movies retrieved successfully"},
		{"popular", h.GetPopular, "Popular movies retrieved successfully"},
		{"top rated", h.GetTopRated, "Top rated movies retrieved successfully"},
		{"discover", h.Discover, "Movies discovered successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := serve(e, "/api/movies?page=2", nil, nil, tt.handler)
			require.NoError(t, err)

			var body listBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
			assert.Len(t, body.Data.Items, 3)
			assert.Equal(t, 2, body.Data.Pagination.Page)
			assert.True(t, body.Data.Pagination.HasPrev)
		})
	}
}

func TestHandlers_PageParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?page=abc", 1},
		{"?page=0", 1},
		{"?page=-4", 1},
		{"?page=5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			tm := &fakeTMDB{configured: true, list: []tmdb.MovieResult{{ID: 1, Title: "A"}}}
			e, h := setupTestHandlers(t, tm)

			rec, err := serve(e, "/api/movies/popular"+tt.query, nil, nil, h.GetPopular)
			require.NoError(t, err)
			assert.Equal(t, "tmdb", rec.Header().Get(DataSourceHeader))
			assert.Equal(t, tt.want, tm.lastPage)
		})
	}
}

func TestHandlers_Discover_Filters(t *testing.T) {
	tm := &fakeTMDB{configured: true, list: []tmdb.MovieResult{{ID: 1, Title: "A"}}}
	e, h := setupTestHandlers(t, tm)

	_, err := serve(e, "/api/movies/discover?genre=28,12&year=1999&minRating=7.5&language=en&query=%20matrix%20", nil, nil, h.Discover)
	require.NoError(t, err)

	f := tm.lastFilters
	assert.Equal(t, "28,12", f.Genre)
	assert.Equal(t, 1999, f.Year)
	require.NotNil(t, f.MinRating)
	assert.InDelta(t, 7.5, *f.MinRating, 0.001)
	assert.Nil(t, f.MaxRating)
	assert.Equal(t, "en", f.Language)
	assert.Equal(t, tmdb.DefaultSortBy, f.SortBy)
	assert.Equal(t, "matrix", f.Query)
}

func TestHandlers_Discover_ZeroRatingIsKept(t *testing.T) {
	tm := &fakeTMDB{configured: true}
	e, h := setupTestHandlers(t, tm)

	_, err := serve(e, "/api/movies/discover?minRating=0&maxRating=0", nil, nil, h.Discover)
	require.NoError(t, err)

	require.NotNil(t, tm.lastFilters.MinRating)
	require.NotNil(t, tm.lastFilters.MaxRating)
	assert.Zero(t, *tm.lastFilters.MaxRating)
}

func TestHandlers_Discover_Validation(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"year too early", "year=1800", "year"},
		{"year not a number", "year=abc", "year"},
		{"rating above range", "minRating=11", "minRating"},
		{"negative rating", "maxRating=-1", "maxRating"},
		{"rating range inverted", "minRating=8&maxRating=5", "maxRating"},
		{"language too long", "language=eng", "language"},
		{"language uppercase", "language=EN", "language"},
		{"unknown sort", "sortBy=random", "sortBy"},
		{"bad genre list", "genre=action", "genre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(e, "/api/movies/discover?"+tt.query, nil, nil, h.Discover)
			vErr := requireValidationError(t, err, "Validation failed")
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
		})
	}
}

func TestHandlers_GetMovie(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	rec, err := serve(e, "/api/movies/550", []string{"id"}, []string{"550"}, h.GetMovie)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sample", rec.Header().Get(DataSourceHeader))

	var body detailBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Movie details retrieved successfully", body.Message)
	assert.Equal(t, 550, body.Data.ID)
	assert.Equal(t, "Fight Club", body.Data.Title)
	assert.NotNil(t, body.Data.Cast)
}

func TestHandlers_GetMovie_InvalidID(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	for _, id := range []string{"abc", "0", "-3", "12x"} {
		t.Run(id, func(t *testing.T) {
			_, err := serve(e, "/api/movies/"+id, []string{"id"}, []string{id}, h.GetMovie)
			requireValidationError(t, err, "Invalid movie ID")
		})
	}
}

func TestHandlers_GetMovie_NotFound(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	_, err := serve(e, "/api/movies/999999", []string{"id"}, []string{"999999"}, h.GetMovie)

	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, "Movie not found", httpErr.Message)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandlers_GetMovie_UpstreamUnavailable(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{configured: true, err: errUpstream})

	_, err := serve(e, "/api/movies/999999", []string{"id"}, []string{"999999"}, h.GetMovie)

	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.Code)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestHandlers_GetGenres(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})

	rec, err := serve(e, "/api/genres", nil, nil, h.GetGenres)
	require.NoError(t, err)

	var body struct {
		Message string  `json:"message"`
		Data    []Genre `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Genres retrieved successfully", body.Message)
	assert.Len(t, body.Data, 19)
}

func TestHandlers_RegisterRoutes(t *testing.T) {
	e, h := setupTestHandlers(t, &fakeTMDB{})
	h.RegisterRoutes(e.Group("/api"))

	paths := map[string]bool{}
	for _, r := range e.Routes() {
		paths[r.Path] = true
	}

	for _, p := range []string{
		"/api/movies", "/api/movies/popular", "/api/movies/top-rated",
		"/api/movies/search", "/api/movies/discover", "/api/movies/:id", "/api/genres",
	} {
		assert.True(t, paths[p], "route %s not registered", p)
	}
}
