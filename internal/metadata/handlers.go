package metadata

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
)

// DataSourceHeader reports which source served a list or detail response.
const DataSourceHeader = "X-Data-Source"

const minQueryLength = 2

// Handlers provides HTTP handlers for movie and genre endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the movie and genre routes on the API group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	movies := g.Group("/movies")
	movies.GET("", h.GetMovies)
	movies.GET("/popular", h.GetPopular)
	movies.GET("/top-rated", h.GetTopRated)
	movies.GET("/search", h.Search)
	movies.GET("/discover", h.Discover)
	movies.GET("/:id", h.GetMovie)

	g.GET("/genres", h.GetGenres)
}

// GetMovies lists popular movies.
// GET /api/movies?page=
func (h *Handlers) GetMovies(c echo.Context) error {
	return h.list(c, "Movies retrieved successfully", ListRequest{Category: CategoryPopular})
}

// GetPopular lists popular movies.
// GET /api/movies/popular?page=
func (h *Handlers) GetPopular(c echo.Context) error {
	return h.list(c, "Popular movies retrieved successfully", ListRequest{Category: CategoryPopular})
}

// GetTopRated lists top rated movies.
// GET /api/movies/top-rated?page=
func (h *Handlers) GetTopRated(c echo.Context) error {
	return h.list(c, "Top rated movies retrieved successfully", ListRequest{Category: CategoryTopRated})
}

// Search searches movies by title.
// GET /api/movies/search?q=&page=
func (h *Handlers) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return envelope.NewValidationError("Search query is required")
	}
	if len([]rune(query)) < minQueryLength {
		return envelope.NewValidationError("Search query must be at least 2 characters long")
	}

	return h.list(c, "Search results retrieved successfully", ListRequest{Category: CategorySearch, Query: query})
}

// DiscoverQuery holds the discover filters as received.
type DiscoverQuery struct {
	Query     string  `query:"query" validate:"omitempty,max=200"`
	Genre     string  `query:"genre" validate:"omitempty,genrelist"`
	Year      int     `query:"year" validate:"omitempty,min=1870,max=2100"`
	MinRating float64 `query:"minRating" validate:"min=0,max=10"`
	MaxRating float64 `query:"maxRating" validate:"min=0,max=10"`
	Language  string  `query:"language" validate:"omitempty,len=2,alpha,lowercase"`
	SortBy    string  `query:"sortBy" validate:"omitempty,oneof=popularity.asc popularity.desc release_date.asc release_date.desc primary_release_date.asc primary_release_date.desc vote_average.asc vote_average.desc vote_count.asc vote_count.desc revenue.asc revenue.desc original_title.asc original_title.desc title.asc title.desc"`
}

// Discover lists movies matching the optional filters.
// GET /api/movies/discover?genre=&year=&minRating=&maxRating=&language=&sortBy=&query=&page=
func (h *Handlers) Discover(c echo.Context) error {
	var q DiscoverQuery
	err := echo.QueryParamsBinder(c).
		String("query", &q.Query).
		String("genre", &q.Genre).
		Int("year", &q.Year).
		Float64("minRating", &q.MinRating).
		Float64("maxRating", &q.MaxRating).
		String("language", &q.Language).
		String("sortBy", &q.SortBy).
		BindError()
	if err != nil {
		var bindErr *echo.BindingError
		if errors.As(err, &bindErr) {
			return envelope.NewValidationError("Validation failed", envelope.FieldError{
				Field:   bindErr.Field,
				Message: bindErr.Field + " must be a number",
			})
		}
		return envelope.NewValidationError("Validation failed")
	}

	q.Query = strings.TrimSpace(q.Query)
	if err := c.Validate(&q); err != nil {
		return err
	}

	filters := tmdb.DiscoverFilters{
		Genre:    q.Genre,
		Year:     q.Year,
		Language: q.Language,
		SortBy:   q.SortBy,
		Query:    q.Query,
	}
	if filters.SortBy == "" {
		filters.SortBy = tmdb.DefaultSortBy
	}
	if c.QueryParam("minRating") != "" {
		filters.MinRating = &q.MinRating
	}
	if c.QueryParam("maxRating") != "" {
		filters.MaxRating = &q.MaxRating
	}
	if filters.MinRating != nil && filters.MaxRating != nil && *filters.MinRating > *filters.MaxRating {
		return envelope.NewValidationError("Validation failed", envelope.FieldError{
			Field:   "maxRating",
			Message: "maxRating must be greater than or equal to minRating",
		})
	}

	return h.list(c, "Movies discovered successfully", ListRequest{Category: CategoryDiscover, Filters: filters})
}

// GetMovie returns one movie with credits, videos, similar titles and ratings.
// GET /api/movies/:id
func (h *Handlers) GetMovie(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return envelope.NewValidationError("Invalid movie ID")
	}

	detail, source, err := h.service.GetMovie(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Movie not found").SetInternal(err)
		}
		if errors.Is(err, ErrUpstreamUnavailable) {
			return echo.NewHTTPError(http.StatusBadGateway, "Movie service unavailable").SetInternal(err)
		}
		return err
	}

	c.Response().Header().Set(DataSourceHeader, string(source))
	return c.JSON(http.StatusOK, envelope.Success("Movie details retrieved successfully", detail))
}

// GetGenres returns the genre list.
// GET /api/genres
func (h *Handlers) GetGenres(c echo.Context) error {
	genres, source := h.service.FetchGenres(c.Request().Context())
	c.Response().Header().Set(DataSourceHeader, string(source))
	return c.JSON(http.StatusOK, envelope.Success("Genres retrieved successfully", genres))
}

func (h *Handlers) list(c echo.Context, message string, req ListRequest) error {
	req.Page = pageParam(c)

	movies, source := h.service.ListMovies(c.Request().Context(), req)

	c.Response().Header().Set(DataSourceHeader, string(source))
	return c.JSON(http.StatusOK, envelope.List(message, movies, req.Page))
}

// pageParam reads ?page=, treating missing or invalid values as 1.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
