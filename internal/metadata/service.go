package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/amartyachowdhury/movie-stack/internal/config"
	"github.com/amartyachowdhury/movie-stack/internal/database"
	"github.com/amartyachowdhury/movie-stack/internal/metadata/omdb"
	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
	"github.com/amartyachowdhury/movie-stack/internal/metrics"
)

var (
	ErrNotFound            = errors.New("movie not found")
	ErrUpstreamUnavailable = errors.New("movie provider unavailable")
	ErrTMDBNotConfigured   = errors.New("TMDB is not configured")
)

// Category selects which primary provider list to fetch.
type Category string

const (
	CategoryPopular  Category = "popular"
	CategoryTopRated Category = "topRated"
	CategorySearch   Category = "search"
	CategoryDiscover Category = "discover"
)

// Source reports where a response's data came from.
type Source string

const (
	SourceTMDB   Source = "tmdb"
	SourceSample Source = "sample"
	SourceMirror Source = "mirror"
)

// ListRequest describes one list fetch. Page is passed to the provider as-is.
type ListRequest struct {
	Category Category
	Page     int
	Query    string
	Filters  tmdb.DiscoverFilters
}

// query returns the free-text query carried by the request, if any.
func (r ListRequest) query() string {
	switch r.Category {
	case CategorySearch:
		return r.Query
	case CategoryDiscover:
		return r.Filters.Query
	default:
		return ""
	}
}

// Service fetches movie data from the primary and secondary providers,
// falling back to the mirror table and the built-in sample set.
type Service struct {
	tmdb   TMDBClient
	omdb   OMDBClient
	mirror MirrorStore
	logger zerolog.Logger
}

// NewService creates a metadata service with real API clients. mirror may be nil.
func NewService(cfg config.MetadataConfig, mirror MirrorStore, logger zerolog.Logger) *Service {
	return NewServiceWithClients(
		tmdb.NewClient(cfg.TMDB, logger),
		omdb.NewClient(cfg.OMDB, logger),
		mirror,
		logger,
	)
}

// NewServiceWithClients creates a metadata service with custom clients (for testing).
func NewServiceWithClients(tmdbClient TMDBClient, omdbClient OMDBClient, mirror MirrorStore, logger zerolog.Logger) *Service {
	return &Service{
		tmdb:   tmdbClient,
		omdb:   omdbClient,
		mirror: mirror,
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

// TMDBConfigured reports whether the primary provider has credentials.
func (s *Service) TMDBConfigured() bool {
	return s.tmdb != nil && s.tmdb.IsConfigured()
}

// OMDBConfigured reports whether the secondary provider has credentials.
func (s *Service) OMDBConfigured() bool {
	return s.omdb != nil && s.omdb.IsConfigured()
}

// FetchList returns raw list records for the request. It never fails: without
// credentials, or when the provider errors, the sample set is returned.
func (s *Service) FetchList(ctx context.Context, req ListRequest) ([]tmdb.MovieResult, Source) {
	op := string(req.Category)

	if !s.TMDBConfigured() {
		s.logger.Warn().Str("category", op).Msg("No API key available, returning sample movies")
		metrics.RecordUpstream("tmdb", op, metrics.OutcomeSkipped, 0)
		metrics.RecordFallback(op, string(SourceSample))
		return SampleMovies(), SourceSample
	}

	start := time.Now()
	records, err := s.fetchList(ctx, req)
	if err != nil {
		metrics.RecordUpstream("tmdb", op, metrics.OutcomeError, time.Since(start))
		metrics.RecordFallback(op, string(SourceSample))
		s.logger.Error().Err(err).
			Str("category", op).
			Int("page", req.Page).
			Str("query", req.query()).
			Msg("Error fetching movies, returning sample movies")
		return SampleMovies(), SourceSample
	}
	metrics.RecordUpstream("tmdb", op, metrics.OutcomeSuccess, time.Since(start))

	s.logger.Info().
		Str("category", op).
		Int("page", req.Page).
		Int("count", len(records)).
		Msg("Fetched movies")

	s.mirrorList(ctx, records)
	return records, SourceTMDB
}

func (s *Service) fetchList(ctx context.Context, req ListRequest) ([]tmdb.MovieResult, error) {
	switch req.Category {
	case CategoryPopular, "":
		return s.tmdb.GetPopular(ctx, req.Page)
	case CategoryTopRated:
		return s.tmdb.GetTopRated(ctx, req.Page)
	case CategorySearch:
		return s.tmdb.SearchMovies(ctx, req.Query, req.Page)
	case CategoryDiscover:
		return s.tmdb.DiscoverMovies(ctx, req.Filters, req.Page)
	default:
		return nil, fmt.Errorf("unknown list category %q", req.Category)
	}
}

// FetchDetail returns the raw detail record for id. Without credentials only
// sample ids resolve. On provider failure the mirror and then the sample set
// are consulted, and ErrUpstreamUnavailable wraps the failure when neither
// has the movie. ErrNotFound means the movie is definitively unknown.
func (s *Service) FetchDetail(ctx context.Context, id int) (*tmdb.MovieDetails, Source, error) {
	if !s.TMDBConfigured() {
		s.logger.Warn().Int("movieId", id).Msg("No API key available, returning sample movie details")
		metrics.RecordUpstream("tmdb", "detail", metrics.OutcomeSkipped, 0)
		return s.sampleDetail(id)
	}

	start := time.Now()
	details, err := s.tmdb.GetMovieDetails(ctx, id)
	switch {
	case err == nil:
		metrics.RecordUpstream("tmdb", "detail", metrics.OutcomeSuccess, time.Since(start))
		s.logger.Info().Int("movieId", id).Str("title", details.Title).Msg("Fetched movie details")
		s.mirrorDetail(ctx, details)
		return details, SourceTMDB, nil
	case errors.Is(err, tmdb.ErrMovieNotFound):
		metrics.RecordUpstream("tmdb", "detail", metrics.OutcomeNotFound, time.Since(start))
		return nil, "", ErrNotFound
	}

	metrics.RecordUpstream("tmdb", "detail", metrics.OutcomeError, time.Since(start))
	s.logger.Error().Err(err).Int("movieId", id).Msg("Error fetching movie details")

	if details, ok := s.mirroredDetail(ctx, id); ok {
		metrics.RecordFallback("detail", string(SourceMirror))
		return details, SourceMirror, nil
	}
	if sample, ok := SampleMovie(id); ok {
		metrics.RecordFallback("detail", string(SourceSample))
		return tmdb.DetailsFromResult(sample), SourceSample, nil
	}
	return nil, "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

func (s *Service) sampleDetail(id int) (*tmdb.MovieDetails, Source, error) {
	sample, ok := SampleMovie(id)
	if !ok {
		return nil, "", ErrNotFound
	}
	metrics.RecordFallback("detail", string(SourceSample))
	return tmdb.DetailsFromResult(sample), SourceSample, nil
}

// FetchGenres returns the provider's genre list, or the static table.
func (s *Service) FetchGenres(ctx context.Context) ([]Genre, Source) {
	if !s.TMDBConfigured() {
		s.logger.Warn().Msg("No API key available, returning sample genres")
		metrics.RecordUpstream("tmdb", "genres", metrics.OutcomeSkipped, 0)
		metrics.RecordFallback("genres", string(SourceSample))
		return SampleGenres(), SourceSample
	}

	start := time.Now()
	raw, err := s.tmdb.GetGenres(ctx)
	if err != nil {
		metrics.RecordUpstream("tmdb", "genres", metrics.OutcomeError, time.Since(start))
		metrics.RecordFallback("genres", string(SourceSample))
		s.logger.Error().Err(err).Msg("Error fetching genres, returning sample genres")
		return SampleGenres(), SourceSample
	}
	metrics.RecordUpstream("tmdb", "genres", metrics.OutcomeSuccess, time.Since(start))

	genres := make([]Genre, 0, len(raw))
	for _, g := range raw {
		genres = append(genres, Genre{ID: g.ID, Name: g.Name})
	}
	return genres, SourceTMDB
}

// FetchRatings looks up the secondary provider record, by IMDb id when one
// is known and by title and year otherwise. It returns nil, never an error,
// when the provider is unconfigured, has no match or fails.
func (s *Service) FetchRatings(ctx context.Context, title string, year int, imdbID string) *omdb.Response {
	if !s.OMDBConfigured() {
		metrics.RecordUpstream("omdb", "ratings", metrics.OutcomeSkipped, 0)
		return nil
	}

	start := time.Now()
	var (
		rec *omdb.Response
		err error
	)
	if imdbID != "" {
		rec, err = s.omdb.GetByIMDbID(ctx, imdbID)
	}
	if imdbID == "" || errors.Is(err, omdb.ErrNotFound) {
		rec, err = s.omdb.GetByTitle(ctx, title, year)
	}

	switch {
	case err == nil:
		metrics.RecordUpstream("omdb", "ratings", metrics.OutcomeSuccess, time.Since(start))
		return rec
	case errors.Is(err, omdb.ErrNotFound):
		metrics.RecordUpstream("omdb", "ratings", metrics.OutcomeNotFound, time.Since(start))
		s.logger.Warn().Str("title", title).Int("year", year).Str("imdbId", imdbID).Msg("OMDb movie not found")
	default:
		metrics.RecordUpstream("omdb", "ratings", metrics.OutcomeError, time.Since(start))
		s.logger.Error().Err(err).Str("title", title).Int("year", year).Msg("Error fetching OMDb movie data")
	}
	return nil
}

// ListMovies fetches and normalizes a list. Sample data served for a text
// query is narrowed to matching titles.
func (s *Service) ListMovies(ctx context.Context, req ListRequest) ([]Movie, Source) {
	records, source := s.FetchList(ctx, req)
	if source == SourceSample {
		records = FilterByTitle(records, req.query())
	}
	return NormalizeList(records), source
}

// GetMovie fetches, normalizes and enriches a movie detail.
func (s *Service) GetMovie(ctx context.Context, id int) (*MovieDetail, Source, error) {
	raw, source, err := s.FetchDetail(ctx, id)
	if err != nil {
		return nil, source, err
	}

	detail := NormalizeDetail(raw)
	rec := s.FetchRatings(ctx, detail.Title, releaseYear(detail.ReleaseDate), detail.ImdbID)
	detail = MergeRatings(detail, rec)
	return &detail, source, nil
}

// WarmMirror copies the first pages of the popular list into the mirror.
func (s *Service) WarmMirror(ctx context.Context, pages int) (int, error) {
	if s.mirror == nil {
		return 0, nil
	}
	if !s.TMDBConfigured() {
		return 0, ErrTMDBNotConfigured
	}

	total := 0
	for page := 1; page <= pages; page++ {
		records, err := s.tmdb.GetPopular(ctx, page)
		if err != nil {
			return total, fmt.Errorf("failed to fetch popular page %d: %w", page, err)
		}
		if err := s.writeMirrorList(ctx, records); err != nil {
			return total, err
		}
		total += len(records)
	}
	return total, nil
}

func (s *Service) mirrorList(ctx context.Context, records []tmdb.MovieResult) {
	if s.mirror == nil || len(records) == 0 {
		return
	}
	if err := s.writeMirrorList(ctx, records); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to mirror movie list")
	}
}

func (s *Service) writeMirrorList(ctx context.Context, records []tmdb.MovieResult) error {
	rows := make([]database.MirrorRecord, 0, len(records))
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode movie %d: %w", r.ID, err)
		}
		rows = append(rows, database.MirrorRecord{ID: int64(r.ID), Title: r.Title, ListRecord: raw})
	}

	err := s.mirror.UpsertListRecords(ctx, rows)
	metrics.RecordMirror("write_list", err)
	return err
}

func (s *Service) mirrorDetail(ctx context.Context, details *tmdb.MovieDetails) {
	if s.mirror == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn().Err(err).Int("movieId", details.ID).Msg("Failed to encode movie details for mirror")
		return
	}

	err = s.mirror.UpsertDetailRecord(ctx, int64(details.ID), details.Title, raw)
	metrics.RecordMirror("write_detail", err)
	if err != nil {
		s.logger.Warn().Err(err).Int("movieId", details.ID).Msg("Failed to mirror movie details")
	}
}

func (s *Service) mirroredDetail(ctx context.Context, id int) (*tmdb.MovieDetails, bool) {
	if s.mirror == nil {
		return nil, false
	}

	rec, err := s.mirror.Get(ctx, int64(id))
	if errors.Is(err, database.ErrMirrorMiss) {
		metrics.RecordMirror("read", nil)
		return nil, false
	}
	metrics.RecordMirror("read", err)
	if err != nil {
		s.logger.Warn().Err(err).Int("movieId", id).Msg("Failed to read mirror")
		return nil, false
	}

	var list *tmdb.MovieResult
	if len(rec.ListRecord) > 0 {
		var result tmdb.MovieResult
		if err := json.Unmarshal(rec.ListRecord, &result); err == nil {
			list = &result
		}
	}

	if rec.HasDetail() {
		var details tmdb.MovieDetails
		if err := json.Unmarshal(rec.DetailRecord, &details); err == nil {
			// a list fetch after the detail fetch carries fresher list-level fields
			if list != nil && rec.ListIsNewer() {
				details.ApplyResult(*list)
			}
			s.logger.Info().Int("movieId", id).Time("mirroredAt", rec.UpdatedAt).Msg("Serving movie details from mirror")
			return &details, true
		}
	}
	if list != nil {
		s.logger.Info().Int("movieId", id).Time("mirroredAt", rec.UpdatedAt).Msg("Serving mirrored list record as movie details")
		return tmdb.DetailsFromResult(*list), true
	}
	return nil, false
}

// releaseYear extracts the year from a YYYY-MM-DD date, or 0.
func releaseYear(date *string) int {
	if date == nil || len(*date) < 4 {
		return 0
	}
	year, err := strconv.Atoi((*date)[:4])
	if err != nil {
		return 0
	}
	return year
}
