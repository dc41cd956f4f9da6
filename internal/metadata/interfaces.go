package metadata

import (
	"context"

	"github.com/amartyachowdhury/movie-stack/internal/database"
	"github.com/amartyachowdhury/movie-stack/internal/metadata/omdb"
	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
)

// TMDBClient defines the primary provider operations.
type TMDBClient interface {
	Name() string
	IsConfigured() bool
	GetPopular(ctx context.Context, page int) ([]tmdb.MovieResult, error)
	GetTopRated(ctx context.Context, page int) ([]tmdb.MovieResult, error)
	SearchMovies(ctx context.Context, query string, page int) ([]tmdb.MovieResult, error)
	DiscoverMovies(ctx context.Context, filters tmdb.DiscoverFilters, page int) ([]tmdb.MovieResult, error)
	GetMovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	GetGenres(ctx context.Context) ([]tmdb.Genre, error)
}

// OMDBClient defines the secondary ratings provider operations.
type OMDBClient interface {
	Name() string
	IsConfigured() bool
	GetByTitle(ctx context.Context, title string, year int) (*omdb.Response, error)
	GetByIMDbID(ctx context.Context, imdbID string) (*omdb.Response, error)
}

// MirrorStore persists raw primary records for detail fallback.
type MirrorStore interface {
	UpsertListRecords(ctx context.Context, records []database.MirrorRecord) error
	UpsertDetailRecord(ctx context.Context, id int64, title string, raw []byte) error
	Get(ctx context.Context, id int64) (*database.MirrorRecord, error)
}
