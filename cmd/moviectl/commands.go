package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/amartyachowdhury/movie-stack/internal/apiclient"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func pageFlags(name string) (*flag.FlagSet, *int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.IntP("page", "p", 1, "result page")
	return fs, page
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func listCommand(ctx context.Context, c *apiclient.Client, cmd string, args []string, out io.Writer) error {
	fs, page := pageFlags(cmd)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		result *apiclient.MoviePage
		err    error
	)
	switch cmd {
	case "popular":
		result, err = c.PopularMovies(ctx, *page)
	case "top-rated":
		result, err = c.TopRatedMovies(ctx, *page)
	default:
		result, err = c.Movies(ctx, *page)
	}
	if err != nil {
		return err
	}
	return printMovies(out, result)
}

func searchCommand(ctx context.Context, c *apiclient.Client, args []string, out io.Writer) error {
	fs, page := pageFlags("search")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search needs a query", errUsage)
	}

	result, err := c.SearchMovies(ctx, query, *page)
	if err != nil {
		return err
	}
	return printMovies(out, result)
}

func discoverCommand(ctx context.Context, c *apiclient.Client, args []string, out io.Writer) error {
	fs, page := pageFlags("discover")
	genre := fs.String("genre", "", "genre ids, ',' for all of, '|' for any of")
	year := fs.Int("year", 0, "release year")
	minRating := fs.Float64("min-rating", 0, "minimum vote average")
	maxRating := fs.Float64("max-rating", 0, "maximum vote average")
	language := fs.String("language", "", "original language (ISO 639-1)")
	sortBy := fs.String("sort-by", "", "sort order, e.g. vote_average.desc")
	query := fs.String("query", "", "free-text filter")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	opts := apiclient.DiscoverOptions{
		Genre:    *genre,
		Year:     *year,
		Language: *language,
		SortBy:   *sortBy,
		Query:    *query,
	}
	if fs.Changed("min-rating") {
		opts.MinRating = minRating
	}
	if fs.Changed("max-rating") {
		opts.MaxRating = maxRating
	}

	result, err := c.DiscoverMovies(ctx, opts, *page)
	if err != nil {
		return err
	}
	return printMovies(out, result)
}

func movieCommand(ctx context.Context, c *apiclient.Client, args []string, out io.Writer) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	detail, err := c.Movie(ctx, id)
	if err != nil {
		return err
	}
	return printDetail(out, detail)
}

func genresCommand(ctx context.Context, c *apiclient.Client, out io.Writer) error {
	genres, err := c.Genres(ctx)
	if err != nil {
		return err
	}
	return printGenres(out, genres)
}

func healthCommand(ctx context.Context, c *apiclient.Client, out io.Writer) error {
	h, err := c.Health(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "status: %s\nversion: %s\ntmdb configured: %t\nomdb configured: %t\n",
		h.Status, h.Version, h.TMDBConfigured, h.OMDBConfigured)
	return err
}
