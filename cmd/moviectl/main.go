// Command moviectl browses the movie API from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/amartyachowdhury/movie-stack/internal/apiclient"
	"github.com/amartyachowdhury/movie-stack/internal/logger"
)

const (
	defaultAPIURL  = "http://localhost:5000/api"
	defaultTimeout = 15 * time.Second
)

const usage = `Usage: moviectl [--api URL] [--timeout D] [-v] <command> [flags] [args]

Commands:
  movies        list movies (popular)
  popular       list popular movies
  top-rated     list top rated movies
  search Q      search movies by title
  discover      list movies matching filters
  movie ID      show one movie
  genres        list genres
  health        check the API
  interactive   search as you type; "#ID" opens a movie, "/refresh" clears the cache
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("moviectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := global.String("api", envOr("MOVIESTACK_API_URL", defaultAPIURL), "API base URL")
	timeout := global.Duration("timeout", defaultTimeout, "request timeout")
	verbose := global.BoolP("verbose", "v", false, "log requests and cache activity to stderr")

	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	opts := []apiclient.Option{apiclient.WithHTTPClient(newHTTPClient(*timeout))}
	if *verbose {
		log := logger.New(logger.Config{Level: "debug", Format: "console", Output: stderr})
		opts = append(opts, apiclient.WithLogger(log.Logger))
	}
	client := apiclient.New(*apiURL, opts...)
	cmd, cmdArgs := global.Arg(0), global.Args()[1:]

	ctx := context.Background()
	err := dispatch(ctx, client, cmd, cmdArgs, stdin, stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "error: %v\n", describe(err))
		return 1
	}
}

func dispatch(ctx context.Context, c *apiclient.Client, cmd string, args []string, stdin io.Reader, stdout io.Writer) error {
	switch cmd {
	case "movies", "popular", "top-rated":
		return listCommand(ctx, c, cmd, args, stdout)
	case "search":
		return searchCommand(ctx, c, args, stdout)
	case "discover":
		return discoverCommand(ctx, c, args, stdout)
	case "movie":
		return movieCommand(ctx, c, args, stdout)
	case "genres":
		return genresCommand(ctx, c, stdout)
	case "health":
		return healthCommand(ctx, c, stdout)
	case "interactive":
		return interactive(ctx, c, stdin, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func describe(err error) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if len(apiErr.Errors) == 0 {
		return apiErr.Message
	}
	parts := make([]string, 0, len(apiErr.Errors))
	for _, fe := range apiErr.Errors {
		parts = append(parts, fe.Message)
	}
	return apiErr.Message + ": " + strings.Join(parts, "; ")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: movie takes exactly one ID", errUsage)
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid movie ID %q", errUsage, args[0])
	}
	return id, nil
}
