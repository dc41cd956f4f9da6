package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/amartyachowdhury/movie-stack/internal/apiclient"
)

// syncWriter serializes output from search and detail callbacks.
type syncWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

const refreshCommand = "/refresh"

// interactive treats every input line as the current search box contents.
// A line of the form "#ID" opens that movie, replacing any open one, and
// "/refresh" drops every cached response.
func interactive(ctx context.Context, c *apiclient.Client, in io.Reader, out io.Writer) error {
	w := &syncWriter{out: out}

	session := apiclient.NewSearchSession(apiclient.SearchWith(c), func(r apiclient.SearchResult) {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "search %q failed: %s\n", r.Query, describe(r.Err))
		case r.Query == "":
			fmt.Fprintln(w, "search cleared")
		default:
			fmt.Fprintf(w, "results for %q:\n", r.Query)
			_ = printMovies(w, &apiclient.MoviePage{Items: r.Movies})
		}
	}, apiclient.WithSessionContext(ctx))

	var loader *apiclient.DetailLoader
	closeLoader := func() {
		if loader != nil {
			loader.Close()
			loader.Wait()
		}
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == refreshCommand {
			c.Cache().Clear()
			fmt.Fprintln(w, "cache cleared")
			continue
		}

		if strings.HasPrefix(line, "#") {
			id, err := parseID([]string{line})
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			closeLoader()
			loader = apiclient.NewDetailLoader(c, func(r apiclient.DetailResult) {
				if r.Err != nil {
					fmt.Fprintf(w, "movie %d: %s\n", r.ID, describe(r.Err))
					return
				}
				_ = printDetail(w, r.Detail)
			})
			loader.Load(ctx, id)
			continue
		}

		session.Input(line)
	}

	session.Flush()
	session.Close()
	if loader != nil {
		loader.Wait()
	}

	return scanner.Err()
}
