package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/amartyachowdhury/movie-stack/internal/apiclient"
	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

const maxCastShown = 5

func year(date *string) string {
	if date == nil || len(*date) < 4 {
		return "----"
	}
	return (*date)[:4]
}

func printMovies(out io.Writer, page *apiclient.MoviePage) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRATING")
	for _, m := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", m.ID, m.Title, year(m.ReleaseDate), m.VoteAverage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := page.Pagination
	_, err := fmt.Fprintf(out, "page %d, %d result(s)\n", p.Page, p.Total)
	return err
}

func printDetail(out io.Writer, d *metadata.MovieDetail) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)  #%d\n", d.Title, year(d.ReleaseDate), d.ID)
	if d.Tagline != "" {
		fmt.Fprintf(&b, "%s\n", d.Tagline)
	}

	runtime := fmt.Sprintf("%d min", d.Runtime)
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}
	if d.Enrichment != nil {
		runtime = d.Enrichment.RuntimeDisplay
		if len(d.Enrichment.Genres) > 0 {
			genres = d.Enrichment.Genres
		}
	}
	fmt.Fprintf(&b, "Runtime: %s | Status: %s | TMDB: %.1f (%d votes)\n", runtime, d.Status, d.VoteAverage, d.VoteCount)
	if len(genres) > 0 {
		fmt.Fprintf(&b, "Genres: %s\n", strings.Join(genres, ", "))
	}

	if r := d.Ratings; r != nil {
		var parts []string
		if r.IMDb != nil {
			parts = append(parts, fmt.Sprintf("IMDb %.1f/10", r.IMDb.Rating))
		}
		if r.RottenTomatoes != nil {
			if r.RottenTomatoes.Kind == "percentage" {
				parts = append(parts, fmt.Sprintf("Rotten Tomatoes %d%%", r.RottenTomatoes.Score))
			} else {
				parts = append(parts, fmt.Sprintf("Rotten Tomatoes %d", r.RottenTomatoes.Score))
			}
		}
		if r.Metacritic != nil {
			parts = append(parts, fmt.Sprintf("Metacritic %d/%d", r.Metacritic.Score, r.Metacritic.MaxScore))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, "Ratings: %s\n", strings.Join(parts, " | "))
		}
	}

	if d.Overview != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Overview)
	}

	if len(d.Cast) > 0 {
		b.WriteString("\nCast:\n")
		for i, c := range d.Cast {
			if i == maxCastShown {
				break
			}
			fmt.Fprintf(&b, "  %s as %s\n", c.Name, c.Character)
		}
	}

	if t := d.Videos.PrimaryTrailer; t != nil {
		fmt.Fprintf(&b, "\nTrailer: https://www.youtube.com/watch?v=%s\n", t.Key)
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func printGenres(out io.Writer, genres []metadata.Genre) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, g := range genres {
		fmt.Fprintf(tw, "%d\t%s\n", g.ID, g.Name)
	}
	return tw.Flush()
}
