package metadata

import (
	"strings"

	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
)

func strPtr(s string) *string { return &s }

// SampleMovies returns the fixed records served when the primary provider
// has no credentials or fails. A fresh slice is returned on every call.
func SampleMovies() []tmdb.MovieResult {
	return []tmdb.MovieResult{
		{
			ID:               550,
			Title:            "Fight Club",
			OriginalTitle:    "Fight Club",
			Overview:         "A ticking-time-bomb insomniac and a slippery soap salesman channel primal male aggression into a shocking new form of therapy.",
			GenreIDs:         []int{18},
			ReleaseDate:      strPtr("1999-10-15"),
			PosterPath:       strPtr("/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"),
			BackdropPath:     strPtr("/87hTDiay2N2qWyX4Dx7d0T6B9Y.jpg"),
			VoteAverage:      8.4,
			VoteCount:        26280,
			Popularity:       61.42,
			OriginalLanguage: "en",
		},
		{
			ID:               13,
			Title:            "Forrest Gump",
			OriginalTitle:    "Forrest Gump",
			Overview:         "A man with a low IQ has accomplished great things in his life and been present during significant historic events.",
			GenreIDs:         []int{35, 18, 10749},
			ReleaseDate:      strPtr("1994-06-23"),
			PosterPath:       strPtr("/arw2vcBveWOVZr6pxd9XTd1TdQa.jpg"),
			BackdropPath:     strPtr("/7c9UVPPiTPltouxRVY6N9uugaVA.jpg"),
			VoteAverage:      8.5,
			VoteCount:        24593,
			Popularity:       61.42,
			OriginalLanguage: "en",
		},
		{
			ID:               238,
			Title:            "The Godfather",
			OriginalTitle:    "The Godfather",
			Overview:         "Spanning the years 1945 to 1955, a chronicle of the fictional Italian-American Corleone crime family.",
			GenreIDs:         []int{18, 80},
			ReleaseDate:      strPtr("1972-03-14"),
			PosterPath:       strPtr("/3bhkrj58Vtu7enYsRolD1fZdja1.jpg"),
			BackdropPath:     strPtr("/tmU7GeKVybMWFButWEGl2M4GeiP.jpg"),
			VoteAverage:      8.7,
			VoteCount:        17519,
			Popularity:       61.42,
			OriginalLanguage: "en",
		},
	}
}

// SampleMovie returns the sample record with the given id.
func SampleMovie(id int) (tmdb.MovieResult, bool) {
	for _, m := range SampleMovies() {
		if m.ID == id {
			return m, true
		}
	}
	return tmdb.MovieResult{}, false
}

// FilterByTitle keeps the records whose title contains query, ignoring case.
// When nothing matches the input is returned unchanged.
func FilterByTitle(records []tmdb.MovieResult, query string) []tmdb.MovieResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	var matched []tmdb.MovieResult
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), q) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return records
	}
	return matched
}

var sampleGenres = []Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 99, Name: "Documentary"},
	{ID: 18, Name: "Drama"},
	{ID: 10751, Name: "Family"},
	{ID: 14, Name: "Fantasy"},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror"},
	{ID: 10402, Name: "Music"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 10770, Name: "TV Movie"},
	{ID: 53, Name: "Thriller"},
	{ID: 10752, Name: "War"},
	{ID: 37, Name: "Western"},
}

// SampleGenres returns a copy of the static 19-entry genre table.
func SampleGenres() []Genre {
	out := make([]Genre, len(sampleGenres))
	copy(out, sampleGenres)
	return out
}

// GenreName resolves a genre id against the static table.
func GenreName(id int) (string, bool) {
	for _, g := range sampleGenres {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}
