package metadata

import (
	"strconv"
	"strings"

	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
)

const (
	defaultRuntime = 120
	defaultStatus  = "Released"

	maxCast    = 10
	maxCrew    = 10
	maxSimilar = 5

	siteYouTube = "YouTube"
)

// NormalizeListItem maps a primary provider list record to the canonical Movie.
func NormalizeListItem(r tmdb.MovieResult) Movie {
	return Movie{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		Genres:           joinGenreIDs(r.GenreIDs, r.Genres),
		ReleaseDate:      releaseDate(r.ReleaseDate),
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		Adult:            boolToInt(r.Adult),
		OriginalLanguage: r.OriginalLanguage,
		Video:            boolToInt(r.Video),
	}
}

// NormalizeList maps a list of records, never returning nil.
func NormalizeList(records []tmdb.MovieResult) []Movie {
	out := make([]Movie, 0, len(records))
	for _, r := range records {
		out = append(out, NormalizeListItem(r))
	}
	return out
}

// NormalizeDetail maps a primary provider detail record to the canonical
// MovieDetail, filling defaults for every absent optional field.
func NormalizeDetail(d *tmdb.MovieDetails) MovieDetail {
	genres := detailGenres(d.Genres, d.GenreIDs)
	genreIDs := make([]int, 0, len(genres))
	for _, g := range genres {
		genreIDs = append(genreIDs, g.ID)
	}

	runtime := d.Runtime
	if runtime <= 0 {
		runtime = defaultRuntime
	}
	status := d.Status
	if status == "" {
		status = defaultStatus
	}

	var (
		cast    []tmdb.CastMember
		crew    []tmdb.CrewMember
		videos  []tmdb.Video
		similar []tmdb.MovieResult
	)
	if d.Credits != nil {
		cast = d.Credits.Cast
		crew = d.Credits.Crew
	}
	if d.Videos != nil {
		videos = d.Videos.Results
	}
	if d.Similar != nil {
		similar = d.Similar.Results
	}

	return MovieDetail{
		ID:                  d.ID,
		Title:               d.Title,
		OriginalTitle:       d.OriginalTitle,
		Overview:            d.Overview,
		Genres:              genres,
		GenreIDs:            genreIDs,
		ReleaseDate:         releaseDate(d.ReleaseDate),
		PosterPath:          d.PosterPath,
		BackdropPath:        d.BackdropPath,
		VoteAverage:         d.VoteAverage,
		VoteCount:           d.VoteCount,
		Popularity:          d.Popularity,
		Adult:               boolToInt(d.Adult),
		OriginalLanguage:    d.OriginalLanguage,
		Video:               boolToInt(d.Video),
		Runtime:             runtime,
		Budget:              d.Budget,
		Revenue:             d.Revenue,
		Status:              status,
		Tagline:             d.Tagline,
		Homepage:            d.Homepage,
		ImdbID:              d.ImdbID,
		ProductionCompanies: normalizeCompanies(d.ProductionCompanies),
		ProductionCountries: normalizeCountries(d.ProductionCountries),
		SpokenLanguages:     normalizeLanguages(d.SpokenLanguages),
		Cast:                normalizeCast(cast),
		Crew:                normalizeCrew(crew),
		SimilarMovies:       NormalizeList(truncate(similar, maxSimilar)),
		Videos:              partitionVideos(videos),
	}
}

// joinGenreIDs renders genres as "28,12". Ids win when both shapes are present.
func joinGenreIDs(ids []int, genres []tmdb.Genre) string {
	parts := make([]string, 0, max(len(ids), len(genres)))
	if len(ids) > 0 {
		for _, id := range ids {
			parts = append(parts, strconv.Itoa(id))
		}
	} else {
		for _, g := range genres {
			parts = append(parts, strconv.Itoa(g.ID))
		}
	}
	return strings.Join(parts, ",")
}

// detailGenres keeps genre objects as-is, or resolves bare ids through the
// static genre table when only ids are known.
func detailGenres(genres []tmdb.Genre, ids []int) []Genre {
	if len(genres) > 0 {
		out := make([]Genre, 0, len(genres))
		for _, g := range genres {
			out = append(out, Genre{ID: g.ID, Name: g.Name})
		}
		return out
	}

	out := make([]Genre, 0, len(ids))
	for _, id := range ids {
		name, _ := GenreName(id)
		out = append(out, Genre{ID: id, Name: name})
	}
	return out
}

func releaseDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func normalizeCompanies(in []tmdb.ProductionCompany) []ProductionCompany {
	out := make([]ProductionCompany, 0, len(in))
	for _, c := range in {
		out = append(out, ProductionCompany{
			ID:            c.ID,
			Name:          c.Name,
			LogoPath:      c.LogoPath,
			OriginCountry: c.OriginCountry,
		})
	}
	return out
}

func normalizeCountries(in []tmdb.ProductionCountry) []ProductionCountry {
	out := make([]ProductionCountry, 0, len(in))
	for _, c := range in {
		out = append(out, ProductionCountry{Code: c.ISO31661, Name: c.Name})
	}
	return out
}

func normalizeLanguages(in []tmdb.SpokenLanguage) []SpokenLanguage {
	out := make([]SpokenLanguage, 0, len(in))
	for _, l := range in {
		out = append(out, SpokenLanguage{Code: l.ISO6391, Name: l.Name, EnglishName: l.EnglishName})
	}
	return out
}

func normalizeCast(in []tmdb.CastMember) []CastMember {
	in = truncate(in, maxCast)
	out := make([]CastMember, 0, len(in))
	for _, c := range in {
		out = append(out, CastMember{
			ID:          NumericPersonID(c.ID),
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: c.ProfilePath,
			Order:       c.Order,
		})
	}
	return out
}

func normalizeCrew(in []tmdb.CrewMember) []CrewMember {
	in = truncate(in, maxCrew)
	out := make([]CrewMember, 0, len(in))
	for _, c := range in {
		out = append(out, CrewMember{
			ID:          NumericPersonID(c.ID),
			Name:        c.Name,
			Job:         c.Job,
			Department:  c.Department,
			ProfilePath: c.ProfilePath,
		})
	}
	return out
}

// partitionVideos splits official YouTube videos by type. The primary
// trailer is the first trailer, else teaser, else clip.
func partitionVideos(in []tmdb.Video) Videos {
	v := Videos{
		All:      make([]Video, 0, len(in)),
		Trailers: []Video{},
		Teasers:  []Video{},
		Clips:    []Video{},
	}

	for _, raw := range in {
		video := Video{
			ID:          raw.ID,
			Key:         raw.Key,
			Name:        raw.Name,
			Site:        raw.Site,
			Type:        raw.Type,
			Size:        raw.Size,
			Official:    raw.Official,
			PublishedAt: raw.PublishedAt,
		}
		v.All = append(v.All, video)

		if raw.Site != siteYouTube || !raw.Official {
			continue
		}
		switch raw.Type {
		case "Trailer":
			v.Trailers = append(v.Trailers, video)
		case "Teaser":
			v.Teasers = append(v.Teasers, video)
		case "Clip":
			v.Clips = append(v.Clips, video)
		}
	}

	for _, group := range [][]Video{v.Trailers, v.Teasers, v.Clips} {
		if len(group) > 0 {
			primary := group[0]
			v.PrimaryTrailer = &primary
			break
		}
	}
	return v
}
