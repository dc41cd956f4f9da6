package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/amartyachowdhury/movie-stack/internal/metadata/omdb"
)

const (
	kindPercentage = "percentage"
	kindRating     = "rating"

	defaultMetacriticMax = 100
	placeholderCharacter = "N/A"
)

// MergeRatings folds a secondary provider record into a detail. A nil record
// returns the detail unchanged. Populated primary fields are never replaced
// by empty or placeholder secondary values, and voteAverage/voteCount are
// never touched.
func MergeRatings(detail MovieDetail, rec *omdb.Response) MovieDetail {
	if rec == nil {
		return detail
	}

	merged := detail
	merged.Ratings = buildRatings(rec)
	merged.Cast = mergeCast(detail.Cast, rec.Actors)
	merged.Crew = mergeCrew(detail.Crew, rec.Director, rec.Writer)
	merged.Overview = longerText(detail.Overview, value(rec.Plot))

	genreNames := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genreNames = append(genreNames, g.Name)
	}
	languageNames := make([]string, 0, len(detail.SpokenLanguages))
	for _, l := range detail.SpokenLanguages {
		languageNames = append(languageNames, l.Name)
	}
	countryNames := make([]string, 0, len(detail.ProductionCountries))
	for _, c := range detail.ProductionCountries {
		countryNames = append(countryNames, c.Name)
	}

	merged.Enrichment = &Enrichment{
		Source:              "omdb",
		RuntimeDisplay:      runtimeDisplay(detail.Runtime, rec.Runtime),
		Genres:              mergeNames(genreNames, rec.Genre),
		SpokenLanguages:     mergeNames(languageNames, rec.Language),
		ProductionCountries: mergeNames(countryNames, rec.Country),
	}

	return merged
}

func buildRatings(rec *omdb.Response) *Ratings {
	r := &Ratings{
		Rated:     value(rec.Rated),
		Released:  value(rec.Released),
		Awards:    value(rec.Awards),
		BoxOffice: value(rec.BoxOffice),
		IMDbVotes: parseVotes(rec.ImdbVotes),
	}

	if n, err := strconv.Atoi(value(rec.Metascore)); err == nil {
		r.Metascore = &n
	}
	if f, err := strconv.ParseFloat(value(rec.ImdbRating), 64); err == nil {
		r.IMDbRating = &f
	}

	for _, rating := range rec.Ratings {
		switch rating.Source {
		case omdb.SourceIMDb:
			if score, ok := parseLeadingFloat(rating.Value); ok {
				r.IMDb = &IMDbRating{Rating: score, Votes: r.IMDbVotes}
			}
		case omdb.SourceRottenTomatoes:
			if score, ok := parseLeadingFloat(rating.Value); ok {
				kind := kindRating
				if strings.Contains(rating.Value, "%") {
					kind = kindPercentage
				}
				r.RottenTomatoes = &RottenTomatoesRating{Score: int(score), Kind: kind}
			}
		case omdb.SourceMetacritic:
			r.Metacritic = parseMetacritic(rating.Value)
		}
	}

	return r
}

// parseLeadingFloat reads the number before any "/" or "%": "8.8/10" is 8.8.
func parseLeadingFloat(s string) (float64, bool) {
	head, _, _ := strings.Cut(s, "/")
	head = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(head), "%"))
	f, err := strconv.ParseFloat(head, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseMetacritic(s string) *MetacriticRating {
	scorePart, maxPart, _ := strings.Cut(s, "/")
	score, err := strconv.Atoi(strings.TrimSpace(scorePart))
	if err != nil {
		return nil
	}
	maxScore, err := strconv.Atoi(strings.TrimSpace(maxPart))
	if err != nil || maxScore <= 0 {
		maxScore = defaultMetacriticMax
	}
	return &MetacriticRating{Score: score, MaxScore: maxScore}
}

// parseVotes reads "2,345,678" as 2345678.
func parseVotes(s string) *int {
	n, err := strconv.Atoi(strings.ReplaceAll(value(s), ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

func mergeCast(cast []CastMember, actors string) []CastMember {
	if len(cast) > 0 {
		return cast
	}

	names := splitList(actors)
	out := make([]CastMember, 0, len(names))
	for i, name := range names {
		out = append(out, CastMember{
			ID:        PersonID(fmt.Sprintf("omdb-%d", i)),
			Name:      name,
			Character: placeholderCharacter,
			Order:     i,
		})
	}
	return out
}

func mergeCrew(crew []CrewMember, director, writer string) []CrewMember {
	out := make([]CrewMember, len(crew), len(crew)+2)
	copy(out, crew)

	add := func(job, department, name string) {
		name = value(name)
		if name == "" {
			return
		}
		for _, c := range out {
			if c.Job == job && c.Name == name {
				return
			}
		}
		out = append(out, CrewMember{
			ID:         PersonID("omdb-" + strings.ToLower(job)),
			Name:       name,
			Job:        job,
			Department: department,
		})
	}

	add("Director", "Directing", director)
	add("Writer", "Writing", writer)
	return out
}

// longerText prefers the secondary text only when it has strictly more characters.
func longerText(primary, secondary string) string {
	if utf8.RuneCountInString(secondary) > utf8.RuneCountInString(primary) {
		return secondary
	}
	return primary
}

func runtimeDisplay(minutes int, secondary string) string {
	if v := value(secondary); v != "" {
		return v
	}
	return fmt.Sprintf("%d min", minutes)
}

// mergeNames appends the comma-separated secondary names to the primary ones,
// skipping blanks and exact duplicates.
func mergeNames(primary []string, secondary string) []string {
	out := make([]string, 0, len(primary))
	seen := make(map[string]struct{}, len(primary))

	appendName := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, name := range primary {
		appendName(name)
	}
	for _, name := range splitList(secondary) {
		appendName(name)
	}
	return out
}

func splitList(s string) []string {
	s = value(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// value maps OMDb's "N/A" placeholder to "".
func value(s string) string {
	s = strings.TrimSpace(s)
	if s == omdb.NotAvailable {
		return ""
	}
	return s
}
