package metadata

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Movie is the canonical list-level record. Genres is a comma-joined list
// of genre ids; names are resolved by consumers from the genre table.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"originalTitle"`
	Overview         string  `json:"overview"`
	Genres           string  `json:"genres"`
	ReleaseDate      *string `json:"releaseDate"`
	PosterPath       *string `json:"posterPath"`
	BackdropPath     *string `json:"backdropPath"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int     `json:"voteCount"`
	Popularity       float64 `json:"popularity"`
	Adult            int     `json:"adult"`
	OriginalLanguage string  `json:"originalLanguage"`
	Video            int     `json:"video"`
}

// MovieDetail is the canonical detail record. Unlike Movie, Genres carries
// full {id,name} objects. Every slice is non-nil.
type MovieDetail struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"originalTitle"`
	Overview            string              `json:"overview"`
	Genres              []Genre             `json:"genres"`
	GenreIDs            []int               `json:"genreIds"`
	ReleaseDate         *string             `json:"releaseDate"`
	PosterPath          *string             `json:"posterPath"`
	BackdropPath        *string             `json:"backdropPath"`
	VoteAverage         float64             `json:"voteAverage"`
	VoteCount           int                 `json:"voteCount"`
	Popularity          float64             `json:"popularity"`
	Adult               int                 `json:"adult"`
	OriginalLanguage    string              `json:"originalLanguage"`
	Video               int                 `json:"video"`
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Homepage            string              `json:"homepage"`
	ImdbID              string              `json:"imdbId"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies"`
	ProductionCountries []ProductionCountry `json:"productionCountries"`
	SpokenLanguages     []SpokenLanguage    `json:"spokenLanguages"`
	Cast                []CastMember        `json:"cast"`
	Crew                []CrewMember        `json:"crew"`
	SimilarMovies       []Movie             `json:"similarMovies"`
	Videos              Videos              `json:"videos"`
	Ratings             *Ratings            `json:"ratings,omitempty"`
	Enrichment          *Enrichment         `json:"enrichment,omitempty"`
}

// Genre is a genre id and display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a company credited on a movie.
type ProductionCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logoPath"`
	OriginCountry string  `json:"originCountry"`
}

// ProductionCountry is an ISO 3166-1 country with its display name.
type ProductionCountry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SpokenLanguage is an ISO 639-1 language with its display name.
type SpokenLanguage struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName,omitempty"`
}

// PersonID identifies a cast or crew member. Provider ids are numeric and
// encode as JSON numbers; ids synthesized from ratings data ("omdb-0")
// encode as strings.
type PersonID string

// NumericPersonID formats a provider id.
func NumericPersonID(id int) PersonID {
	return PersonID(strconv.Itoa(id))
}

// MarshalJSON implements json.Marshaler.
func (p PersonID) MarshalJSON() ([]byte, error) {
	if isDigits(string(p)) {
		return []byte(p), nil
	}
	return json.Marshal(string(p))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PersonID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PersonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PersonID(n.String())
	return nil
}

// CastMember is an actor credit.
type CastMember struct {
	ID          PersonID `json:"id"`
	Name        string   `json:"name"`
	Character   string   `json:"character"`
	ProfilePath *string  `json:"profilePath"`
	Order       int      `json:"order"`
}

// CrewMember is a crew credit.
type CrewMember struct {
	ID          PersonID `json:"id"`
	Name        string   `json:"name"`
	Job         string   `json:"job"`
	Department  string   `json:"department"`
	ProfilePath *string  `json:"profilePath"`
}

// Video is a video attached to a movie.
type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Size        int    `json:"size"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"publishedAt"`
}

// Videos holds every video plus the official YouTube trailers, teasers and
// clips in upstream order.
type Videos struct {
	All            []Video `json:"all"`
	Trailers       []Video `json:"trailers"`
	Teasers        []Video `json:"teasers"`
	Clips          []Video `json:"clips"`
	PrimaryTrailer *Video  `json:"primaryTrailer"`
}

// Ratings is the additive block built from the secondary provider. It never
// replaces voteAverage or voteCount.
type Ratings struct {
	IMDb           *IMDbRating           `json:"imdb,omitempty"`
	RottenTomatoes *RottenTomatoesRating `json:"rottenTomatoes,omitempty"`
	Metacritic     *MetacriticRating     `json:"metacritic,omitempty"`
	Metascore      *int                  `json:"metascore,omitempty"`
	IMDbRating     *float64              `json:"imdbRating,omitempty"`
	IMDbVotes      *int                  `json:"imdbVotes,omitempty"`
	Rated          string                `json:"rated,omitempty"`
	Released       string                `json:"released,omitempty"`
	Awards         string                `json:"awards,omitempty"`
	BoxOffice      string                `json:"boxOffice,omitempty"`
}

// IMDbRating is the IMDb score out of 10.
type IMDbRating struct {
	Rating float64 `json:"rating"`
	Votes  *int    `json:"votes"`
}

// RottenTomatoesRating is the Rotten Tomatoes score. Kind is "percentage"
// for values like "79%", "rating" otherwise.
type RottenTomatoesRating struct {
	Score int    `json:"score"`
	Kind  string `json:"kind"`
}

// MetacriticRating is the Metacritic score.
type MetacriticRating struct {
	Score    int `json:"score"`
	MaxScore int `json:"maxScore"`
}

// Enrichment holds display values merged from both providers.
type Enrichment struct {
	Source              string   `json:"source"`
	RuntimeDisplay      string   `json:"runtimeDisplay"`
	Genres              []string `json:"genres"`
	SpokenLanguages     []string `json:"spokenLanguages"`
	ProductionCountries []string `json:"productionCountries"`
}
