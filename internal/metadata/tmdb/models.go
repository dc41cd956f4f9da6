package tmdb

// ListResponse is the paged envelope returned by the popular, top rated,
// search and discover endpoints.
type ListResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie as it appears in list responses. Some endpoints
// send genre_ids, others genres; both are kept as optional fields.
type MovieResult struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	ReleaseDate      *string `json:"release_date,omitempty"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	Video            bool    `json:"video"`
}

// MovieDetails is the detail endpoint record, requested with credits,
// videos and similar appended.
type MovieDetails struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	Overview            string              `json:"overview"`
	GenreIDs            []int               `json:"genre_ids,omitempty"`
	Genres              []Genre             `json:"genres,omitempty"`
	ReleaseDate         *string             `json:"release_date,omitempty"`
	PosterPath          *string             `json:"poster_path"`
	BackdropPath        *string             `json:"backdrop_path"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	Popularity          float64             `json:"popularity"`
	Adult               bool                `json:"adult"`
	OriginalLanguage    string              `json:"original_language"`
	Video               bool                `json:"video"`
	Runtime             int                 `json:"runtime,omitempty"`
	Budget              int64               `json:"budget,omitempty"`
	Revenue             int64               `json:"revenue,omitempty"`
	Status              string              `json:"status,omitempty"`
	Tagline             string              `json:"tagline,omitempty"`
	Homepage            string              `json:"homepage,omitempty"`
	ImdbID              string              `json:"imdb_id,omitempty"`
	ProductionCompanies []ProductionCompany `json:"production_companies,omitempty"`
	ProductionCountries []ProductionCountry `json:"production_countries,omitempty"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages,omitempty"`
	Credits             *Credits            `json:"credits,omitempty"`
	Videos              *VideoList          `json:"videos,omitempty"`
	Similar             *ListResponse       `json:"similar,omitempty"`
}

// ApplyResult overwrites the list-level fields of d with a list record for
// the same movie. Detail-only fields are kept. Genre objects are replaced
// only when the list record carries them.
func (d *MovieDetails) ApplyResult(r MovieResult) {
	d.Title = r.Title
	d.OriginalTitle = r.OriginalTitle
	d.Overview = r.Overview
	if len(r.GenreIDs) > 0 {
		d.GenreIDs = r.GenreIDs
	}
	if len(r.Genres) > 0 {
		d.Genres = r.Genres
	}
	d.ReleaseDate = r.ReleaseDate
	d.PosterPath = r.PosterPath
	d.BackdropPath = r.BackdropPath
	d.VoteAverage = r.VoteAverage
	d.VoteCount = r.VoteCount
	d.Popularity = r.Popularity
	d.Adult = r.Adult
	d.OriginalLanguage = r.OriginalLanguage
	d.Video = r.Video
}

// DetailsFromResult widens a list record into a detail record with every
// detail-only field absent.
func DetailsFromResult(r MovieResult) *MovieDetails {
	return &MovieDetails{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		GenreIDs:         r.GenreIDs,
		Genres:           r.Genres,
		ReleaseDate:      r.ReleaseDate,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		Adult:            r.Adult,
		OriginalLanguage: r.OriginalLanguage,
		Video:            r.Video,
	}
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the response from /genre/movie/list.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// ProductionCompany represents a production company.
type ProductionCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// ProductionCountry represents a production country.
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// SpokenLanguage represents a spoken language.
type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name,omitempty"`
}

// Credits contains cast and crew information.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember represents an actor.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
	CreditID    string  `json:"credit_id,omitempty"`
}

// CrewMember represents a crew member.
type CrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath *string `json:"profile_path"`
	CreditID    string  `json:"credit_id,omitempty"`
}

// VideoList is the appended videos block.
type VideoList struct {
	Results []Video `json:"results"`
}

// Video represents a trailer, teaser, clip or other video.
type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Size        int    `json:"size"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at,omitempty"`
	ISO6391     string `json:"iso_639_1,omitempty"`
}

// ErrorResponse is the error body TMDB sends with non-2xx statuses.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
