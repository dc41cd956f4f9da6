package omdb

// Response is the raw OMDb title record. Every value is a string as sent by
// the provider, with "N/A" standing in for missing data.
type Response struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings"`
	Metascore  string   `json:"Metascore"`
	ImdbRating string   `json:"imdbRating"`
	ImdbVotes  string   `json:"imdbVotes"`
	ImdbID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	DVD        string   `json:"DVD,omitempty"`
	BoxOffice  string   `json:"BoxOffice,omitempty"`
	Production string   `json:"Production,omitempty"`
	Website    string   `json:"Website,omitempty"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error,omitempty"`
}

// Rating is one entry of the Ratings list. Value formats depend on Source:
// "8.8/10", "79%", "66/100".
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Known rating sources.
const (
	SourceIMDb           = "Internet Movie Database"
	SourceRottenTomatoes = "Rotten Tomatoes"
	SourceMetacritic     = "Metacritic"
)

// NotAvailable is OMDb's placeholder for missing values.
const NotAvailable = "N/A"
