package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amartyachowdhury/movie-stack/internal/metadata/tmdb"
)

func TestNormalizeListItem_Genres(t *testing.T) {
	tests := []struct {
		name   string
		record tmdb.MovieResult
		want   string
	}{
		{"ids", tmdb.MovieResult{GenreIDs: []int{28, 12}}, "28,12"},
		{"objects", tmdb.MovieResult{Genres: []tmdb.Genre{{ID: 28, Name: "Action"}}}, "28"},
		{"ids win over objects", tmdb.MovieResult{GenreIDs: []int{18}, Genres: []tmdb.Genre{{ID: 28, Name: "Action"}}}, "18"},
		{"neither", tmdb.MovieResult{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeListItem(tt.record)
			if got.Genres != tt.want {
				t.Errorf("Genres = %q, want %q", got.Genres, tt.want)
			}
		})
	}
}

func TestNormalizeListItem_Flags(t *testing.T) {
	empty := ""
	got := NormalizeListItem(tmdb.MovieResult{ID: 1, Adult: true, Video: false, ReleaseDate: &empty})

	assert.Equal(t, 1, got.Adult)
	assert.Equal(t, 0, got.Video)
	assert.Nil(t, got.ReleaseDate)
	assert.Nil(t, got.PosterPath)
}

func TestNormalizeList_NeverNil(t *testing.T) {
	got := NormalizeList(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNormalizeDetail_Defaults(t *testing.T) {
	got := NormalizeDetail(&tmdb.MovieDetails{ID: 42, Title: "Bare"})

	assert.Equal(t, 42, got.ID)
	assert.Equal(t, 120, got.Runtime)
	assert.Equal(t, int64(0), got.Budget)
	assert.Equal(t, int64(0), got.Revenue)
	assert.Equal(t, "Released", got.Status)
	assert.Equal(t, "", got.Tagline)
	assert.Equal(t, "", got.Homepage)
	assert.Equal(t, "", got.ImdbID)

	assert.NotNil(t, got.Genres)
	assert.NotNil(t, got.GenreIDs)
	assert.NotNil(t, got.ProductionCompanies)
	assert.NotNil(t, got.ProductionCountries)
	assert.NotNil(t, got.SpokenLanguages)
	assert.NotNil(t, got.Cast)
	assert.NotNil(t, got.Crew)
	assert.NotNil(t, got.SimilarMovies)
	assert.NotNil(t, got.Videos.All)
	assert.NotNil(t, got.Videos.Trailers)
	assert.NotNil(t, got.Videos.Teasers)
	assert.NotNil(t, got.Videos.Clips)
	assert.Nil(t, got.Videos.PrimaryTrailer)
	assert.Nil(t, got.Ratings)
	assert.Nil(t, got.Enrichment)
}

func TestNormalizeDetail_GenreShapes(t *testing.T) {
	fromObjects := NormalizeDetail(&tmdb.MovieDetails{Genres: []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}}})
	assert.Equal(t, []Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}}, fromObjects.Genres)
	assert.Equal(t, []int{18, 80}, fromObjects.GenreIDs)

	fromIDs := NormalizeDetail(&tmdb.MovieDetails{GenreIDs: []int{35, 18, 10749}})
	assert.Equal(t, []Genre{{ID: 35, Name: "Comedy"}, {ID: 18, Name: "Drama"}, {ID: 10749, Name: "Romance"}}, fromIDs.Genres)
	assert.Equal(t, []int{35, 18, 10749}, fromIDs.GenreIDs)
}

func TestNormalizeDetail_Truncation(t *testing.T) {
	d := &tmdb.MovieDetails{
		Credits: &tmdb.Credits{},
		Similar: &tmdb.ListResponse{},
	}
	for i := 0; i < 15; i++ {
		d.Credits.Cast = append(d.Credits.Cast, tmdb.CastMember{ID: i, Name: "Actor"})
		d.Credits.Crew = append(d.Credits.Crew, tmdb.CrewMember{ID: i, Name: "Crew", Job: "Grip"})
		d.Similar.Results = append(d.Similar.Results, tmdb.MovieResult{ID: 1000 + i, GenreIDs: []int{18}})
	}

	got := NormalizeDetail(d)

	assert.Len(t, got.Cast, 10)
	assert.Len(t, got.Crew, 10)
	require.Len(t, got.SimilarMovies, 5)
	assert.Equal(t, PersonID("0"), got.Cast[0].ID)
	assert.Equal(t, 1000, got.SimilarMovies[0].ID)
	assert.Equal(t, "18", got.SimilarMovies[0].Genres)
}

func TestNormalizeDetail_Videos(t *testing.T) {
	tests := []struct {
		name        string
		videos      []tmdb.Video
		wantPrimary string
		wantCounts  [3]int
	}{
		{
			name: "trailer preferred",
			videos: []tmdb.Video{
				{Key: "clip", Type: "Clip", Site: "YouTube", Official: true},
				{Key: "teaser", Type: "Teaser", Site: "YouTube", Official: true},
				{Key: "trailer", Type: "Trailer", Site: "YouTube", Official: true},
			},
			wantPrimary: "trailer",
			wantCounts:  [3]int{1, 1, 1},
		},
		{
			name: "teaser when no official trailer",
			videos: []tmdb.Video{
				{Key: "fan", Type: "Trailer", Site: "YouTube", Official: false},
				{Key: "vimeo", Type: "Trailer", Site: "Vimeo", Official: true},
				{Key: "teaser", Type: "Teaser", Site: "YouTube", Official: true},
			},
			wantPrimary: "teaser",
			wantCounts:  [3]int{0, 1, 0},
		},
		{
			name: "clip last",
			videos: []tmdb.Video{
				{Key: "bts", Type: "Behind the Scenes", Site: "YouTube", Official: true},
				{Key: "clip", Type: "Clip", Site: "YouTube", Official: true},
			},
			wantPrimary: "clip",
			wantCounts:  [3]int{0, 0, 1},
		},
		{
			name: "upstream order kept",
			videos: []tmdb.Video{
				{Key: "first", Type: "Trailer", Site: "YouTube", Official: true},
				{Key: "second", Type: "Trailer", Site: "YouTube", Official: true},
			},
			wantPrimary: "first",
			wantCounts:  [3]int{2, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDetail(&tmdb.MovieDetails{Videos: &tmdb.VideoList{Results: tt.videos}}).Videos

			assert.Len(t, got.All, len(tt.videos))
			assert.Len(t, got.Trailers, tt.wantCounts[0])
			assert.Len(t, got.Teasers, tt.wantCounts[1])
			assert.Len(t, got.Clips, tt.wantCounts[2])
			require.NotNil(t, got.PrimaryTrailer)
			assert.Equal(t, tt.wantPrimary, got.PrimaryTrailer.Key)
		})
	}
}

func TestNormalizeDetail_SampleRecord(t *testing.T) {
	sample, ok := SampleMovie(550)
	require.True(t, ok)

	got := NormalizeDetail(tmdb.DetailsFromResult(sample))

	assert.Equal(t, "Fight Club", got.Title)
	assert.Equal(t, []Genre{{ID: 18, Name: "Drama"}}, got.Genres)
	assert.Equal(t, 120, got.Runtime)
	require.NotNil(t, got.ReleaseDate)
	assert.Equal(t, "1999-10-15", *got.ReleaseDate)
}

func TestPersonID_JSON(t *testing.T) {
	data, err := NumericPersonID(819).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "819", string(data))

	data, err = PersonID("omdb-0").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"omdb-0"`, string(data))

	var id PersonID
	require.NoError(t, id.UnmarshalJSON([]byte("287")))
	assert.Equal(t, PersonID("287"), id)
	require.NoError(t, id.UnmarshalJSON([]byte(`"omdb-3"`)))
	assert.Equal(t, PersonID("omdb-3"), id)
}
