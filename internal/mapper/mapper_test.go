package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/tmdb"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func TestToSummary_DerivedFields(t *testing.T) {
	raw := tmdb.MovieResult{
		ID:           278,
		Title:        "The Shawshank Redemption",
		ReleaseDate:  "1994-09-23",
		PosterPath:   strPtr("/poster.jpg"),
		BackdropPath: nil,
		VoteAverage:  8.7,
		GenreIDs:     []int{18, 80},
	}

	got := ToSummary(raw)
	assert.Equal(t, 1994, got.ReleaseYear)
	assert.True(t, got.HasPoster)
	assert.False(t, got.HasBackdrop)
	assert.InDelta(t, 4.35, got.RatingOutOfFive, 1e-9)
	assert.Equal(t, []int{18, 80}, got.GenreIDs)
}

func TestToSummary_RatingIsExactHalf(t *testing.T) {
	for _, v := range []float64{0, 0.1, 2.5, 5, 7.3, 9.99, 10} {
		got := ToSummary(tmdb.MovieResult{VoteAverage: v})
		assert.Equal(t, v/2, got.RatingOutOfFive, "vote average %v", v)
	}
	got := ToSummary(tmdb.MovieResult{VoteAverage: 14})
	assert.Equal(t, 7.0, got.RatingOutOfFive, "no clamping")
}

func TestToSummary_EmptyPathsAreNull(t *testing.T) {
	got := ToSummary(tmdb.MovieResult{PosterPath: strPtr(""), BackdropPath: strPtr("")})
	assert.Nil(t, got.PosterPath)
	assert.False(t, got.HasPoster)
	assert.False(t, got.HasBackdrop)
	assert.NotNil(t, got.GenreIDs)
}

func TestReleaseYear(t *testing.T) {
	cases := map[string]int{
		"2010-07-16":           2010,
		"1999-12":              1999,
		"1972":                 1972,
		"2023-05-01T00:00:00Z": 2023,
		"":                     domain.InvalidYear,
		"soon":                 domain.InvalidYear,
		"2023-13-45":           domain.InvalidYear,
	}
	for in, want := range cases {
		assert.Equal(t, want, ReleaseYear(in), "input %q", in)
	}
}

func TestFormatRuntime(t *testing.T) {
	cases := []struct {
		in   *int
		want *string
	}{
		{intPtr(125), strPtr("2h 5m")},
		{intPtr(45), strPtr("45m")},
		{intPtr(60), strPtr("1h 0m")},
		{intPtr(0), nil},
		{nil, nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatRuntime(tc.in))
	}
}

func TestToDetail(t *testing.T) {
	raw := tmdb.MovieDetailsResponse{
		MovieResult: tmdb.MovieResult{
			ID:          603,
			Title:       "The Matrix",
			ReleaseDate: "1999-03-30",
			VoteAverage: 8.2,
		},
		Budget:   63000000,
		Revenue:  463517383,
		Genres:   []tmdb.GenrePayload{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		IMDbID:   strPtr("tt0133093"),
		Homepage: strPtr(""),
		Runtime:  intPtr(136),
		Status:   "Released",
		ProductionCompanies: []tmdb.CompanyPayload{
			{ID: 79, Name: "Village Roadshow Pictures", LogoPath: strPtr("/logo.png"), OriginCountry: strPtr("US")},
			{ID: 372, Name: "Groucho II Film Partnership"},
		},
	}

	got := ToDetail(raw)
	assert.Equal(t, 603, got.ID)
	assert.Equal(t, 1999, got.ReleaseYear)
	assert.True(t, got.IsProfitable)
	assert.Equal(t, int64(400517383), got.Profit)
	assert.Equal(t, strPtr("2h 16m"), got.FormattedRuntime)
	assert.True(t, got.HasIMDbLink)
	require.NotNil(t, got.IMDbURL)
	assert.Equal(t, "https://www.imdb.com/title/tt0133093", *got.IMDbURL)
	assert.Nil(t, got.Homepage)
	assert.Equal(t, []int{28, 878}, got.GenreIDs)
	require.Len(t, got.ProductionCompanies, 2)
	assert.True(t, got.ProductionCompanies[0].HasLogo)
	assert.Equal(t, "US", got.ProductionCompanies[0].OriginCountry)
	assert.Equal(t, "", got.ProductionCompanies[1].OriginCountry)
	assert.False(t, got.ProductionCompanies[1].HasLogo)
}

func TestToDetail_ToleratesEmptyPayload(t *testing.T) {
	got := ToDetail(tmdb.MovieDetailsResponse{})
	assert.NotNil(t, got.Genres)
	assert.Empty(t, got.Genres)
	assert.NotNil(t, got.ProductionCompanies)
	assert.False(t, got.IsProfitable)
	assert.Nil(t, got.FormattedRuntime)
	assert.False(t, got.HasIMDbLink)
	assert.Nil(t, got.IMDbURL)
	assert.Equal(t, domain.InvalidYear, got.ReleaseYear)
}

func TestToDetail_ProfitabilityNeedsBudget(t *testing.T) {
	got := ToDetail(tmdb.MovieDetailsResponse{Budget: 0, Revenue: 100})
	assert.False(t, got.IsProfitable)
	assert.Equal(t, int64(100), got.Profit)

	got = ToDetail(tmdb.MovieDetailsResponse{Budget: 100, Revenue: 100})
	assert.False(t, got.IsProfitable)
}

func TestToPage(t *testing.T) {
	first := ToPage(tmdb.TopRatedResponse{
		Page:         1,
		Results:      []tmdb.MovieResult{{ID: 1}, {ID: 2}},
		TotalPages:   500,
		TotalResults: 10000,
	})
	assert.Equal(t, 1, first.Number)
	assert.Len(t, first.Movies, 2)
	assert.True(t, first.HasNextPage)
	require.NotNil(t, first.NextPage)
	assert.Equal(t, 2, *first.NextPage)

	last := ToPage(tmdb.TopRatedResponse{Page: 500, TotalPages: 500})
	assert.False(t, last.HasNextPage)
	assert.Nil(t, last.NextPage)
	assert.NotNil(t, last.Movies)
}
