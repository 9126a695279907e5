package domain

// InvalidYear is the ReleaseYear reported when a release date cannot be parsed.
const InvalidYear = 0

// MovieSummary is the listing view of a movie. Derived fields are computed
// once by the mapper and never recomputed.
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"releaseDate"`
	PosterPath       *string `json:"posterPath"`
	BackdropPath     *string `json:"backdropPath"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genreIds"`
	OriginalLanguage string  `json:"originalLanguage"`
	OriginalTitle    string  `json:"originalTitle"`
	Popularity       float64 `json:"popularity"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int     `json:"voteCount"`
	ReleaseYear      int     `json:"releaseYear"`
	HasPoster        bool    `json:"hasPoster"`
	HasBackdrop      bool    `json:"hasBackdrop"`
	RatingOutOfFive  float64 `json:"ratingOutOfFive"`
}

// Genre is a resolved genre reference.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany describes a studio credited on a movie.
type ProductionCompany struct {
	ID            int     `json:"id"`
	LogoPath      *string `json:"logoPath"`
	Name          string  `json:"name"`
	OriginCountry string  `json:"originCountry"`
	HasLogo       bool    `json:"hasLogo"`
}

// MovieDetail extends the summary fields with the detail page payload.
type MovieDetail struct {
	MovieSummary

	Budget              int64               `json:"budget"`
	Genres              []Genre             `json:"genres"`
	Homepage            *string             `json:"homepage"`
	IMDbID              *string             `json:"imdbId"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies"`
	Revenue             int64               `json:"revenue"`
	Runtime             *int                `json:"runtime"`
	Status              string              `json:"status"`
	Tagline             *string             `json:"tagline"`

	IsProfitable     bool    `json:"isProfitable"`
	Profit           int64   `json:"profit"`
	FormattedRuntime *string `json:"formattedRuntime"`
	HasIMDbLink      bool    `json:"hasImdbLink"`
	IMDbURL          *string `json:"imdbUrl"`
}

// ToggleFavoriteResult reports the membership state after a toggle.
type ToggleFavoriteResult struct {
	MovieID    int  `json:"movieId"`
	IsFavorite bool `json:"isFavorite"`
}
