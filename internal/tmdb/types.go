package tmdb

// MovieResult is one entry of a listing response.
type MovieResult struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Popularity       float64 `json:"popularity"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
}

// TopRatedResponse is the payload of /movie/top_rated.
type TopRatedResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// GenrePayload is a resolved genre on a detail response.
type GenrePayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CompanyPayload is a production company on a detail response.
type CompanyPayload struct {
	ID            int     `json:"id"`
	LogoPath      *string `json:"logo_path"`
	Name          string  `json:"name"`
	OriginCountry *string `json:"origin_country"`
}

// MovieDetailsResponse is the payload of /movie/{id}.
type MovieDetailsResponse struct {
	MovieResult

	Budget              int64            `json:"budget"`
	Genres              []GenrePayload   `json:"genres"`
	Homepage            *string          `json:"homepage"`
	IMDbID              *string          `json:"imdb_id"`
	ProductionCompanies []CompanyPayload `json:"production_companies"`
	Revenue             int64            `json:"revenue"`
	Runtime             *int             `json:"runtime"`
	Status              string           `json:"status"`
	Tagline             *string          `json:"tagline"`
}

type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
