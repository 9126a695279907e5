// Package mapper converts provider payloads into the domain view models.
// Every function is pure and total over decoded payloads.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/tmdb"
)

const imdbTitleURL = "https://www.imdb.com/title/"

var releaseDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01", "2006"}

// ToSummary builds a listing entry with its derived fields materialized.
func ToSummary(raw tmdb.MovieResult) domain.MovieSummary {
	poster := nonEmpty(raw.PosterPath)
	backdrop := nonEmpty(raw.BackdropPath)
	genreIDs := raw.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}
	return domain.MovieSummary{
		ID:               raw.ID,
		Title:            raw.Title,
		Overview:         raw.Overview,
		ReleaseDate:      raw.ReleaseDate,
		PosterPath:       poster,
		BackdropPath:     backdrop,
		Adult:            raw.Adult,
		GenreIDs:         genreIDs,
		OriginalLanguage: raw.OriginalLanguage,
		OriginalTitle:    raw.OriginalTitle,
		Popularity:       raw.Popularity,
		Video:            raw.Video,
		VoteAverage:      raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		ReleaseYear:      ReleaseYear(raw.ReleaseDate),
		HasPoster:        poster != nil,
		HasBackdrop:      backdrop != nil,
		RatingOutOfFive:  raw.VoteAverage / 2,
	}
}

// ToDetail builds a detail view. Detail payloads carry resolved genres
// instead of genre ids, so GenreIDs is derived from them in order.
func ToDetail(raw tmdb.MovieDetailsResponse) domain.MovieDetail {
	genres := make([]domain.Genre, 0, len(raw.Genres))
	genreIDs := make([]int, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
		genreIDs = append(genreIDs, g.ID)
	}
	if len(genreIDs) == 0 && len(raw.GenreIDs) > 0 {
		genreIDs = append(genreIDs, raw.GenreIDs...)
	}

	companies := make([]domain.ProductionCompany, 0, len(raw.ProductionCompanies))
	for _, c := range raw.ProductionCompanies {
		companies = append(companies, toCompany(c))
	}

	summary := ToSummary(raw.MovieResult)
	summary.GenreIDs = genreIDs

	imdbID := nonEmpty(raw.IMDbID)
	detail := domain.MovieDetail{
		MovieSummary:        summary,
		Budget:              raw.Budget,
		Genres:              genres,
		Homepage:            nonEmpty(raw.Homepage),
		IMDbID:              imdbID,
		ProductionCompanies: companies,
		Revenue:             raw.Revenue,
		Runtime:             raw.Runtime,
		Status:              raw.Status,
		Tagline:             nonEmpty(raw.Tagline),
		IsProfitable:        raw.Budget > 0 && raw.Revenue > raw.Budget,
		Profit:              raw.Revenue - raw.Budget,
		FormattedRuntime:    FormatRuntime(raw.Runtime),
		HasIMDbLink:         imdbID != nil,
	}
	if imdbID != nil {
		u := imdbTitleURL + *imdbID
		detail.IMDbURL = &u
	}
	return detail
}

// ToPage maps a listing response into a Page.
func ToPage(raw tmdb.TopRatedResponse) domain.Page {
	movies := make([]domain.MovieSummary, 0, len(raw.Results))
	for _, r := range raw.Results {
		movies = append(movies, ToSummary(r))
	}
	return domain.NewPage(raw.Page, movies, raw.TotalPages, raw.TotalResults)
}

// ReleaseYear extracts the calendar year of date, or domain.InvalidYear.
func ReleaseYear(date string) int {
	date = strings.TrimSpace(date)
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year()
		}
	}
	return domain.InvalidYear
}

// FormatRuntime renders minutes as "2h 5m" or "45m". Nil and zero yield nil.
func FormatRuntime(runtime *int) *string {
	if runtime == nil || *runtime == 0 {
		return nil
	}
	hours := *runtime / 60
	minutes := *runtime % 60
	var s string
	if hours > 0 {
		s = fmt.Sprintf("%dh %dm", hours, minutes)
	} else {
		s = fmt.Sprintf("%dm", minutes)
	}
	return &s
}

func toCompany(c tmdb.CompanyPayload) domain.ProductionCompany {
	logo := nonEmpty(c.LogoPath)
	country := ""
	if c.OriginCountry != nil {
		country = *c.OriginCountry
	}
	return domain.ProductionCompany{
		ID:            c.ID,
		LogoPath:      logo,
		Name:          c.Name,
		OriginCountry: country,
		HasLogo:       logo != nil,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
