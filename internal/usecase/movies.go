// Package usecase exposes validated entry points over the provider client
// and the preference store.
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/mapper"
	"github.com/Clark-Hu/cinelist/internal/tmdb"
)

// Movies serves listing pages and movie details.
type Movies struct {
	client    tmdb.Client
	imageBase string
	logger    zerolog.Logger
}

// NewMovies wires Movies to a provider client. An empty imageBase selects
// the public image host.
func NewMovies(client tmdb.Client, imageBase string, logger zerolog.Logger) *Movies {
	if imageBase == "" {
		imageBase = tmdb.DefaultImageBaseURL
	}
	return &Movies{client: client, imageBase: imageBase, logger: logger}
}

// GetPage returns page number page of the top rated listing.
func (m *Movies) GetPage(ctx context.Context, page int) (domain.Page, error) {
	if err := validatePage(page); err != nil {
		return domain.Page{}, err
	}
	raw, err := m.client.FetchPage(ctx, page)
	if err != nil {
		m.logger.Error().Err(err).Int("page", page).Msg("usecase: fetch top rated failed")
		return domain.Page{}, err
	}
	return mapper.ToPage(*raw), nil
}

// GetMovieDetail returns the detail view for id.
func (m *Movies) GetMovieDetail(ctx context.Context, id int) (domain.MovieDetail, error) {
	if err := validateMovieID(id); err != nil {
		return domain.MovieDetail{}, err
	}
	raw, err := m.client.FetchDetail(ctx, id)
	if err != nil {
		m.logger.Error().Err(err).Int("movie_id", id).Msg("usecase: fetch movie details failed")
		return domain.MovieDetail{}, err
	}
	return mapper.ToDetail(*raw), nil
}

// ImageURL resolves an image path at size; an empty size means the default.
func (m *Movies) ImageURL(path *string, size string) *string {
	return tmdb.BuildAssetURL(m.imageBase, path, size)
}
