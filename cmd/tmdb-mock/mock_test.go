package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/tmdb"
)

func newMockClient(t *testing.T, pageSize int) *tmdb.HTTPClient {
	t.Helper()
	cat, err := loadCatalog(defaultFixtures, pageSize)
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(cat, zerolog.Nop()))
	t.Cleanup(srv.Close)

	client, err := tmdb.NewHTTPClient(tmdb.Options{BaseURL: srv.URL + "/3", Token: "test-token", Logger: zerolog.Nop()})
	require.NoError(t, err)
	return client
}

func TestCatalogRanksByVoteAverage(t *testing.T) {
	cat, err := loadCatalog(defaultFixtures, 20)
	require.NoError(t, err)
	require.NotEmpty(t, cat.ranked)
	for i := 1; i < len(cat.ranked); i++ {
		assert.GreaterOrEqual(t, cat.ranked[i-1].VoteAverage, cat.ranked[i].VoteAverage)
	}
}

func TestLoadCatalogRejectsBadInput(t *testing.T) {
	_, err := loadCatalog([]byte("{"), 20)
	assert.Error(t, err)
	_, err = loadCatalog(defaultFixtures, 0)
	assert.Error(t, err)
}

func TestMockServesPagesThroughClient(t *testing.T) {
	client := newMockClient(t, 2)
	ctx := context.Background()

	first, err := client.FetchPage(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Results, 2)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 5, first.TotalResults)

	last, err := client.FetchPage(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, last.Results, 1)

	beyond, err := client.FetchPage(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, beyond.Results)
}

func TestMockServesDetailsAndNotFound(t *testing.T) {
	client := newMockClient(t, 20)
	ctx := context.Background()

	detail, err := client.FetchDetail(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", detail.Title)
	require.NotNil(t, detail.Runtime)
	assert.Equal(t, 136, *detail.Runtime)

	_, err = client.FetchDetail(ctx, 999999)
	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusNotFound, perr.StatusCode)
	assert.Equal(t, "The resource you requested could not be found.", perr.Message)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMockRequiresBearer(t *testing.T) {
	cat, err := loadCatalog(defaultFixtures, 20)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newRouter(cat, zerolog.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/3/movie/603", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status_code":7`)
}
