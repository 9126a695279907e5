package query

import (
	"context"

	"github.com/Clark-Hu/cinelist/internal/cache"
	"github.com/Clark-Hu/cinelist/internal/domain"
)

// DetailSource yields a single movie detail.
type DetailSource interface {
	GetMovieDetail(ctx context.Context, id int) (domain.MovieDetail, error)
}

// DetailQuery caches detail lookups per movie id with the same freshness
// windows as a Stream. Concurrent lookups for one id share a fetch.
type DetailQuery struct {
	source  DetailSource
	results *cache.Cache[int, domain.MovieDetail]
}

// NewDetailQuery builds a DetailQuery holding at most size entries.
func NewDetailQuery(source DetailSource, size int, opts Options) *DetailQuery {
	opts = opts.withDefaults()
	return &DetailQuery{
		source: source,
		results: cache.New[int, domain.MovieDetail](cache.Options{
			Size:      size,
			FreshFor:  opts.FreshFor,
			RetainFor: opts.RetainFor,
			Logger:    opts.Logger,
			Now:       opts.Now,
		}),
	}
}

// Get returns the detail for id. Non-positive ids are rejected without a
// fetch.
func (q *DetailQuery) Get(ctx context.Context, id int) (domain.MovieDetail, error) {
	if id <= 0 {
		return domain.MovieDetail{}, domain.NewValidationError("movie id", "Movie ID must be a positive integer")
	}
	return q.results.Get(ctx, id, func(ctx context.Context) (domain.MovieDetail, error) {
		return q.source.GetMovieDetail(ctx, id)
	})
}
