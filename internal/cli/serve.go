package cli

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/cinelist/internal/cache"
	"github.com/Clark-Hu/cinelist/internal/config"
	httpserver "github.com/Clark-Hu/cinelist/internal/http"
	"github.com/Clark-Hu/cinelist/internal/query"
	"github.com/Clark-Hu/cinelist/internal/store"
)

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Serve the JSON API",
		Annotations: map[string]string{annotationProvider: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(cmd.Context(), a.cfg, a.logger)
		},
	}
}

// Serve runs the HTTP API until ctx is canceled. The first listing page is
// fetched in the background and seeds the listing served for page 1, which
// is then refreshed whenever it falls out of the freshness window. With the
// postgres preference backend, /healthz pings the database.
func Serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	movies, err := NewMovies(cfg, logger)
	if err != nil {
		return err
	}

	var health httpserver.HealthChecker
	if cfg.PrefsBackend == config.BackendPostgres {
		st, err := store.New(ctx, cfg.DBURL, store.PoolOptions(cfg, logger))
		if err != nil {
			return err
		}
		defer closeQuietly(logger, st)
		health = st
	}

	listing := query.NewStream(movies, query.Options{
		FreshFor:  cfg.CacheFresh(),
		RetainFor: cfg.CacheRetain(),
		Logger:    logger,
	})
	server := httpserver.New(cfg, movies, health, logger)
	server.UseListing(listing)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		page, err := movies.GetPage(gctx, 1)
		if err != nil {
			if gctx.Err() == nil {
				logger.Warn().Err(err).Msg("cache warm-up failed")
			}
			return nil
		}
		listing.Seed(page)
		return nil
	})
	g.Go(func() error {
		keepFresh(gctx, listing, cfg.CacheFresh(), logger)
		return nil
	})
	return g.Wait()
}

// keepFresh refreshes the listing on every tick where it has gone stale.
func keepFresh(ctx context.Context, listing *query.Stream, every time.Duration, logger zerolog.Logger) {
	if every <= 0 {
		every = cache.DefaultFreshFor
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if listing.Fresh() {
				continue
			}
			if err := listing.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Warn().Err(err).Msg("listing refresh failed, serving cached page")
			}
		}
	}
}
