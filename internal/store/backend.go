package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/cinelist/internal/config"
	"github.com/Clark-Hu/cinelist/internal/prefs"
	"github.com/Clark-Hu/cinelist/internal/repository"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBackend binds the preference backend named by cfg.PrefsBackend. The
// returned closer releases whatever the backend holds open.
func OpenBackend(ctx context.Context, cfg config.Config, logger zerolog.Logger) (prefs.Backend, io.Closer, error) {
	switch cfg.PrefsBackend {
	case config.BackendMemory:
		logger.Debug().Msg("store: using in-memory preferences")
		return prefs.NewMemoryBackend(), nopCloser{}, nil
	case config.BackendBolt:
		b, err := OpenBolt(cfg.PrefsPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	case config.BackendPostgres:
		st, err := New(ctx, cfg.DBURL, PoolOptions(cfg, logger))
		if err != nil {
			return nil, nil, err
		}
		if err := repository.Migrate(ctx, st.Pool()); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
		return repository.NewPreferences(st.Pool()), st, nil
	default:
		return nil, nil, fmt.Errorf("unknown preferences backend %q", cfg.PrefsBackend)
	}
}

// PoolOptions maps configuration onto pool Options.
func PoolOptions(cfg config.Config, logger zerolog.Logger) Options {
	return Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}
}
