// Package cli implements the cinelist command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/cinelist/internal/cache"
	"github.com/Clark-Hu/cinelist/internal/config"
	"github.com/Clark-Hu/cinelist/internal/logging"
	"github.com/Clark-Hu/cinelist/internal/prefs"
	"github.com/Clark-Hu/cinelist/internal/store"
	"github.com/Clark-Hu/cinelist/internal/tmdb"
	"github.com/Clark-Hu/cinelist/internal/usecase"
)

// annotationProvider marks commands that call the metadata provider and so
// need a real credential.
const annotationProvider = "cinelist/provider"

type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	logLevel string
}

// NewRootCommand builds the command tree. Command output goes to the
// command's configured writer; logs go to its error writer.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cinelist",
		Short: "Browse top rated movies and keep a list of favorites",
		Long: `cinelist pages through the TMDB top rated listing, shows movie details,
and keeps favorites, a saved search and a theme preference on disk.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL (trace, debug, info, warn, error)")

	root.AddCommand(
		a.serveCommand(),
		a.topRatedCommand(),
		a.movieCommand(),
		a.favoritesCommand(),
		a.searchCommand(),
		a.themeCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initialize(cmd *cobra.Command, args []string) error {
	load := config.LoadSafe
	if cmd.Annotations[annotationProvider] == "true" {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if cfg.UsingBuildCredential {
		a.logger.Debug().Str("command", cmd.Name()).Msg("TMDB_V4_TOKEN not set, provider commands are unavailable")
	}
	return nil
}

func (a *app) movies() (*usecase.Movies, error) {
	return NewMovies(a.cfg, a.logger)
}

// NewMovies wires the provider client and its response cache from cfg.
func NewMovies(cfg config.Config, logger zerolog.Logger) (*usecase.Movies, error) {
	client, err := tmdb.NewHTTPClient(tmdb.Options{
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		Token:        cfg.TMDBToken,
		Timeout:      cfg.TMDBTimeout(),
		Cache: cache.Options{
			Size:      cfg.CacheSize,
			FreshFor:  cfg.CacheFresh(),
			RetainFor: cfg.CacheRetain(),
			Logger:    logger,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}
	return usecase.NewMovies(client, cfg.TMDBImageBaseURL, logger), nil
}

// preferences opens the configured backend. The returned closer must be
// called once the command is done.
func (a *app) preferences(ctx context.Context) (*usecase.Preferences, io.Closer, error) {
	backend, closer, err := store.OpenBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	return usecase.NewPreferences(prefs.New(ctx, backend, a.logger)), closer, nil
}

// optionalPreferences is preferences for read-mostly commands: when the
// backend cannot be opened the command runs with empty preferences.
func (a *app) optionalPreferences(ctx context.Context) (*usecase.Preferences, io.Closer) {
	p, closer, err := a.preferences(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("continuing without saved preferences")
		return usecase.NewPreferences(prefs.New(ctx, nil, a.logger)), nopCloser{}
	}
	return p, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func closeQuietly(logger zerolog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn().Err(err).Msg("close preferences")
	}
}
