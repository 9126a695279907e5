package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Clark-Hu/cinelist/internal/cli"
	"github.com/Clark-Hu/cinelist/internal/config"
	"github.com/Clark-Hu/cinelist/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stderr); err != nil {
		logger := logging.New("error", "console", os.Stderr)
		logger.Fatal().Err(err).Msg("server error")
	}
}

func run(ctx context.Context, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, stderr).With().Str("service", "cinelist-api").Logger()
	if err := cli.Serve(ctx, cfg, logger); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
