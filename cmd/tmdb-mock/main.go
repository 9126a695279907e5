package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/Clark-Hu/cinelist/internal/logging"
)

func main() {
	var (
		port     = flag.String("port", "9099", "port to listen on")
		data     = flag.String("data", "", "path to a fixture file (defaults to the built-in set)")
		pageSize = flag.Int("page-size", 20, "results per top-rated page")
		verbose  = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger := logging.New(level, "console", os.Stderr)

	fixtures := defaultFixtures
	if *data != "" {
		file, err := os.ReadFile(*data)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *data).Msg("read mock data")
		}
		fixtures = file
	}

	cat, err := loadCatalog(fixtures, *pageSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("load mock data")
	}

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("movies", len(cat.byID)).Msg("mock tmdb listening")
	if err := http.ListenAndServe(addr, newRouter(cat, logger)); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
