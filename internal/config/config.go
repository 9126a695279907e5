package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// BuildToken stands in for TMDB_V4_TOKEN when LoadSafe is used by tooling
// that never calls the provider.
const BuildToken = "dummy-token-for-build"

// Preference backends.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// Config captures all runtime configuration derived from environment
// variables and an optional CONFIG_FILE.
type Config struct {
	Port                 string
	TMDBToken            string
	TMDBBaseURL          string
	TMDBImageBaseURL     string
	TMDBTimeoutSecs      int
	ReadTimeoutSecs      int
	WriteTimeoutSecs     int
	IdleTimeoutSecs      int
	CacheFreshSecs       int
	CacheRetainSecs      int
	CacheSize            int
	PrefsBackend         string
	PrefsPath            string
	DBURL                string
	DBMaxConns           int
	DBMinConns           int
	DBMaxIdleSecs        int
	DBMaxLifeSecs        int
	DBConnTimeoutSecs    int
	DBStatementCache     int
	LogLevel             string
	LogFormat            string
	UsingBuildCredential bool
}

// Load reads configuration, applying defaults and validation. A missing
// TMDB_V4_TOKEN is an error.
func Load() (Config, error) {
	return load(false)
}

// LoadSafe is Load with a placeholder credential when TMDB_V4_TOKEN is
// unset, for commands that make no provider calls.
func LoadSafe() (Config, error) {
	return load(true)
}

func load(safe bool) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:              v.GetString("PORT"),
		TMDBToken:         strings.TrimSpace(v.GetString("TMDB_V4_TOKEN")),
		TMDBBaseURL:       v.GetString("TMDB_BASE_URL"),
		TMDBImageBaseURL:  v.GetString("TMDB_IMAGE_BASE_URL"),
		TMDBTimeoutSecs:   getInt(v, "TMDB_TIMEOUT_SECS", 10),
		ReadTimeoutSecs:   getInt(v, "SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:  getInt(v, "SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:   getInt(v, "SERVER_IDLE_TIMEOUT", 60),
		CacheFreshSecs:    getInt(v, "CACHE_FRESH_SECS", 300),
		CacheRetainSecs:   getInt(v, "CACHE_RETAIN_SECS", 600),
		CacheSize:         getInt(v, "CACHE_SIZE", 512),
		PrefsBackend:      strings.ToLower(v.GetString("PREFS_BACKEND")),
		PrefsPath:         v.GetString("PREFS_PATH"),
		DBURL:             v.GetString("DB_URL"),
		DBMaxConns:        getInt(v, "DB_MAX_CONNS", 20),
		DBMinConns:        getInt(v, "DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getInt(v, "DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getInt(v, "DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getInt(v, "DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getInt(v, "DB_STATEMENT_CACHE_CAPACITY", 256),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if cfg.TMDBToken == "" {
		if !safe {
			return Config{}, errors.New("TMDB_V4_TOKEN is required")
		}
		cfg.TMDBToken = BuildToken
		cfg.UsingBuildCredential = true
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	v.SetDefault("PREFS_BACKEND", BackendBolt)
	v.SetDefault("PREFS_PATH", "./cinelist-prefs.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func validate(cfg Config) error {
	if cfg.TMDBTimeoutSecs <= 0 {
		return errors.New("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.CacheFreshSecs <= 0 {
		return errors.New("CACHE_FRESH_SECS must be positive")
	}
	if cfg.CacheRetainSecs < cfg.CacheFreshSecs {
		return errors.New("CACHE_RETAIN_SECS cannot be shorter than CACHE_FRESH_SECS")
	}
	if cfg.CacheSize <= 0 {
		return errors.New("CACHE_SIZE must be positive")
	}
	switch cfg.PrefsBackend {
	case BackendMemory:
	case BackendBolt:
		if cfg.PrefsPath == "" {
			return errors.New("PREFS_PATH is required for the bolt backend")
		}
	case BackendPostgres:
		if cfg.DBURL == "" {
			return errors.New("DB_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("PREFS_BACKEND must be one of memory, bolt, postgres (got %q)", cfg.PrefsBackend)
	}
	if cfg.DBMaxConns <= 0 {
		return errors.New("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return errors.New("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return errors.New("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return errors.New("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json (got %q)", cfg.LogFormat)
	}
	return nil
}

// getInt keeps the fallback when the value is missing or not an integer.
func getInt(v *viper.Viper, key string, fallback int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// TMDBTimeout is the provider request timeout.
func (c Config) TMDBTimeout() time.Duration {
	return time.Duration(c.TMDBTimeoutSecs) * time.Second
}

// CacheFresh is the freshness window for provider responses and queries.
func (c Config) CacheFresh() time.Duration {
	return time.Duration(c.CacheFreshSecs) * time.Second
}

// CacheRetain is how long stale results may still be served.
func (c Config) CacheRetain() time.Duration {
	return time.Duration(c.CacheRetainSecs) * time.Second
}
