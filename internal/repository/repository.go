// Package repository stores preference blobs in PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Querier is the subset of pgxpool.Pool used here.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Preferences is a key/value table satisfying prefs.Backend.
type Preferences struct {
	db Querier
}

// NewPreferences constructs a Preferences repository over db.
func NewPreferences(db Querier) *Preferences {
	return &Preferences{db: db}
}

// Get returns the value stored under key.
func (r *Preferences) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `
        SELECT value
        FROM preferences
        WHERE key = $1
    `
	var value []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

// Put overwrites the value stored under key.
func (r *Preferences) Put(ctx context.Context, key string, value []byte) error {
	const query = `
        INSERT INTO preferences (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("put preference %q: %w", key, err)
	}
	return nil
}

// Migrate applies the embedded up migrations in name order. Every migration
// is idempotent.
func Migrate(ctx context.Context, db Querier) error {
	names, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		payload, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if strings.TrimSpace(string(payload)) == "" {
			continue
		}
		if _, err := db.Exec(ctx, string(payload)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
