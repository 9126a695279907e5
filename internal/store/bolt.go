package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

const (
	boltFileMode = 0o600
	boltDirMode  = 0o755
)

var preferencesBucket = []byte("preferences")

// BoltStore persists preference blobs in a single-file bbolt database.
type BoltStore struct {
	db     *bolt.DB
	logger zerolog.Logger
}

// OpenBolt opens (creating if needed) the database file at path.
func OpenBolt(path string, logger zerolog.Logger) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, boltDirMode); err != nil {
			return nil, fmt.Errorf("create preferences dir: %w", err)
		}
	}
	db, err := bolt.Open(path, boltFileMode, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open preferences db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create preferences bucket: %w", err)
	}
	logger.Debug().Str("path", path).Msg("store: preferences file opened")
	return &BoltStore{db: db, logger: logger}, nil
}

// Get returns a copy of the value stored under key.
func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(preferencesBucket).Get([]byte(key))
		if v != nil {
			out = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

// Put overwrites key with value.
func (b *BoltStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put([]byte(key), value)
	})
}

// Close releases the file lock.
func (b *BoltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	b.logger.Debug().Msg("store: closing preferences file")
	return b.db.Close()
}
