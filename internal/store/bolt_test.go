package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/cinelist/internal/config"
	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/prefs"
)

func TestBoltStore_GetPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	b, err := OpenBolt(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()
	_, ok, err := b.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "k", []byte("v1")))
	require.NoError(t, b.Put(ctx, "k", []byte("v2")))
	v, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", string(v))
}

func TestBoltStore_CanceledContext(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "prefs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, b.Put(ctx, "k", []byte("v")))
	_, _, err = b.Get(ctx, "k")
	assert.Error(t, err)
}

func TestBoltStore_PersistsPreferencesAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	b, err := OpenBolt(path, zerolog.Nop())
	require.NoError(t, err)
	s := prefs.New(ctx, b, zerolog.Nop())
	s.ToggleFavorite(ctx, 603)
	s.SetTheme(ctx, domain.ThemeDark)
	require.NoError(t, b.Close())

	b, err = OpenBolt(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	s = prefs.New(ctx, b, zerolog.Nop())
	assert.True(t, s.IsFavorite(603))
	assert.Equal(t, domain.ThemeDark, s.Theme())
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	backend, closer, err := OpenBackend(ctx, config.Config{PrefsBackend: config.BackendMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &prefs.MemoryBackend{}, backend)
	assert.NoError(t, closer.Close())

	cfg := config.Config{PrefsBackend: config.BackendBolt, PrefsPath: filepath.Join(t.TempDir(), "p.db")}
	backend, closer, err = OpenBackend(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &BoltStore{}, backend)
	assert.NoError(t, closer.Close())

	_, _, err = OpenBackend(ctx, config.Config{PrefsBackend: "redis"}, zerolog.Nop())
	assert.Error(t, err)
}
