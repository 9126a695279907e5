// Package prefs tracks favorite movies, the search query and the theme mode,
// writing every change through to a Backend.
package prefs

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/cinelist/internal/domain"
)

// Storage keys.
const (
	FavoritesKey = "movie-app-favorites"
	ThemeKey     = "movie-app-theme"
	StateKey     = "prefs-storage"
)

const stateVersion = 0

type persistedState struct {
	State   statePayload `json:"state"`
	Version int          `json:"version"`
}

type statePayload struct {
	Query     string `json:"q"`
	Favorites []int  `json:"favorites"`
}

// Store is the in-process preference state. Reads never touch the backend;
// mutations are persisted before they return. Backend failures are logged
// and the in-memory state stays authoritative.
type Store struct {
	backend Backend
	logger  zerolog.Logger

	mu        sync.RWMutex
	favorites []int
	query     string
	theme     domain.ThemeMode
}

// New loads state from backend. A nil backend yields a store that keeps
// defaults and persists nothing.
func New(ctx context.Context, backend Backend, logger zerolog.Logger) *Store {
	s := &Store{backend: backend, logger: logger, favorites: []int{}, theme: domain.DefaultTheme}
	if backend == nil {
		return s
	}

	var state persistedState
	if ok := s.readJSON(ctx, StateKey, &state); ok {
		s.query = state.State.Query
		s.favorites = dedupe(state.State.Favorites)
	}
	var favorites []int
	if ok := s.readJSON(ctx, FavoritesKey, &favorites); ok {
		s.favorites = dedupe(favorites)
	}
	if raw, ok := s.read(ctx, ThemeKey); ok {
		if mode, valid := domain.ParseThemeMode(strings.TrimSpace(string(raw))); valid {
			s.theme = mode
		}
	}
	return s
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.favorites, id) >= 0
}

// ToggleFavorite flips membership of id and returns the new state.
func (s *Store) ToggleFavorite(ctx context.Context, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var now bool
	if i := indexOf(s.favorites, id); i >= 0 {
		s.favorites = append(s.favorites[:i:i], s.favorites[i+1:]...)
	} else {
		s.favorites = append(s.favorites, id)
		now = true
	}
	s.persistFavoritesLocked(ctx)
	return now
}

// AddFavorite marks id as a favorite.
func (s *Store) AddFavorite(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.favorites, id) >= 0 {
		return
	}
	s.favorites = append(s.favorites, id)
	s.persistFavoritesLocked(ctx)
}

// RemoveFavorite unmarks id.
func (s *Store) RemoveFavorite(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.favorites, id)
	if i < 0 {
		return
	}
	s.favorites = append(s.favorites[:i:i], s.favorites[i+1:]...)
	s.persistFavoritesLocked(ctx)
}

// ClearFavorites empties the set.
func (s *Store) ClearFavorites(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = []int{}
	s.persistFavoritesLocked(ctx)
}

// Favorites returns the favorite ids in ascending order.
func (s *Store) Favorites() []int {
	s.mu.RLock()
	out := append([]int{}, s.favorites...)
	s.mu.RUnlock()
	sort.Ints(out)
	return out
}

// SetSearchQuery stores q as the current search text.
func (s *Store) SetSearchQuery(ctx context.Context, q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.persistStateLocked(ctx)
}

// ClearSearch resets the search text.
func (s *Store) ClearSearch(ctx context.Context) {
	s.SetSearchQuery(ctx, "")
}

// SearchQuery returns the current search text.
func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Theme returns the current theme mode.
func (s *Store) Theme() domain.ThemeMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme stores mode.
func (s *Store) SetTheme(ctx context.Context, mode domain.ThemeMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = mode
	s.write(ctx, ThemeKey, []byte(mode))
}

// ToggleTheme switches light to dark and anything else to light.
func (s *Store) ToggleTheme(ctx context.Context) domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggled()
	s.write(ctx, ThemeKey, []byte(s.theme))
	return s.theme
}

func (s *Store) persistFavoritesLocked(ctx context.Context) {
	if payload, err := json.Marshal(s.favorites); err == nil {
		s.write(ctx, FavoritesKey, payload)
	}
	s.persistStateLocked(ctx)
}

func (s *Store) persistStateLocked(ctx context.Context) {
	payload, err := json.Marshal(persistedState{
		State:   statePayload{Query: s.query, Favorites: s.favorites},
		Version: stateVersion,
	})
	if err != nil {
		return
	}
	s.write(ctx, StateKey, payload)
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logStorageError(&domain.StorageError{Op: "read", Key: key, Err: err})
		return nil, false
	}
	return raw, ok
}

func (s *Store) readJSON(ctx context.Context, key string, dst interface{}) bool {
	raw, ok := s.read(ctx, key)
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logStorageError(&domain.StorageError{Op: "decode", Key: key, Err: err})
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, key string, value []byte) {
	if s.backend == nil {
		return
	}
	if err := s.backend.Put(ctx, key, value); err != nil {
		s.logStorageError(&domain.StorageError{Op: "write", Key: key, Err: err})
	}
}

func (s *Store) logStorageError(err *domain.StorageError) {
	s.logger.Warn().Err(err).Str("key", err.Key).Msg("prefs: storage unavailable, using in-memory state")
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
