package usecase

import (
	"context"
	"strings"

	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/prefs"
)

// Preferences wraps the preference store with input validation.
type Preferences struct {
	store *prefs.Store
}

// NewPreferences wires Preferences to store.
func NewPreferences(store *prefs.Store) *Preferences {
	return &Preferences{store: store}
}

// ToggleFavorite flips favorite membership of id.
func (p *Preferences) ToggleFavorite(ctx context.Context, id int) (domain.ToggleFavoriteResult, error) {
	if err := validateMovieID(id); err != nil {
		return domain.ToggleFavoriteResult{}, err
	}
	return domain.ToggleFavoriteResult{MovieID: id, IsFavorite: p.store.ToggleFavorite(ctx, id)}, nil
}

// AddFavorite marks id as a favorite; adding twice is a no-op.
func (p *Preferences) AddFavorite(ctx context.Context, id int) error {
	if err := validateMovieID(id); err != nil {
		return err
	}
	p.store.AddFavorite(ctx, id)
	return nil
}

// RemoveFavorite unmarks id; removing an absent id is a no-op.
func (p *Preferences) RemoveFavorite(ctx context.Context, id int) error {
	if err := validateMovieID(id); err != nil {
		return err
	}
	p.store.RemoveFavorite(ctx, id)
	return nil
}

// IsFavorite reports membership; invalid ids are never favorites.
func (p *Preferences) IsFavorite(id int) bool {
	if validateMovieID(id) != nil {
		return false
	}
	return p.store.IsFavorite(id)
}

// Favorites lists favorite ids in ascending order.
func (p *Preferences) Favorites() []int {
	return p.store.Favorites()
}

// ClearFavorites removes every favorite.
func (p *Preferences) ClearFavorites(ctx context.Context) {
	p.store.ClearFavorites(ctx)
}

// SetTheme stores mode, which must be light, dark or system.
func (p *Preferences) SetTheme(ctx context.Context, mode string) (domain.ThemeMode, error) {
	parsed, ok := domain.ParseThemeMode(strings.ToLower(strings.TrimSpace(mode)))
	if !ok {
		return "", domain.NewValidationError("theme", "Theme must be one of light, dark, system")
	}
	p.store.SetTheme(ctx, parsed)
	return parsed, nil
}

// Theme returns the stored theme mode.
func (p *Preferences) Theme() domain.ThemeMode {
	return p.store.Theme()
}

// ToggleTheme flips light and dark and returns the new mode.
func (p *Preferences) ToggleTheme(ctx context.Context) domain.ThemeMode {
	return p.store.ToggleTheme(ctx)
}

// SetSearchQuery stores q.
func (p *Preferences) SetSearchQuery(ctx context.Context, q string) {
	p.store.SetSearchQuery(ctx, q)
}

// ClearSearch forgets the stored search text.
func (p *Preferences) ClearSearch(ctx context.Context) {
	p.store.ClearSearch(ctx)
}

// SearchQuery returns the stored search text.
func (p *Preferences) SearchQuery() string {
	return p.store.SearchQuery()
}
