package prefs

import (
	"context"

	"storefront/internal/kv"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Store persists the per-session theme preference under one key.
type Store struct {
	kv kv.Store
}

func NewStore(backend kv.Store) *Store {
	return &Store{kv: backend}
}

func themeKey(sessionID string) string {
	return "theme:" + sessionID
}

// Theme returns the saved theme, defaulting to dark. Unknown persisted
// values also fall back to the default.
func (s *Store) Theme(ctx context.Context, sessionID string) string {
	v, ok, err := s.kv.Get(ctx, themeKey(sessionID))
	if err != nil || !ok {
		return ThemeDark
	}
	if v != ThemeDark && v != ThemeLight {
		return ThemeDark
	}
	return v
}

// SetTheme saves a theme, normalizing unknown values to dark.
func (s *Store) SetTheme(ctx context.Context, sessionID, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		theme = ThemeDark
	}
	return s.kv.Set(ctx, themeKey(sessionID), theme)
}

// Toggle flips between dark and light and returns the new value.
func (s *Store) Toggle(ctx context.Context, sessionID string) (string, error) {
	next := ThemeLight
	if s.Theme(ctx, sessionID) == ThemeLight {
		next = ThemeDark
	}
	return next, s.kv.Set(ctx, themeKey(sessionID), next)
}
