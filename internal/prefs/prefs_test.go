package prefs

import (
	"context"
	"testing"

	"storefront/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeDefaultsToDark(t *testing.T) {
	s := NewStore(kv.NewMemory())
	assert.Equal(t, ThemeDark, s.Theme(context.Background(), "nobody"))
}

func TestSetThemeNormalizesUnknownValues(t *testing.T) {
	s := NewStore(kv.NewMemory())
	ctx := context.Background()

	require.NoError(t, s.SetTheme(ctx, "sid", "light"))
	assert.Equal(t, ThemeLight, s.Theme(ctx, "sid"))

	require.NoError(t, s.SetTheme(ctx, "sid", "neon"))
	assert.Equal(t, ThemeDark, s.Theme(ctx, "sid"))
}

func TestCorruptPersistedThemeFallsBack(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "theme:sid", "zalgo"))

	assert.Equal(t, ThemeDark, NewStore(backend).Theme(ctx, "sid"))
}

func TestToggle(t *testing.T) {
	s := NewStore(kv.NewMemory())
	ctx := context.Background()

	got, err := s.Toggle(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got)

	got, err = s.Toggle(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got)
	assert.Equal(t, ThemeDark, s.Theme(ctx, "sid"), "toggle persists")
}

func TestThemesAreSessionScoped(t *testing.T) {
	s := NewStore(kv.NewMemory())
	ctx := context.Background()

	_, err := s.Toggle(ctx, "a")
	require.NoError(t, err)

	assert.Equal(t, ThemeLight, s.Theme(ctx, "a"))
	assert.Equal(t, ThemeDark, s.Theme(ctx, "b"))
}
