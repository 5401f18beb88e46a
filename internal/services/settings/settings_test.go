package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/audionote/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db.DB)
}

func TestGetSet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "one"))
	require.NoError(t, store.Set(ctx, "k", "two"))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", value)
}

func TestOnboarding(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first, err := store.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, store.CompleteOnboarding(ctx))
	first, err = store.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.False(t, first)
}

func TestTheme(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	theme, err := store.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, theme)

	require.NoError(t, store.SetTheme(ctx, ThemeDark))
	theme, err = store.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	assert.ErrorIs(t, store.SetTheme(ctx, Theme("sepia")), ErrUnknownTheme)

	require.NoError(t, store.Set(ctx, KeyTheme, "garbage"))
	theme, err = store.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, theme, "unreadable values fall back to the system theme")
}

func TestThemeCycle(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeSystem.Next())
	assert.Equal(t, ThemeDark, ThemeLight.Next())
	assert.Equal(t, ThemeSystem, ThemeDark.Next())
	assert.Equal(t, ThemeSystem, Theme("unknown").Next())
}

func TestPermissions(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	deviceErr := errors.New("no capture device")
	perms := NewPermissions(store, func(context.Context) error { return deviceErr })

	granted, err := perms.Check(ctx)
	require.NoError(t, err)
	assert.False(t, granted, "not granted until requested")

	granted, err = perms.Request(ctx)
	require.NoError(t, err)
	assert.False(t, granted)

	deviceErr = nil
	granted, err = perms.Request(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = perms.Check(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	require.NoError(t, perms.Revoke(ctx))
	granted, err = perms.Check(ctx)
	require.NoError(t, err)
	assert.False(t, granted)
}
