package boltdb_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteash/scratchpad/pkg/adapters/boltdb"
	"github.com/whiteash/scratchpad/pkg/core"
)

func setupStore(t *testing.T, opts ...func(*boltdb.Config)) (*boltdb.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scratchpad.db")

	cfg := boltdb.Config{Path: path}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := boltdb.NewStore(cfg)
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func TestRoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	for _, value := range []string{"plain", "", "with\nnewlines\n", "日本語 ☕"} {
		require.NoError(t, store.Set(ctx, core.KeyNotes, value))
		got, err := store.Get(ctx, core.KeyNotes)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestGet_NotFound(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.KeyNotes, "doomed"))
	require.NoError(t, store.Delete(ctx, core.KeyNotes))

	_, err := store.Get(ctx, core.KeyNotes)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, core.KeyNotes), "absent delete should be nil")
}

func TestPersistsAcrossReopen(t *testing.T) {
	store, path := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.KeyNotes, "durable"))
	require.NoError(t, store.Close())

	reopened := boltdb.NewStore(boltdb.Config{Path: path})
	require.NoError(t, reopened.Initialize(ctx))
	defer reopened.Close()

	got, err := reopened.Get(ctx, core.KeyNotes)
	require.NoError(t, err)
	assert.Equal(t, "durable", got)
}

func TestProbe(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Probe(ctx))

	// The sentinel must not linger.
	usage, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Zero(t, usage.Keys)

	// A closed store is unavailable.
	require.NoError(t, store.Close())
	uninit := boltdb.NewStore(boltdb.Config{Path: filepath.Join(t.TempDir(), "x.db")})
	assert.ErrorIs(t, uninit.Probe(ctx), core.ErrUnavailable)
}

func TestQuota(t *testing.T) {
	store, _ := setupStore(t, func(c *boltdb.Config) {
		c.Quota = 32
	})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.KeyNotes, strings.Repeat("a", 30)))

	err := store.Set(ctx, core.KeyNotes, strings.Repeat("b", 40))
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)

	// The rejected transaction must not have replaced the value.
	got, err := store.Get(ctx, core.KeyNotes)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 30), got)

	// Replacement accounting: same-size rewrite fits.
	assert.NoError(t, store.Set(ctx, core.KeyNotes, strings.Repeat("c", 30)))

	// A second key shares the budget.
	assert.ErrorIs(t, store.Set(ctx, core.KeyTheme, "dark"), core.ErrQuotaExceeded)
}

func TestUsage(t *testing.T) {
	store, _ := setupStore(t, func(c *boltdb.Config) {
		c.Quota = 1024
	})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.KeyNotes, "0123456789"))
	require.NoError(t, store.Set(ctx, core.KeyTheme, "dark"))

	usage, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(14), usage.UsedBytes)
	assert.Equal(t, 2, usage.Keys)
	assert.Equal(t, int64(1024), usage.QuotaBytes)
}

func TestNotWatchable(t *testing.T) {
	store, _ := setupStore(t)

	// The session falls back to watch-less operation for this adapter.
	var asStore core.Store = store
	_, ok := asStore.(core.Watchable)
	assert.False(t, ok)
}
