package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/vkine/internal/config"
	"github.com/vmunix/vkine/internal/store"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestListingConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.MovieCapacity = 7
	cfg.Cache.VenueTTL.Duration = 2 * time.Minute
	cfg.Listing.SearchLimit = 5

	lc := listingConfig(cfg, time.UTC)
	assert.Equal(t, 7, lc.MovieCapacity)
	assert.Equal(t, 2*time.Minute, lc.VenueTTL)
	assert.Equal(t, 5, lc.SearchLimit)
	assert.Equal(t, 200, lc.MaxPageSize)
	assert.Equal(t, 30*time.Second, lc.FetchTimeout)
	assert.Equal(t, time.UTC, lc.Location)
	assert.NotNil(t, lc.Now)
}

func TestOpenStore_SQLiteWithFixtures(t *testing.T) {
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "fixtures.json")
	require.NoError(t, os.WriteFile(fixtures, []byte(`{"movies":[{"id":1,"title":"Kolja"}]}`), 0644))

	cfg := config.Default()
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLite.Path = filepath.Join(dir, "db", "vkine.db")
	cfg.Store.SQLite.Fixtures = fixtures

	ctx := context.Background()
	st, err := openStore(ctx, cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })

	n, err := st.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "cassandra"

	_, err := openStore(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}
