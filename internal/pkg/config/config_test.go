package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REFRESH_TICKERS", "")
	t.Setenv("REFRESH_WATCHLIST_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Refresher.Interval)
	assert.Equal(t, 1, cfg.Refresher.LookbackDays)
	assert.Equal(t, 5, cfg.Refresher.MaxPerTicker)
	assert.Equal(t, DefaultWatchlist, cfg.Refresher.Tickers)
	assert.Equal(t, "tickernews.db", filepath.Base(cfg.Database.SQLitePath))
	assert.True(t, filepath.IsAbs(cfg.Database.SQLitePath))
}

func TestLoad_TickerOverride(t *testing.T) {
	t.Setenv("REFRESH_TICKERS", " aapl, msft,,AAPL ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Refresher.Tickers)
}

func TestLoad_WatchlistFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickers:\n  - tsla\n  - nvda\n"), 0o644))

	t.Setenv("REFRESH_TICKERS", "")
	t.Setenv("REFRESH_WATCHLIST_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "NVDA"}, cfg.Refresher.Tickers)
}

func TestLoad_EmptyWatchlistFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickers: []\n"), 0o644))

	t.Setenv("REFRESH_TICKERS", "")
	t.Setenv("REFRESH_WATCHLIST_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvDuration_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, 3*time.Second, getEnvDuration("SOME_TIMEOUT", 3*time.Second))
}
