package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Scan.Watchlist)
	assert.Equal(t, 100000.0, cfg.Analysis.PortfolioValue)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stockpilot.toml")
	content := `
environment = "production"

[server]
port = 9090

[scan]
watchlist = ["RELIANCE.NS", "TCS.NS"]

[auth]
token_expiry = "1h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"RELIANCE.NS", "TCS.NS"}, cfg.Scan.Watchlist)
	assert.Equal(t, time.Hour, cfg.Auth.GetTokenExpiry())

	// Defaults survive for sections the file doesn't mention
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/stockpilot.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SP_PORT", "7001")
	t.Setenv("SP_LOG_LEVEL", "debug")
	t.Setenv("SP_SCAN_WATCHLIST", "sbin.ns, itc.ns")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"SBIN.NS", "ITC.NS"}, cfg.Scan.Watchlist)
}

func TestFeedTimeoutFallback(t *testing.T) {
	feed := FeedConfig{Timeout: "bogus"}
	assert.Equal(t, 30*time.Second, feed.GetTimeout())

	feed.Timeout = "5s"
	assert.Equal(t, 5*time.Second, feed.GetTimeout())
}

func TestIsFresh(t *testing.T) {
	assert.False(t, IsFresh(time.Time{}, time.Hour))
	assert.True(t, IsFresh(time.Now().Add(-30*time.Minute), time.Hour))
	assert.False(t, IsFresh(time.Now().Add(-2*time.Hour), time.Hour))
}
