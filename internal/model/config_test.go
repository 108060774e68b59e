package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 5, cfg.Server.PageSize)
	assert.Equal(t, 5, cfg.Push.MaxRetries)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  base_url: https://forum.example.com\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://forum.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 15, cfg.Server.RequestTimeoutSec)
	assert.Equal(t, 30, cfg.Push.MaxBackoffSec)
}

func TestLoadConfigRejectsNonPositivePageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  page_size: -1\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Server.PageSize)
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.yaml")

	cfg := &AppConfig{
		Server: ServerConfig{
			BaseURL:           "https://forum.example.com",
			PushURL:           "wss://push.example.com",
			RequestTimeoutSec: 20,
			PageSize:          10,
		},
		Push:    PushConfig{MaxRetries: 3, MaxBackoffSec: 10},
		Display: DisplayConfig{Theme: "dark"},
		Log:     LogConfig{Level: "debug"},
	}
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
