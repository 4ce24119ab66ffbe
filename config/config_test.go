package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ALLOWED_ORIGINS", "OKRDECK_CONFIG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultLimits(), cfg.Limits)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("VERBOSE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "okrdeck.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
allowed_origins:
  - https://dash.example
limits:
  max_alerts: 4
  deadline_window_days: 14
`), 0o644))
	t.Setenv("OKRDECK_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, []string{"https://dash.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.Limits.MaxAlerts)
	assert.Equal(t, 14, cfg.Limits.DeadlineWindowDays)
	// Fields the file omits keep their defaults.
	assert.Equal(t, DefaultLimits().AlertsPerGoal, cfg.Limits.AlertsPerGoal)
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	t.Setenv("OKRDECK_CONFIG", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}
