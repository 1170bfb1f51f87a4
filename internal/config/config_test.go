// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultMaxConcurrentSessions, cfg.MaxConcurrentSessions)
	require.Equal(t, DefaultDailyCostBudget, cfg.DailyCostBudget)
	require.False(t, cfg.Spotify.Enabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
max_concurrent_sessions = 2
daily_cost_budget = 500
store_url = "file-store"
`), 0o644))

	t.Setenv("STORE_URL", "env-store")
	t.Setenv("MAX_CONCURRENT_SESSIONS", "")

	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	require.Equal(t, "env-store", cfg.StoreURL)
	require.Equal(t, 2, cfg.MaxConcurrentSessions)
	require.Equal(t, 500, cfg.DailyCostBudget)
}

func TestLoad_RejectsNonPositiveConcurrency(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_SESSIONS", "0")
	_, err := Load("")
	require.Error(t, err)
}

func TestAppConfig_ResolvePreset(t *testing.T) {
	cfg := AppConfig{Presets: map[string]FilterPreset{
		"weekly-hd": {Name: "weekly-hd", Filters: map[string]string{"upload_date": "week", "quality_hint": "hd"}},
	}}

	merged := cfg.ResolvePreset(map[string]string{"preset": "weekly-hd", "quality_hint": "4k"})
	require.Equal(t, "week", merged["upload_date"])
	require.Equal(t, "4k", merged["quality_hint"], "explicit filter keys must win over the preset")
	_, hasPresetKey := merged["preset"]
	require.False(t, hasPresetKey)
}

func TestAppConfig_ResolvePreset_UnknownNameIgnored(t *testing.T) {
	cfg := AppConfig{Presets: map[string]FilterPreset{}}
	in := map[string]string{"preset": "does-not-exist", "sort": "date"}
	require.Equal(t, in, cfg.ResolvePreset(in))
}
