// SPDX-License-Identifier: MIT

package config

import "time"

// AppConfig is the fully resolved runtime configuration, built by Load with
// precedence ENV > TOML file > defaults.
type AppConfig struct {
	// Spotify holds the OAuth client-credentials used by internal/enrich/spotify.
	Spotify SpotifyConfig

	// AnalyzerAPIKey authenticates the lyrics Analyzer port implementation,
	// when one requires it. Empty disables analyzer-backed enrichment.
	AnalyzerAPIKey string

	// StoreURL is the connection string handed to the configured
	// ports.Store adapter (e.g. a sqlite DSN for internal/adapters/storesql).
	StoreURL string

	// MaxConcurrentSessions and DailyCostBudget are the two knobs
	// fsnotify-driven hot reload can update without a process restart.
	MaxConcurrentSessions int
	DailyCostBudget       int

	// LogLevel configures internal/log's global logger.
	LogLevel string

	// SnapshotDir enables internal/session.Snapshotter when non-empty.
	SnapshotDir string

	// FilterPresetsPath, when non-empty, is loaded into Presets at startup.
	FilterPresetsPath string
	Presets           map[string]FilterPreset
}

// SpotifyConfig holds the OAuth2 client-credentials pair for the Spotify Web API.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether enough credentials are present to attempt the
// OAuth client-credentials flow.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// DefaultMaxConcurrentSessions mirrors internal/session's own package
// default. internal/quota has no built-in budget; DefaultDailyCostBudget is
// the daily budget handed to quota.New when none is configured.
const (
	DefaultMaxConcurrentSessions = 4
	DefaultDailyCostBudget       = 10_000
	DefaultLogLevel              = "info"
)

// DefaultConfig returns an AppConfig populated with built-in defaults only.
func DefaultConfig() AppConfig {
	return AppConfig{
		MaxConcurrentSessions: DefaultMaxConcurrentSessions,
		DailyCostBudget:       DefaultDailyCostBudget,
		LogLevel:              DefaultLogLevel,
	}
}

// FilterPreset is a named, reusable search-filter bundle resolved by
// SessionRequest.Filters["preset"] before the caller's explicit filter keys
// are applied on top (explicit keys win over the preset).
type FilterPreset struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Filters     map[string]string `yaml:"filters"`
}

// ResolvePreset merges a named preset under requestFilters (explicit keys
// win) and returns the combined filter map. An unknown preset name is
// ignored; the explicit filters are returned unchanged.
func (c AppConfig) ResolvePreset(requestFilters map[string]string) map[string]string {
	presetName, ok := requestFilters["preset"]
	if !ok || presetName == "" {
		return requestFilters
	}
	preset, ok := c.Presets[presetName]
	if !ok {
		return requestFilters
	}

	merged := make(map[string]string, len(preset.Filters)+len(requestFilters))
	for k, v := range preset.Filters {
		merged[k] = v
	}
	for k, v := range requestFilters {
		if k == "preset" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// reloadableSnapshot is the subset of AppConfig fsnotify-driven reload is
// permitted to mutate at runtime.
type reloadableSnapshot struct {
	MaxConcurrentSessions int
	DailyCostBudget       int
}

func (c AppConfig) reloadable() reloadableSnapshot {
	return reloadableSnapshot{MaxConcurrentSessions: c.MaxConcurrentSessions, DailyCostBudget: c.DailyCostBudget}
}

// fileConfig is the shape of the optional TOML overlay file, §6.6.
type fileConfig struct {
	Spotify struct {
		ClientID     string `toml:"client_id"`
		ClientSecret string `toml:"client_secret"`
	} `toml:"spotify"`
	AnalyzerAPIKey        string `toml:"analyzer_api_key"`
	StoreURL              string `toml:"store_url"`
	MaxConcurrentSessions int    `toml:"max_concurrent_sessions"`
	DailyCostBudget       int    `toml:"daily_cost_budget"`
	LogLevel              string `toml:"log_level"`
	SnapshotDir           string `toml:"snapshot_dir"`
	FilterPresetsPath     string `toml:"filter_presets_path"`
}

// reloadDebounce is how long the fsnotify watcher waits after the last
// event on the config file before re-reading it, absorbing the burst of
// events a single editor save typically produces.
const reloadDebounce = 200 * time.Millisecond
