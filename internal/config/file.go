// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// loadFile parses a TOML overlay file. A missing path is not an error: the
// overlay is optional, per spec.md §6.6 treating every setting as optional.
func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fc, nil
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fc, fmt.Errorf("config: parse toml overlay %s: %w", path, err)
	}
	return fc, nil
}

// applyFile overlays non-zero fields from fc onto cfg. File values win over
// built-in defaults but lose to environment variables, per §6.6's ENV > File
// > Defaults precedence.
func applyFile(cfg AppConfig, fc fileConfig) AppConfig {
	if fc.Spotify.ClientID != "" {
		cfg.Spotify.ClientID = fc.Spotify.ClientID
	}
	if fc.Spotify.ClientSecret != "" {
		cfg.Spotify.ClientSecret = fc.Spotify.ClientSecret
	}
	if fc.AnalyzerAPIKey != "" {
		cfg.AnalyzerAPIKey = fc.AnalyzerAPIKey
	}
	if fc.StoreURL != "" {
		cfg.StoreURL = fc.StoreURL
	}
	if fc.MaxConcurrentSessions > 0 {
		cfg.MaxConcurrentSessions = fc.MaxConcurrentSessions
	}
	if fc.DailyCostBudget > 0 {
		cfg.DailyCostBudget = fc.DailyCostBudget
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.SnapshotDir != "" {
		cfg.SnapshotDir = fc.SnapshotDir
	}
	if fc.FilterPresetsPath != "" {
		cfg.FilterPresetsPath = fc.FilterPresetsPath
	}
	return cfg
}
