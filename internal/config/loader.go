// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fretline/discovery/internal/log"
)

// LoadEnvFile loads a .env file into the process environment via godotenv,
// ignoring a missing file. Call before Load so its values are visible to
// os.LookupEnv; an already-set environment variable is never overwritten,
// godotenv's own precedence.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load env file %s: %w", path, err)
	}
	log.WithComponent("config").Debug().Str("path", path).Msg("loaded .env file")
	return nil
}

// Load builds an AppConfig with the precedence ENV > TOML file > Defaults,
// per spec.md §6.6. tomlPath may be empty to skip the file overlay.
func Load(tomlPath string) (AppConfig, error) {
	cfg := DefaultConfig()

	fc, err := loadFile(tomlPath)
	if err != nil {
		return AppConfig{}, err
	}
	cfg = applyFile(cfg, fc)

	cfg.Spotify.ClientID = envString("SPOTIFY_CLIENT_ID", cfg.Spotify.ClientID)
	cfg.Spotify.ClientSecret = envString("SPOTIFY_CLIENT_SECRET", cfg.Spotify.ClientSecret)
	cfg.AnalyzerAPIKey = envString("ANALYZER_API_KEY", cfg.AnalyzerAPIKey)
	cfg.StoreURL = envString("STORE_URL", cfg.StoreURL)
	cfg.MaxConcurrentSessions = envInt("MAX_CONCURRENT_SESSIONS", cfg.MaxConcurrentSessions)
	cfg.DailyCostBudget = envInt("DAILY_COST_BUDGET", cfg.DailyCostBudget)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.SnapshotDir = envString("SESSION_SNAPSHOT_DIR", cfg.SnapshotDir)
	cfg.FilterPresetsPath = envString("FILTER_PRESETS_PATH", cfg.FilterPresetsPath)

	presets, err := loadFilterPresets(cfg.FilterPresetsPath)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.Presets = presets

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func validate(cfg AppConfig) error {
	if cfg.MaxConcurrentSessions <= 0 {
		return fmt.Errorf("config: max_concurrent_sessions must be positive, got %d", cfg.MaxConcurrentSessions)
	}
	if cfg.DailyCostBudget < 0 {
		return fmt.Errorf("config: daily_cost_budget must not be negative, got %d", cfg.DailyCostBudget)
	}
	return nil
}
