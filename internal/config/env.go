// SPDX-License-Identifier: MIT

// Package config loads the discovery process's runtime configuration from
// environment variables (spec.md §6.6), an optional TOML overlay file, and
// an optional YAML filter-preset bundle, with hot-reload of the mutable
// budget/concurrency knobs. Grounded on the teacher's internal/config
// package: the same ENV > File > Defaults precedence and per-key
// source-logged parsing helpers, scoped down to the handful of knobs this
// spec actually has.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fretline/discovery/internal/log"
)

// envString reads a string from the environment or returns defaultValue,
// logging which source won.
func envString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
		return defaultValue
	}
	sensitive := strings.Contains(strings.ToLower(key), "secret") || strings.Contains(strings.ToLower(key), "client_id")
	if sensitive {
		logger.Debug().Str("key", key).Str("source", "environment").Bool("sensitive", true).Msg("using environment variable")
	} else {
		logger.Debug().Str("key", key).Str("value", v).Str("source", "environment").Msg("using environment variable")
	}
	return v
}

// envInt reads an integer from the environment, falling back to
// defaultValue on absence or parse failure.
func envInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().Str("key", key).Int("default", defaultValue).Str("source", "default").Msg("using default value")
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Int("default", defaultValue).Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}
