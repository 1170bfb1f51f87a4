// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/fretline/discovery/internal/log"
)

// Reloader watches a TOML config file and re-applies its
// max_concurrent_sessions/daily_cost_budget values to a live AppConfig on
// every write, mirroring the teacher's internal/config/reload.go. Only the
// two mutable knobs are re-read; every other field (credentials, store URL)
// requires a process restart to change.
type Reloader struct {
	path string

	mu  sync.RWMutex
	cfg AppConfig

	watcher *fsnotify.Watcher
}

// NewReloader creates a Reloader seeded with the initial config. Watch must
// be called to start picking up file changes.
func NewReloader(path string, initial AppConfig) *Reloader {
	return &Reloader{path: path, cfg: initial}
}

// Current returns a snapshot of the live config.
func (r *Reloader) Current() AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Watch starts the fsnotify watch loop on its own goroutine, stopping when
// ctx is cancelled. A path of "" makes Watch a no-op: there is nothing to
// watch without a file overlay.
func (r *Reloader) Watch(ctx context.Context) error {
	if r.path == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(r.path); err != nil {
		_ = w.Close()
		return err
	}
	r.watcher = w

	go r.loop(ctx, w)
	return nil
}

// Close stops the watcher, if running.
func (r *Reloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

func (r *Reloader) loop(ctx context.Context, w *fsnotify.Watcher) {
	logger := log.WithComponent("config")
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() { r.reload(logger) })
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// reload re-parses the file overlay and applies only the reloadable knobs
// to the live config, logging the transition.
func (r *Reloader) reload(logger zerolog.Logger) {
	fc, err := loadFile(r.path)
	if err != nil {
		logger.Warn().Err(err).Str("path", r.path).Msg("config reload failed, keeping previous values")
		return
	}

	r.mu.Lock()
	before := r.cfg.reloadable()
	if fc.MaxConcurrentSessions > 0 {
		r.cfg.MaxConcurrentSessions = fc.MaxConcurrentSessions
	}
	if fc.DailyCostBudget > 0 {
		r.cfg.DailyCostBudget = fc.DailyCostBudget
	}
	after := r.cfg.reloadable()
	r.mu.Unlock()

	if after != before {
		logger.Info().
			Int("max_concurrent_sessions", after.MaxConcurrentSessions).
			Int("daily_cost_budget", after.DailyCostBudget).
			Msg("config reloaded")
	}
}
