// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReloader_PicksUpFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_concurrent_sessions = 2\ndaily_cost_budget = 100\n"), 0o644))

	initial := DefaultConfig()
	initial.MaxConcurrentSessions = 2
	initial.DailyCostBudget = 100

	r := NewReloader(path, initial)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Watch(ctx))
	defer r.Close()

	require.NoError(t, os.WriteFile(path, []byte("max_concurrent_sessions = 9\ndaily_cost_budget = 100\n"), 0o644))

	require.Eventually(t, func() bool {
		return r.Current().MaxConcurrentSessions == 9
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReloader_EmptyPathIsNoop(t *testing.T) {
	r := NewReloader("", DefaultConfig())
	require.NoError(t, r.Watch(context.Background()))
	require.NoError(t, r.Close())
}
