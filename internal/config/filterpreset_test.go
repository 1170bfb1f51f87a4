// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFilterPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  - name: weekly-hd
    description: this week, high quality
    filters:
      upload_date: week
      quality_hint: hd
  - name: english-only
    filters:
      sort: relevance
`), 0o644))

	presets, err := loadFilterPresets(path)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	require.Equal(t, "week", presets["weekly-hd"].Filters["upload_date"])
	require.Equal(t, "relevance", presets["english-only"].Filters["sort"])
}

func TestLoadFilterPresets_MissingPathIsNotAnError(t *testing.T) {
	presets, err := loadFilterPresets("")
	require.NoError(t, err)
	require.Empty(t, presets)

	presets, err = loadFilterPresets("/nonexistent/presets.yaml")
	require.NoError(t, err)
	require.Empty(t, presets)
}

func TestLoadFilterPresets_RejectsUnnamedPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - filters:\n      sort: date\n"), 0o644))

	_, err := loadFilterPresets(path)
	require.Error(t, err)
}
