// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// presetFile is the on-disk shape of a filter-preset bundle: a flat list of
// named presets, each a bag of the harvester.Filters-style string keys.
type presetFile struct {
	Presets []FilterPreset `yaml:"presets"`
}

// loadFilterPresets parses a YAML filter-preset bundle into a name-keyed
// map. A missing path is not an error: presets are an optional feature.
func loadFilterPresets(path string) (map[string]FilterPreset, error) {
	presets := make(map[string]FilterPreset)
	if path == "" {
		return presets, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return presets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read filter presets %s: %w", path, err)
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("config: parse filter presets %s: %w", path, err)
	}
	for _, p := range pf.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("config: filter preset missing name in %s", path)
		}
		presets[p.Name] = p
	}
	return presets, nil
}
