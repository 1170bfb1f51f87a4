// SPDX-License-Identifier: MIT

// Package enrich implements the EnrichmentCoordinator from spec.md §4.6:
// bounded, failure-isolated fan-out of per-source enrichers, each producing
// a model.SourceOutcome merged into the profile via model.MergeOutcome.
package enrich

import (
	"regexp"
	"strconv"
	"strings"
)

var followerPattern = regexp.MustCompile(`(?i)^([\d.,]+)\s*([KMB])?$`)

// ParseFollowerCount parses counts like "1.2K", "3.4M", "2B", "1,234" into
// an integer, per spec.md §4.6's suffix table (1.2K=1200, 3.4M=3_400_000).
func ParseFollowerCount(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	m := followerPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	numPart := strings.ReplaceAll(m[1], ",", "")
	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "K":
		value *= 1_000
	case "M":
		value *= 1_000_000
	case "B":
		value *= 1_000_000_000
	}
	return int64(value), true
}
