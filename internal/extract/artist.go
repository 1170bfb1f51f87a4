// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"strings"
)

// featureSplitters are applied left-to-right, case-insensitively; the
// leftmost remaining token group after every split is the canonical name.
// Ordered roughly by specificity so "featuring" matches before the bare
// " x " token, which could otherwise false-positive inside a name.
var featureSplitters = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+feat\.?\s+.*$`),
	regexp.MustCompile(`(?i)\s+featuring\s+.*$`),
	regexp.MustCompile(`(?i)\s+ft\.?\s+.*$`),
	regexp.MustCompile(`(?i)\s+with\s+.*$`),
	regexp.MustCompile(`(?i)\s+w/\s*.*$`),
	regexp.MustCompile(`(?i)\s+vs\.?\s+.*$`),
	regexp.MustCompile(`\s+&\s+.*$`),
	regexp.MustCompile(`\s+\+\s+.*$`),
	regexp.MustCompile(`(?i)\s+and\s+.*$`),
	regexp.MustCompile(`(?i)\s+x\s+.*$`),
	regexp.MustCompile(`\s*,\s*.*$`),
}

var blocklist = map[string]struct{}{
	"various artists": {},
	"vevo":            {},
	"topic":           {},
}

var allPunctuation = regexp.MustCompile(`^[\p{P}\p{S}\s]*$`)

// ExtractArtist implements spec.md §4.4's deterministic artist-name
// extraction. It returns ok=false when the title has no usable artist
// name (invariant 5: every title the Filter accepts must extract here).
func ExtractArtist(title string) (name string, ok bool) {
	raw, rejected := rawArtistSide(title)
	if rejected {
		return "", false
	}

	raw = strings.Trim(raw, ` '"“”‘’`)
	raw = strings.TrimSpace(raw)

	for _, splitter := range featureSplitters {
		raw = splitter.ReplaceAllString(raw, "")
	}
	raw = strings.TrimSpace(raw)

	if raw == "" || allPunctuation.MatchString(raw) {
		return "", false
	}
	if _, blocked := blocklist[strings.ToLower(raw)]; blocked {
		return "", false
	}
	return raw, true
}

// rawArtistSide extracts the left-hand side per the same structural rules
// TitleFilter validated against.
func rawArtistSide(title string) (side string, rejected bool) {
	if left, _, ok := splitOutsideBrackets(title); ok {
		return left, false
	}
	if m := officialParenPattern.FindStringSubmatch(title); m != nil {
		return m[1], false
	}
	return "", true
}
