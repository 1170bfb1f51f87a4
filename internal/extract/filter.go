// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"strings"
)

var secondaryMarkers = []string{"official video", "music video", "official mv", "official audio"}

var officialParenPattern = regexp.MustCompile(`(?i)^(.+?)\s*[\(\[]\s*official[^)\]]*[\)\]]\s*$`)

// TitleFilter reports whether title passes the spec.md §4.4 gate: either
// "official music video" or one of the secondary markers appears
// case-insensitively, AND the title matches an artist-song structural
// pattern. The structural requirement applies to both marker classes so
// that every title TitleFilter accepts has the same left-hand side
// ExtractArtist itself requires (invariant 5).
func TitleFilter(title string) bool {
	folded := CaseFold(title)
	hasMarker := strings.Contains(folded, "official music video")
	if !hasMarker {
		for _, m := range secondaryMarkers {
			if strings.Contains(folded, m) {
				hasMarker = true
				break
			}
		}
	}
	if !hasMarker {
		return false
	}
	return hasStructuralPattern(title)
}

// hasStructuralPattern checks "A - B" / "A | B" / "A : B" (delimiter
// outside parens/brackets, both sides non-empty) or "A (Official ...)" /
// "A [Official ...]" (non-empty prefix).
func hasStructuralPattern(title string) bool {
	if left, right, ok := splitOutsideBrackets(title); ok {
		return strings.TrimSpace(left) != "" && strings.TrimSpace(right) != ""
	}
	if m := officialParenPattern.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1]) != ""
	}
	return false
}

// splitOutsideBrackets finds the first of '-', '|', ':' that is not nested
// inside '(...)' or '[...]', and splits the title there. ok is false if no
// such delimiter exists.
func splitOutsideBrackets(title string) (left, right string, ok bool) {
	depth := 0
	for i, r := range title {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '-', '|', ':':
			if depth == 0 {
				return title[:i], title[i+len(string(r)):], true
			}
		}
	}
	return "", "", false
}
