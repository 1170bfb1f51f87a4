// SPDX-License-Identifier: MIT

// Package extract implements the title Filter, artist-name Extractor, and
// social-link mining described in spec.md §4.4. Grounded on the teacher's
// internal/normalize (Token: case-fold + trim invisible whitespace) and
// internal/core/urlutil (URL sanitizing), generalized from service-ref
// matching to free-text artist-name/title normalization.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var caseFolder = cases.Fold()

// NormalizeName implements spec.md's fingerprint normalization: case-fold,
// strip non-alphanumeric, collapse whitespace. Two names equal after
// NormalizeName are, by definition, the same artist's name-only fingerprint.
func NormalizeName(name string) string {
	folded := caseFolder.String(norm.NFKC.String(name))

	var b strings.Builder
	lastWasSpace := true // swallow leading whitespace
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r):
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		default:
			// punctuation: drop, do not introduce a space
		}
	}
	return strings.TrimSpace(b.String())
}

// CaseFold lowercases for case-insensitive substring search, without the
// punctuation stripping NormalizeName does.
func CaseFold(s string) string {
	return caseFolder.String(s)
}
