// SPDX-License-Identifier: MIT

// Package analyzerstub is a reference ports.Analyzer: a small lexicon-based
// theme and sentiment heuristic standing in for a real NLP service. No
// library in the retrieved corpus does lyric/text classification, so there
// is nothing third-party to wire here; a production deployment replaces
// this package wholesale with a call to an external classification API.
package analyzerstub

import (
	"context"
	"sort"
	"strings"

	"github.com/fretline/discovery/internal/model"
)

// themeLexicon maps a small set of recognizable surface words to the theme
// label they contribute to. Not exhaustive; a heuristic stand-in only.
var themeLexicon = map[string]string{
	"love": "love", "heart": "love", "kiss": "love",
	"night": "nightlife", "party": "nightlife", "dance": "nightlife", "club": "nightlife",
	"money": "money", "cash": "money", "rich": "money",
	"pain": "heartbreak", "cry": "heartbreak", "tears": "heartbreak", "broken": "heartbreak",
	"dream": "aspiration", "rise": "aspiration", "hustle": "aspiration",
	"god": "faith", "pray": "faith", "soul": "faith",
	"street": "struggle", "hood": "struggle", "fight": "struggle",
	"summer": "nature", "rain": "nature", "sun": "nature", "sky": "nature",
}

var positiveWords = map[string]bool{
	"love": true, "happy": true, "good": true, "rise": true, "dream": true, "sun": true, "dance": true,
}

var negativeWords = map[string]bool{
	"pain": true, "cry": true, "broken": true, "hate": true, "fight": true, "tears": true, "sad": true,
}

const maxThemes = 8

// Analyzer implements ports.Analyzer with a deterministic word-match
// heuristic, so callers get stable, reproducible themes across runs.
type Analyzer struct{}

// New constructs an Analyzer.
func New() *Analyzer { return &Analyzer{} }

// AnalyzeLyrics tallies lexicon hits into themes and a bounded sentiment
// score. languageHint is accepted for interface parity but unused: the
// lexicon is English-only.
func (Analyzer) AnalyzeLyrics(_ context.Context, text string, languageHint string) (model.LyricAnalysis, error) {
	counts := make(map[string]int)
	var positive, negative int

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?\"'()[]")
		if theme, ok := themeLexicon[word]; ok {
			counts[theme]++
		}
		if positiveWords[word] {
			positive++
		}
		if negativeWords[word] {
			negative++
		}
	}

	themes := rankThemes(counts)
	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}

	sentiment := 0.0
	if total := positive + negative; total > 0 {
		sentiment = float64(positive-negative) / float64(total)
	}

	language := languageHint
	if language == "" {
		language = "en"
	}

	return model.LyricAnalysis{
		Themes:    themes,
		Sentiment: sentiment,
		Language:  language,
	}, nil
}

// rankThemes orders themes by hit count (descending), breaking ties
// alphabetically for determinism.
func rankThemes(counts map[string]int) []string {
	themes := make([]string, 0, len(counts))
	for theme := range counts {
		themes = append(themes, theme)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})
	return themes
}
