// SPDX-License-Identifier: MIT

// Package lyrics implements the LyricsEnricher from spec.md §4.6: for up to
// three candidate song pages, fetch the lyrics text and hand it to the
// Analyzer port, folding the resulting themes into the profile.
package lyrics

import (
	"context"
	"net/url"
	"regexp"
	"time"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

const (
	op               = "lyrics.analyze"
	maxCandidateSongs = 3
)

var songLinkPattern = regexp.MustCompile(`(?i)href="(/[^"]*-lyrics)"`)

// Enricher implements enrich.Source for lyric-theme extraction.
type Enricher struct {
	searchHost string
	fetcher    ports.Fetcher
	analyzer   ports.Analyzer
	clock      ports.Clock
}

// New constructs the lyrics enricher. searchHost is the lyrics site's
// search origin (e.g. "https://www.azlyrics.com"), overridable for tests.
func New(searchHost string, fetcher ports.Fetcher, analyzer ports.Analyzer, clock ports.Clock) *Enricher {
	return &Enricher{searchHost: searchHost, fetcher: fetcher, analyzer: analyzer, clock: clock}
}

func (e *Enricher) Name() string            { return "lyrics" }
func (e *Enricher) Op() string              { return op }
func (e *Enricher) Timeout() time.Duration  { return 30 * time.Second }
func (e *Enricher) CacheTTL() time.Duration { return 6 * time.Hour }

// Fetch finds up to three song pages for the artist, analyzes each, and
// unions the resulting themes (the merge layer caps the final union at 8).
func (e *Enricher) Fetch(ctx context.Context, profile *model.ArtistProfile) (model.SourceOutcome, error) {
	candidates, err := e.findCandidateSongs(ctx, profile.Name)
	if err != nil {
		return model.SourceOutcome{}, err
	}
	if len(candidates) == 0 {
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, op, "no lyrics pages found", nil)
	}

	var themes []string
	seen := make(map[string]struct{})
	for _, pageURL := range candidates {
		analysis, err := e.analyzeOne(ctx, pageURL)
		if err != nil {
			continue // one bad song page does not fail the whole source
		}
		for _, theme := range analysis.Themes {
			if _, dup := seen[theme]; dup {
				continue
			}
			seen[theme] = struct{}{}
			themes = append(themes, theme)
		}
	}
	if len(themes) == 0 {
		return model.SourceOutcome{}, model.NewError(model.KindDataQuality, op, "no analyzable lyrics pages", nil)
	}

	return model.SourceOutcome{Source: "lyrics", LyricThemes: themes}, nil
}

func (e *Enricher) findCandidateSongs(ctx context.Context, artistName string) ([]string, error) {
	searchURL := e.searchHost + "/search?q=" + url.QueryEscape(artistName)
	status, _, body, err := e.fetcher.FetchPlain(ctx, searchURL, e.clock.Now().Add(e.Timeout()))
	if err != nil {
		return nil, model.NewError(model.KindTransient, op, "search fetch failed", err)
	}
	if status.Code == 429 || status.Code == 403 {
		return nil, model.NewError(model.KindBlocked, op, "blocked", nil)
	}
	if status.Code != 200 {
		return nil, model.NewError(model.KindTransient, op, "unexpected status", nil)
	}

	matches := songLinkPattern.FindAllStringSubmatch(string(body), -1)
	seen := make(map[string]struct{})
	var out []string
	for _, m := range matches {
		path := m[1]
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, e.searchHost+path)
		if len(out) >= maxCandidateSongs {
			break
		}
	}
	return out, nil
}

func (e *Enricher) analyzeOne(ctx context.Context, pageURL string) (model.LyricAnalysis, error) {
	status, _, body, err := e.fetcher.FetchPlain(ctx, pageURL, e.clock.Now().Add(e.Timeout()))
	if err != nil {
		return model.LyricAnalysis{}, err
	}
	if status.Code != 200 {
		return model.LyricAnalysis{}, model.NewError(model.KindTransient, op, "unexpected status for song page", nil)
	}
	return e.analyzer.AnalyzeLyrics(ctx, string(body), "")
}
