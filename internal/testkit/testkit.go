// SPDX-License-Identifier: MIT

// Package testkit provides in-memory fakes for the ports consumed across the
// discovery pipeline, used by the session-level tests; other packages'
// tests declare their own smaller fakes. Grounded on the teacher's scattered per-package
// fakes (e.g. internal/dedup's fakeStore): this collects the same shape into
// one reusable set so session-level tests can exercise the full wiring
// without a real network, browser, or database.
package testkit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fretline/discovery/internal/extract"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// FixedClock is a ports.Clock that never advances unless Advance is called.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a FixedClock starting at t.
func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{now: t} }

// Now implements ports.Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ZeroRandom is a ports.RandomSource that always returns 0.5, the midpoint
// of the jitter range, so retry backoff stays deterministic in tests.
type ZeroRandom struct{}

// Float64 implements ports.RandomSource.
func (ZeroRandom) Float64() float64 { return 0.5 }

// Store is an in-memory ports.Store sufficient for orchestrator tests: it
// upserts by name, answers FindArtistBy for the identifier kinds the
// deduplicator uses, and records every session/event call it receives for
// assertions.
type Store struct {
	mu sync.Mutex

	byYouTube map[string]*ports.ArtistRecord
	bySpotify map[string]*ports.ArtistRecord
	byName    map[string]*ports.ArtistRecord

	Snapshots []model.Snapshot
	Events    []model.ProgressEvent
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byYouTube: make(map[string]*ports.ArtistRecord),
		bySpotify: make(map[string]*ports.ArtistRecord),
		byName:    make(map[string]*ports.ArtistRecord),
	}
}

// FindArtistBy implements ports.Store.
func (s *Store) FindArtistBy(_ context.Context, id ports.Identifier) (*ports.ArtistRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch id.Kind {
	case ports.IdentifierYouTubeChannelID:
		return s.byYouTube[id.Value], nil
	case ports.IdentifierSpotifyID:
		return s.bySpotify[id.Value], nil
	case ports.IdentifierNormalizedName:
		return s.byName[id.Value], nil
	default:
		return nil, nil
	}
}

// UpsertArtist implements ports.Store.
func (s *Store) UpsertArtist(_ context.Context, profile *model.ArtistProfile) (*ports.ArtistRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &ports.ArtistRecord{ID: "stored:" + profile.Name, Profile: *profile}
	s.byName[extract.NormalizeName(profile.Name)] = rec
	if profile.YouTubeChannelID != "" {
		s.byYouTube[profile.YouTubeChannelID] = rec
	}
	if profile.SpotifyID != "" {
		s.bySpotify[profile.SpotifyID] = rec
	}
	return rec, nil
}

// RecordSession implements ports.Store.
func (s *Store) RecordSession(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Snapshots = append(s.Snapshots, snap)
	return nil
}

// AppendSessionEvent implements ports.Store.
func (s *Store) AppendSessionEvent(_ context.Context, _ string, evt model.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, evt)
	return nil
}

// StoredCount reports how many distinct artists have been upserted.
func (s *Store) StoredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byName)
}

// Fetcher is a scripted ports.Fetcher: FetchPlain responses are looked up by
// URL, OpenSession returns a session whose Scroll calls are served from a
// fixed page sequence and then end the harvest.
type Fetcher struct {
	mu sync.Mutex

	PlainResponses map[string]string
	PlainStatus    ports.FetchStatus
	PlainErr       error

	Pages []string // successive Scroll() results; last page is reused after exhaustion

	scrollCalls int
}

// NewFetcher creates a Fetcher with no scripted responses.
func NewFetcher() *Fetcher {
	return &Fetcher{PlainResponses: make(map[string]string)}
}

// FetchPlain implements ports.Fetcher.
func (f *Fetcher) FetchPlain(_ context.Context, url string, _ time.Time) (ports.FetchStatus, http.Header, []byte, error) {
	if f.PlainErr != nil {
		return ports.FetchStatus{}, nil, nil, f.PlainErr
	}
	status := f.PlainStatus
	if status.Code == 0 {
		status.Code = 200
	}
	return status, http.Header{}, []byte(f.PlainResponses[url]), nil
}

// FetchRendered implements ports.Fetcher; unused by the harvester, which
// prefers OpenSession, but kept for interface completeness.
func (f *Fetcher) FetchRendered(_ context.Context, url string, _ ports.RenderOptions, _ time.Time) (string, string, []ports.NetworkLogEntry, error) {
	return url, f.PlainResponses[url], nil, nil
}

// OpenSession implements ports.Fetcher.
func (f *Fetcher) OpenSession(_ context.Context, _ ports.RenderOptions) (ports.SessionHandle, error) {
	return &fakeSession{fetcher: f}, nil
}

type fakeSession struct {
	fetcher *Fetcher
	step    int
}

func (s *fakeSession) Navigate(_ context.Context, url string, _ ports.RenderOptions) (string, error) {
	return s.fetcher.PlainResponses[url], nil
}

func (s *fakeSession) Scroll(_ context.Context, _ time.Duration) (string, error) {
	s.fetcher.mu.Lock()
	defer s.fetcher.mu.Unlock()
	s.fetcher.scrollCalls++
	if len(s.fetcher.Pages) == 0 {
		return "", nil
	}
	idx := s.step
	if idx >= len(s.fetcher.Pages) {
		idx = len(s.fetcher.Pages) - 1
	}
	s.step++
	return s.fetcher.Pages[idx], nil
}

func (s *fakeSession) Close(context.Context) error { return nil }

// Analyzer is a scripted ports.Analyzer returning a fixed analysis for every
// call, regardless of input text.
type Analyzer struct {
	Analysis model.LyricAnalysis
	Err      error
}

// AnalyzeLyrics implements ports.Analyzer.
func (a *Analyzer) AnalyzeLyrics(_ context.Context, _ string, _ string) (model.LyricAnalysis, error) {
	if a.Err != nil {
		return model.LyricAnalysis{}, a.Err
	}
	return a.Analysis, nil
}
