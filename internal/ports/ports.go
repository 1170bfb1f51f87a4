// SPDX-License-Identifier: MIT

// Package ports defines the external collaborator contracts the discovery
// core consumes: storage, network fetch, lyric analysis, wall clock, and
// randomness. Concrete implementations live outside the core (see
// internal/adapters) and are injected at process startup — no component in
// this package or its consumers reaches for a process-wide singleton.
package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/fretline/discovery/internal/model"
)

// ArtistRecord is what the Store returns for a found or upserted artist.
type ArtistRecord struct {
	ID          string
	Fingerprint model.Fingerprint
	Profile     model.ArtistProfile
}

// Identifier selects which field find_artist_by matches against.
type IdentifierKind string

const (
	IdentifierYouTubeChannelID IdentifierKind = "youtube_channel_id"
	IdentifierSpotifyID        IdentifierKind = "spotify_id"
	IdentifierInstagramHandle  IdentifierKind = "instagram_handle"
	IdentifierTikTokHandle     IdentifierKind = "tiktok_handle"
	IdentifierNormalizedName   IdentifierKind = "normalized_name"
)

// Identifier is one (kind, value) pair to look an artist up by.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// Store is the relational persistence port. Implementations must enforce
// non-negative counters and a bounded [0,1] enrichment score, and must
// upsert atomically by fingerprint.
type Store interface {
	FindArtistBy(ctx context.Context, id Identifier) (*ArtistRecord, error)
	UpsertArtist(ctx context.Context, profile *model.ArtistProfile) (*ArtistRecord, error)
	RecordSession(ctx context.Context, snapshot model.Snapshot) error
	AppendSessionEvent(ctx context.Context, sessionID string, event model.ProgressEvent) error
}

// FetchStatus is the subset of an HTTP response plain fetches need.
type FetchStatus struct {
	Code int
}

// RenderOptions controls headless-rendered fetches.
type RenderOptions struct {
	ScrollSteps       int
	SettleDelay       time.Duration
	UserAgent         string
	ViewportWidth     int
	ViewportHeight    int
	JavaScriptEnabled bool
}

// NetworkLogEntry records one request the headless session made. FetchRendered
// returns them; no caller in this module reads them.
type NetworkLogEntry struct {
	URL      string
	AtMillis int64
}

// SessionHandle is an opaque handle to a reusable headless browsing context.
type SessionHandle interface {
	// Navigate loads url in the existing context and returns the rendered HTML.
	Navigate(ctx context.Context, url string, opts RenderOptions) (html string, err error)
	// Scroll advances one viewport, waits up to settle for network idle, and
	// returns the HTML as rendered after the scroll completes.
	Scroll(ctx context.Context, settle time.Duration) (html string, err error)
	// Close releases the underlying browser context.
	Close(ctx context.Context) error
}

// Fetcher is the network-fetch port. PlainHTTP-like calls go through
// FetchPlain; JavaScript-dependent pages go through FetchRendered or a
// reusable OpenSession for repeated scroll-and-read access patterns.
type Fetcher interface {
	FetchPlain(ctx context.Context, url string, deadline time.Time) (FetchStatus, http.Header, []byte, error)
	FetchRendered(ctx context.Context, url string, opts RenderOptions, deadline time.Time) (finalURL, html string, log []NetworkLogEntry, err error)
	OpenSession(ctx context.Context, opts RenderOptions) (SessionHandle, error)
}

// Analyzer is the lyric-analysis port.
type Analyzer interface {
	AnalyzeLyrics(ctx context.Context, text string, languageHint string) (model.LyricAnalysis, error)
}

// Clock abstracts wall-clock time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RandomSource abstracts jitter/randomness for deterministic tests.
type RandomSource interface {
	Float64() float64
}
