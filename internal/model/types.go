// SPDX-License-Identifier: MIT

// Package model holds the semantic data types shared across the discovery
// pipeline: requests, sessions, candidates, artist profiles and the
// progress-event sum type. Types here carry no behavior beyond small,
// side-effect-free helpers (validation, merge, fingerprinting).
package model

import (
	"strings"
	"time"
)

// SessionRequest is the immutable input to a discovery session.
type SessionRequest struct {
	Query        string            `validate:"required"`
	TargetCount  int               `validate:"required,gt=0"`
	Filters      map[string]string `validate:"omitempty"`
	MaxCostUnits int               `validate:"omitempty,gt=0"`
}

// DefaultTargetCount is used when a caller does not specify one.
const DefaultTargetCount = 50

// SessionState enumerates the orchestrator's state machine states.
type SessionState int

const (
	SessionPending SessionState = iota
	SessionRunning
	SessionCompleted
	SessionFailed
	SessionCancelled
)

func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionRunning:
		return "running"
	case SessionCompleted:
		return "completed"
	case SessionFailed:
		return "failed"
	case SessionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state is sticky.
func (s SessionState) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionFailed, SessionCancelled:
		return true
	default:
		return false
	}
}

// SessionCounters tracks the running tallies of a session.
type SessionCounters struct {
	VideosSeen      int `json:"videos_seen"`
	VideosAccepted  int `json:"videos_accepted"`
	ArtistsEnriched int `json:"artists_enriched"`
	ArtistsStored   int `json:"artists_stored"`
}

// Session is the process-lived aggregate the orchestrator owns.
type Session struct {
	ID        string
	Request   SessionRequest
	State     SessionState
	Counters  SessionCounters
	StartedAt time.Time
	EndedAt   time.Time
	LastError *Error

	BudgetExhausted bool
}

// Snapshot is a point-in-time, safe-to-share copy of a Session.
type Snapshot struct {
	ID              string
	State           SessionState
	Counters        SessionCounters
	StartedAt       time.Time
	EndedAt         time.Time
	LastError       string
	BudgetExhausted bool
}

// ToSnapshot copies the fields a caller of status() is allowed to see.
func (s *Session) ToSnapshot() Snapshot {
	snap := Snapshot{
		ID:              s.ID,
		State:           s.State,
		Counters:        s.Counters,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		BudgetExhausted: s.BudgetExhausted,
	}
	if s.LastError != nil {
		snap.LastError = s.LastError.Error()
	}
	return snap
}

// CandidateVideo is a search-result item extracted from a harvested page,
// before any semantic filtering has been applied.
type CandidateVideo struct {
	VideoID            string
	URL                string
	Title              string
	ChannelID          string
	ChannelURL         string
	DescriptionSnippet string
	ViewCount          *int64
	UploadHint         string
}

// SocialPlatform enumerates the recognized social link keys.
type SocialPlatform string

const (
	PlatformSpotify   SocialPlatform = "spotify"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformTikTok    SocialPlatform = "tiktok"
	PlatformTwitter   SocialPlatform = "twitter"
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformYouTube   SocialPlatform = "youtube"
	PlatformWebsite   SocialPlatform = "website"
)

// SocialLinks maps a recognized platform to the discovered URL.
type SocialLinks map[SocialPlatform]string

// Clone returns an independent copy.
func (s SocialLinks) Clone() SocialLinks {
	out := make(SocialLinks, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FollowerKey enumerates recognized follower/engagement counters.
type FollowerKey string

const (
	FollowerYouTubeSubscribers     FollowerKey = "youtube_subscribers"
	FollowerSpotifyFollowers       FollowerKey = "spotify_followers"
	FollowerSpotifyMonthlyListeners FollowerKey = "spotify_monthly_listeners"
	FollowerInstagramFollowers     FollowerKey = "instagram_followers"
	FollowerTikTokFollowers        FollowerKey = "tiktok_followers"
	FollowerTikTokLikes            FollowerKey = "tiktok_likes"
)

// ArtistProfile accumulates enrichment results for a single artist.
type ArtistProfile struct {
	Name string

	YouTubeChannelID string
	SpotifyID        string
	InstagramHandle  string
	TikTokHandle     string

	Links SocialLinks

	Genres []string
	Bio    string

	FollowerCounts map[FollowerKey]int64

	Location  string
	AvatarURL string
	Email     string

	LyricThemes []string

	EnrichmentScore float64

	frozen bool
}

// NewArtistProfile constructs a profile ready for enrichment.
func NewArtistProfile(name string) *ArtistProfile {
	return &ArtistProfile{
		Name:           name,
		Links:          make(SocialLinks),
		FollowerCounts: make(map[FollowerKey]int64),
	}
}

// Clone deep-copies the profile so concurrent enrichers never race on the
// same backing maps/slices; merges always apply to a fresh copy.
func (p *ArtistProfile) Clone() *ArtistProfile {
	out := *p
	out.Links = p.Links.Clone()
	out.Genres = append([]string(nil), p.Genres...)
	out.LyricThemes = append([]string(nil), p.LyricThemes...)
	out.FollowerCounts = make(map[FollowerKey]int64, len(p.FollowerCounts))
	for k, v := range p.FollowerCounts {
		out.FollowerCounts[k] = v
	}
	return &out
}

// Freeze marks the profile as read-only; Scorer requires a frozen profile
// so that enrichment_score is provably a pure function of final state.
func (p *ArtistProfile) Freeze() *ArtistProfile {
	out := p.Clone()
	out.frozen = true
	return out
}

// Frozen reports whether Freeze has been called.
func (p *ArtistProfile) Frozen() bool { return p.frozen }

// LyricAnalysis is the Analyzer port's output for one song's lyrics.
type LyricAnalysis struct {
	Themes    []string // ordered, capped at 8
	Sentiment float64  // [-1, 1]
	Language  string   // ISO-639-1
}

// Fingerprint is the stable identity string described in spec.md §3.
type Fingerprint string

// StrongIdentifierFingerprint builds a fingerprint from available strong
// identifiers in priority order, falling back to the normalized name.
func StrongIdentifierFingerprint(p *ArtistProfile, normalizedName func(string) string) Fingerprint {
	var parts []string
	if p.YouTubeChannelID != "" {
		parts = append(parts, "yt:"+p.YouTubeChannelID)
	}
	if p.SpotifyID != "" {
		parts = append(parts, "sp:"+p.SpotifyID)
	}
	if p.InstagramHandle != "" {
		parts = append(parts, "ig:"+p.InstagramHandle)
	}
	if p.TikTokHandle != "" {
		parts = append(parts, "tt:"+p.TikTokHandle)
	}
	if len(parts) == 0 {
		return Fingerprint("name:" + normalizedName(p.Name))
	}
	return Fingerprint(strings.Join(parts, "|"))
}

// ProgressEventKind enumerates the tagged ProgressEvent variants.
type ProgressEventKind int

const (
	EvSessionStarted ProgressEventKind = iota
	EvPhaseProgress
	EvCandidateFound
	EvArtistAccepted
	EvArtistRejected
	EvArtistEnriched
	EvArtistStored
	EvSessionCompleted
	EvSessionFailed
	EvLagged
)

func (k ProgressEventKind) String() string {
	switch k {
	case EvSessionStarted:
		return "session_started"
	case EvPhaseProgress:
		return "phase_progress"
	case EvCandidateFound:
		return "candidate_found"
	case EvArtistAccepted:
		return "artist_accepted"
	case EvArtistRejected:
		return "artist_rejected"
	case EvArtistEnriched:
		return "artist_enriched"
	case EvArtistStored:
		return "artist_stored"
	case EvSessionCompleted:
		return "session_completed"
	case EvSessionFailed:
		return "session_failed"
	case EvLagged:
		return "lagged"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its string label rather than its
// underlying int, so NDJSON consumers never depend on enum ordinals.
func (k ProgressEventKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// SessionSummary is carried by SessionCompleted/SessionFailed.
type SessionSummary struct {
	Counters        SessionCounters `json:"counters"`
	BudgetExhausted bool            `json:"budget_exhausted"`
	ErrorKind       string          `json:"error_kind,omitempty"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

// ProgressEvent is the tagged variant published on the ProgressBus.
type ProgressEvent struct {
	Kind      ProgressEventKind `json:"kind"`
	SessionID string            `json:"session_id"`
	At        time.Time         `json:"at"`

	// Populated depending on Kind.
	ArtistName  string          `json:"artist_name,omitempty"`
	VideoID     string          `json:"video_id,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Phase       string          `json:"phase,omitempty"`
	Summary     *SessionSummary `json:"summary,omitempty"`
	LaggedCount int             `json:"lagged_count,omitempty"`
}
