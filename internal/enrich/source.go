// SPDX-License-Identifier: MIT

package enrich

import (
	"context"
	"time"

	"github.com/fretline/discovery/internal/model"
)

// Source is one enrichment provider (Spotify, Instagram, TikTok, YouTube
// channel, Lyrics). Implementations live in enrich's subpackages and are
// wired into a Coordinator at session-construction time.
type Source interface {
	// Name identifies the source for logging, metrics, and SourceOutcome.
	Name() string
	// Op is the QuotaLimiter operation name this source's calls are costed
	// under, and the Cache key namespace.
	Op() string
	// Timeout bounds one Fetch call for this source, per spec.md §4.6.
	Timeout() time.Duration
	// CacheTTL is how long a successful result is cached, per spec.md §4.7.
	CacheTTL() time.Duration
	// Fetch performs the source's enrichment work for profile and returns a
	// SourceOutcome delta. Fetch must not mutate profile.
	Fetch(ctx context.Context, profile *model.ArtistProfile) (model.SourceOutcome, error)
}
