// SPDX-License-Identifier: MIT

// Package youtube implements the YouTubeChannelEnricher from spec.md §4.6:
// a channel About-page scrape for subscriber count and any social links
// the channel owner lists there.
package youtube

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/fretline/discovery/internal/enrich"
	"github.com/fretline/discovery/internal/extract"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

const op = "youtube.videos"

var (
	subscriberCountJSON = regexp.MustCompile(`(?i)"subscriberCountText":\{"simpleText":"([^"]+)"`)
	subscriberText       = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s*subscribers?`)
)

// Enricher implements enrich.Source for a YouTube channel's About page.
type Enricher struct {
	fetcher ports.Fetcher
	clock   ports.Clock
}

// New constructs the YouTube channel enricher.
func New(fetcher ports.Fetcher, clock ports.Clock) *Enricher {
	return &Enricher{fetcher: fetcher, clock: clock}
}

func (e *Enricher) Name() string            { return "youtube" }
func (e *Enricher) Op() string              { return op }
func (e *Enricher) Timeout() time.Duration  { return 15 * time.Second }
func (e *Enricher) CacheTTL() time.Duration { return 15 * time.Minute }

// Fetch scrapes https://www.youtube.com/channel/<id>/about for subscriber
// count and any social links in the channel description.
// profile.YouTubeChannelID must already be set.
func (e *Enricher) Fetch(ctx context.Context, profile *model.ArtistProfile) (model.SourceOutcome, error) {
	if profile.YouTubeChannelID == "" {
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, op, "no channel id known", nil)
	}

	pageURL := "https://www.youtube.com/channel/" + profile.YouTubeChannelID + "/about"
	status, _, body, err := e.fetcher.FetchPlain(ctx, pageURL, e.clock.Now().Add(e.Timeout()))
	if err != nil {
		return model.SourceOutcome{}, model.NewError(model.KindTransient, op, "fetch failed", err)
	}
	switch {
	case status.Code == 404:
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, op, "channel not found", nil)
	case status.Code == 429 || status.Code == 403:
		return model.SourceOutcome{}, model.NewError(model.KindBlocked, op, "blocked", nil)
	case status.Code != 200:
		return model.SourceOutcome{}, model.NewError(model.KindTransient, op, "unexpected status", nil)
	}

	html := string(body)
	outcome := model.SourceOutcome{
		Source:         "youtube",
		FollowerCounts: map[model.FollowerKey]int64{},
		Links:          extract.ExtractSocialLinks(html),
	}

	if n, ok := subscriberCount(html); ok {
		outcome.FollowerCounts[model.FollowerYouTubeSubscribers] = n
	}

	return outcome, nil
}

func subscriberCount(html string) (int64, bool) {
	if m := subscriberCountJSON.FindStringSubmatch(html); m != nil {
		if n, ok := enrich.ParseFollowerCount(normalizeSubscriberText(m[1])); ok {
			return n, true
		}
	}
	if m := subscriberText.FindStringSubmatch(html); m != nil {
		if n, ok := enrich.ParseFollowerCount(strings.ReplaceAll(m[1], " ", "")); ok {
			return n, true
		}
	}
	return 0, false
}

// normalizeSubscriberText strips YouTube's "subscribers" suffix from values
// like "1.2M subscribers" down to the bare "1.2M" the suffix parser expects.
func normalizeSubscriberText(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, " subscribers")
	raw = strings.TrimSuffix(raw, " subscriber")
	return strings.ReplaceAll(raw, " ", "")
}
