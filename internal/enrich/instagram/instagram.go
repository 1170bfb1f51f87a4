// SPDX-License-Identifier: MIT

// Package instagram implements the InstagramEnricher from spec.md §4.6: a
// profile-page scrape for follower count and bio link. The post count is
// not extracted.
package instagram

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fretline/discovery/internal/enrich"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

const (
	defaultHost = "https://www.instagram.com"
	op          = "instagram.profile"
)

var (
	followersJSON = regexp.MustCompile(`(?i)"edge_followed_by":\{"count":(\d+)\}`)
	followersText = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s*[Ff]ollowers`)
	bioURLPattern = regexp.MustCompile(`(?i)"external_url":"([^"]+)"`)
)

// Enricher implements enrich.Source for Instagram.
type Enricher struct {
	host    string
	fetcher ports.Fetcher
	clock   ports.Clock
}

// New constructs the Instagram enricher. host overrides the default
// instagram.com origin, primarily for tests.
func New(host string, fetcher ports.Fetcher, clock ports.Clock) *Enricher {
	if host == "" {
		host = defaultHost
	}
	return &Enricher{host: host, fetcher: fetcher, clock: clock}
}

func (e *Enricher) Name() string            { return "instagram" }
func (e *Enricher) Op() string              { return op }
func (e *Enricher) Timeout() time.Duration  { return 15 * time.Second }
func (e *Enricher) CacheTTL() time.Duration { return time.Hour }

// Fetch scrapes <host>/<handle>/ for follower count and a bio link.
// profile.InstagramHandle, or a mined model.PlatformInstagram link, must
// already identify the account.
func (e *Enricher) Fetch(ctx context.Context, profile *model.ArtistProfile) (model.SourceOutcome, error) {
	handle := profile.InstagramHandle
	if handle == "" {
		if link, ok := profile.Links[model.PlatformInstagram]; ok {
			handle = handleFromProfileURL(link)
		}
	}
	if handle == "" {
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, op, "no instagram handle known", nil)
	}

	pageURL := e.host + "/" + handle + "/"
	status, _, body, err := e.fetcher.FetchPlain(ctx, pageURL, e.clock.Now().Add(e.Timeout()))
	if err != nil {
		return model.SourceOutcome{}, model.NewError(model.KindTransient, op, "fetch failed", err)
	}
	switch {
	case status.Code == 404:
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, op, "profile not found", nil)
	case status.Code == 429 || status.Code == 403:
		return model.SourceOutcome{}, model.NewError(model.KindBlocked, op, "blocked", nil)
	case status.Code != 200:
		return model.SourceOutcome{}, model.NewError(model.KindTransient, op, "unexpected status", nil)
	}

	html := string(body)
	outcome := model.SourceOutcome{
		Source:          "instagram",
		InstagramHandle: handle,
		FollowerCounts:  map[model.FollowerKey]int64{},
		Links:           model.SocialLinks{model.PlatformInstagram: pageURL},
	}

	if m := followersJSON.FindStringSubmatch(html); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			outcome.FollowerCounts[model.FollowerInstagramFollowers] = n
		}
	} else if m := followersText.FindStringSubmatch(html); m != nil {
		if n, ok := enrich.ParseFollowerCount(strings.ReplaceAll(m[1], " ", "")); ok {
			outcome.FollowerCounts[model.FollowerInstagramFollowers] = n
		}
	}
	if m := bioURLPattern.FindStringSubmatch(html); m != nil && m[1] != "" {
		outcome.Links[model.PlatformWebsite] = m[1]
	}

	return outcome, nil
}

// handleFromProfileURL extracts "artistname" from a URL like
// https://www.instagram.com/artistname/.
func handleFromProfileURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Path, "/")
}
