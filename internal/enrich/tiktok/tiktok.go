// SPDX-License-Identifier: MIT

// Package tiktok implements the TikTokEnricher from spec.md §4.6: a
// profile-page scrape for follower count and total likes.
package tiktok

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
	defaultHost = "https://www.tiktok.com"
	op          = "tiktok.profile"
)

var (
	followerCountJSON = regexp.MustCompile(`(?i)"followerCount":(\d+)`)
	heartCountJSON    = regexp.MustCompile(`(?i)"heartCount":(\d+)`)
	followersText     = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s*[Ff]ollowers`)
	likesText         = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s*[Ll]ikes`)
)

// Enricher implements enrich.Source for TikTok.
type Enricher struct {
	host    string
	fetcher ports.Fetcher
	clock   ports.Clock
}

// New constructs the TikTok enricher. host overrides the default
// tiktok.com origin, primarily for tests.
func New(host string, fetcher ports.Fetcher, clock ports.Clock) *Enricher {
	if host == "" {
		host = defaultHost
	}
	return &Enricher{host: host, fetcher: fetcher, clock: clock}
}

func (e *Enricher) Name() string            { return "tiktok" }
func (e *Enricher) Op() string              { return op }
func (e *Enricher) Timeout() time.Duration  { return 15 * time.Second }
func (e *Enricher) CacheTTL() time.Duration { return time.Hour }

// Fetch scrapes <host>/@<handle> for follower count and total likes.
// profile.TikTokHandle, or a mined model.PlatformTikTok link, must already
// identify the account.
func (e *Enricher) Fetch(ctx context.Context, profile *model.ArtistProfile) (model.SourceOutcome, error) {
	handle := profile.TikTokHandle
	if handle == "" {
		if link, ok := profile.Links[model.PlatformTikTok]; ok {
			handle = handleFromProfileURL(link)
		}
	}
	if handle == "" {
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, op, "no tiktok handle known", nil)
	}

	pageURL := e.host + "/@" + handle
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
		Source:         "tiktok",
		TikTokHandle:   handle,
		FollowerCounts: map[model.FollowerKey]int64{},
		Links:          model.SocialLinks{model.PlatformTikTok: pageURL},
	}

	if n, ok := extractCount(html, followerCountJSON, followersText); ok {
		outcome.FollowerCounts[model.FollowerTikTokFollowers] = n
	}
	if n, ok := extractCount(html, heartCountJSON, likesText); ok {
		outcome.FollowerCounts[model.FollowerTikTokLikes] = n
	}

	return outcome, nil
}

func extractCount(html string, jsonPattern, textPattern *regexp.Regexp) (int64, bool) {
	if m := jsonPattern.FindStringSubmatch(html); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return n, true
		}
	}
	if m := textPattern.FindStringSubmatch(html); m != nil {
		return enrich.ParseFollowerCount(strings.ReplaceAll(m[1], " ", ""))
	}
	return 0, false
}

// handleFromProfileURL extracts "artistname" from a URL like
// https://www.tiktok.com/@artistname.
func handleFromProfileURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.Trim(u.Path, "/"), "@")
}
