// SPDX-License-Identifier: MIT

// Package score implements the Scorer from spec.md §4.8: a pure,
// deterministic function of a frozen ArtistProfile into a [0,1] enrichment
// score.
package score

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/fretline/discovery/internal/model"
)

const (
	weightYouTube    = 0.10
	weightInstagram  = 0.15
	weightSpotify    = 0.15
	weightEmail      = 0.20
	weightWebsite    = 0.10
	weightGenre      = 0.10
	weightBio        = 0.10
	weightAvatar     = 0.05
	weightLyricTheme = 0.05

	bonusInstagramFollowers = 0.05
	bonusSpotifyFollowers   = 0.05

	bioMinLength      = 50
	followerThreshold = 1000
)

// Score computes the deterministic enrichment score for a frozen profile.
// Score panics if called on a profile that has not been frozen, since §4.8's
// determinism property only holds once enrichment has stopped mutating it.
func Score(p *model.ArtistProfile) float64 {
	if !p.Frozen() {
		panic("score: profile must be frozen before scoring")
	}

	var total float64

	if p.YouTubeChannelID != "" {
		total += weightYouTube
	}
	if p.InstagramHandle != "" {
		total += weightInstagram
	}
	if p.SpotifyID != "" {
		total += weightSpotify
	}
	if isWellFormedEmail(p.Email) {
		total += weightEmail
	}
	if hasWebsiteLink(p.Links) {
		total += weightWebsite
	}
	if len(p.Genres) > 0 {
		total += weightGenre
	}
	if len(strings.TrimSpace(p.Bio)) > bioMinLength {
		total += weightBio
	}
	if p.AvatarURL != "" {
		total += weightAvatar
	}
	if len(p.LyricThemes) > 0 {
		total += weightLyricTheme
	}

	if p.FollowerCounts[model.FollowerInstagramFollowers] > followerThreshold {
		total += bonusInstagramFollowers
	}
	if p.FollowerCounts[model.FollowerSpotifyFollowers] > followerThreshold {
		total += bonusSpotifyFollowers
	}

	if total > 1 {
		total = 1
	}
	return total
}

func isWellFormedEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs()
}

func hasWebsiteLink(links model.SocialLinks) bool {
	link, ok := links[model.PlatformWebsite]
	return ok && isAbsoluteURL(link)
}
