// SPDX-License-Identifier: MIT

package model

const (
	maxGenres      = 10
	maxLyricThemes = 8
)

// SourceOutcome is the closed sum this pipeline uses in place of the
// attribute-absence idioms of dict-shaped enrichment results: each source
// either Applies a delta to a profile, or Failed with a classified reason.
type SourceOutcome struct {
	Source string // "spotify", "instagram", "tiktok", "youtube", "lyrics"

	// Delta fields, only meaningful when Err == nil. Zero values mean
	// "this source had no opinion", never "clear the existing value".
	YouTubeChannelID string
	SpotifyID        string
	InstagramHandle  string
	TikTokHandle     string
	Links            SocialLinks
	Genres           []string
	Bio              string
	FollowerCounts   map[FollowerKey]int64
	Location         string
	AvatarURL        string
	Email            string
	LyricThemes      []string

	Err error
}

// MergeOutcome applies a single source's outcome onto a fresh copy of p per
// the merge rules in spec.md §4.6.1: strong identifiers fill only when
// empty, counts grow monotonically, text fields fill-when-empty, and
// genres/themes union with an order-preserving cap. A failing outcome never
// mutates the profile.
func MergeOutcome(p *ArtistProfile, o SourceOutcome) *ArtistProfile {
	out := p.Clone()
	if o.Err != nil {
		return out
	}

	if out.YouTubeChannelID == "" {
		out.YouTubeChannelID = o.YouTubeChannelID
	}
	if out.SpotifyID == "" {
		out.SpotifyID = o.SpotifyID
	}
	if out.InstagramHandle == "" {
		out.InstagramHandle = o.InstagramHandle
	}
	if out.TikTokHandle == "" {
		out.TikTokHandle = o.TikTokHandle
	}
	for platform, url := range o.Links {
		if _, exists := out.Links[platform]; !exists && url != "" {
			out.Links[platform] = url
		}
	}

	for k, v := range o.FollowerCounts {
		if cur, ok := out.FollowerCounts[k]; !ok || v > cur {
			out.FollowerCounts[k] = v
		}
	}

	if out.Bio == "" {
		out.Bio = o.Bio
	}
	if out.Location == "" {
		out.Location = o.Location
	}
	if out.AvatarURL == "" {
		out.AvatarURL = o.AvatarURL
	}
	if out.Email == "" {
		out.Email = o.Email
	}

	out.Genres = unionCapped(out.Genres, o.Genres, maxGenres)
	out.LyricThemes = unionCapped(out.LyricThemes, o.LyricThemes, maxLyricThemes)

	return out
}

// unionCapped appends items from add not already present in base,
// preserving first-seen order, capped at max total entries.
func unionCapped(base, add []string, max int) []string {
	if len(base) >= max {
		return base
	}
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[v] = struct{}{}
	}
	out := append([]string(nil), base...)
	for _, v := range add {
		if len(out) >= max {
			break
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
