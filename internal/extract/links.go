// SPDX-License-Identifier: MIT

package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/fretline/discovery/internal/model"
)

// redirectPattern matches "<host>/redirect?...&q=<url-encoded URL>" style
// envelopes YouTube wraps description/about-page links in.
var redirectPattern = regexp.MustCompile(`https?://[^\s"'<>]*?/redirect\?[^\s"'<>]*`)

// bareURLPattern is a standard-enough URL matcher for free text.
var bareURLPattern = regexp.MustCompile(`https?://[^\s"'<>\)\]]+`)

var genericPathSegments = map[string]struct{}{
	"home":    {},
	"explore": {},
	"login":   {},
	"":        {},
}

type platformRule struct {
	platform model.SocialPlatform
	hosts    []string
}

var platformRules = []platformRule{
	{model.PlatformSpotify, []string{"open.spotify.com"}},
	{model.PlatformInstagram, []string{"instagram.com", "www.instagram.com"}},
	{model.PlatformTikTok, []string{"tiktok.com", "www.tiktok.com"}},
	{model.PlatformTwitter, []string{"twitter.com", "x.com"}},
	{model.PlatformFacebook, []string{"facebook.com", "www.facebook.com", "fb.com"}},
	{model.PlatformYouTube, []string{"youtube.com", "www.youtube.com", "youtu.be"}},
}

// ExtractSocialLinks decodes redirect envelopes, collects bare URLs, and
// buckets the resulting pool into the recognized SocialLinks platforms per
// spec.md §4.4. Later occurrences never overwrite an already-bucketed
// platform, matching the fill-when-empty merge semantics used downstream.
func ExtractSocialLinks(text string) model.SocialLinks {
	links := make(model.SocialLinks)

	pool := decodeRedirectURLs(text)
	pool = append(pool, bareURLPattern.FindAllString(text, -1)...)

	for _, raw := range pool {
		bucketURL(links, raw)
	}
	return links
}

// decodeRedirectURLs percent-decodes the q= parameter of every redirect
// envelope found in text.
func decodeRedirectURLs(text string) []string {
	var out []string
	for _, envelope := range redirectPattern.FindAllString(text, -1) {
		u, err := url.Parse(envelope)
		if err != nil {
			continue
		}
		q := u.Query().Get("q")
		if q == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(q); err == nil {
			out = append(out, decoded)
		}
	}
	return out
}

func bucketURL(links model.SocialLinks, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	host := strings.ToLower(u.Host)
	segment := strings.ToLower(firstPathSegment(u.Path))

	for _, rule := range platformRules {
		for _, h := range rule.hosts {
			if host != h {
				continue
			}
			if _, generic := genericPathSegments[segment]; generic {
				// A bare "instagram.com/home" is not an artist profile link.
				return
			}
			if _, exists := links[rule.platform]; exists {
				return
			}
			links[rule.platform] = raw
			return
		}
	}

	if _, exists := links[model.PlatformWebsite]; !exists {
		links[model.PlatformWebsite] = raw
	}
}

func firstPathSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
