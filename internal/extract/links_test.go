// SPDX-License-Identifier: MIT

package extract

import (
	"net/url"
	"testing"

	"github.com/fretline/discovery/internal/model"
	"github.com/stretchr/testify/require"
)

func TestExtractSocialLinks_RedirectDecoding(t *testing.T) {
	desc := "Follow me: https://www.youtube.com/redirect?event=video_description&q=https%3A%2F%2Fwww.instagram.com%2Fartistx"
	links := ExtractSocialLinks(desc)
	require.Equal(t, "https://www.instagram.com/artistx", string(links[model.PlatformInstagram]))
}

// Invariant 6: extract_social_links(R(U)) ⊇ extract_social_links(U).
func TestExtractSocialLinks_RedirectRoundTrip(t *testing.T) {
	target := "https://open.spotify.com/artist/xyz123"
	direct := ExtractSocialLinks(target)

	envelope := "https://www.youtube.com/redirect?q=" + url.QueryEscape(target)
	viaRedirect := ExtractSocialLinks(envelope)

	for platform, link := range direct {
		require.Equal(t, link, viaRedirect[platform], "platform %s should be preserved through redirect decoding", platform)
	}
}

func TestExtractSocialLinks_RejectsGenericPaths(t *testing.T) {
	links := ExtractSocialLinks("https://www.instagram.com/home and https://tiktok.com/login")
	require.Empty(t, links)
}

func TestExtractSocialLinks_BucketsMultiplePlatforms(t *testing.T) {
	text := "IG: https://www.instagram.com/artistx TikTok: https://www.tiktok.com/@artistx Site: https://artistx.com"
	links := ExtractSocialLinks(text)
	require.Equal(t, "https://www.instagram.com/artistx", string(links[model.PlatformInstagram]))
	require.Equal(t, "https://www.tiktok.com/@artistx", string(links[model.PlatformTikTok]))
	require.Equal(t, "https://artistx.com", string(links[model.PlatformWebsite]))
}
