// SPDX-License-Identifier: MIT

package score

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fretline/discovery/internal/model"
)

func fullProfile() *model.ArtistProfile {
	p := model.NewArtistProfile("Alice")
	p.YouTubeChannelID = "UCabc"
	p.InstagramHandle = "alice"
	p.SpotifyID = "sp123"
	p.Email = "alice@example.com"
	p.Links[model.PlatformWebsite] = "https://alice.example.com"
	p.Genres = []string{"pop"}
	p.Bio = "A very long biography that easily exceeds fifty characters in total length."
	p.AvatarURL = "https://cdn.example.com/alice.png"
	p.LyricThemes = []string{"love"}
	p.FollowerCounts[model.FollowerInstagramFollowers] = 5000
	p.FollowerCounts[model.FollowerSpotifyFollowers] = 5000
	return p
}

func TestScore_WeightsSumToOneOnFullProfile(t *testing.T) {
	s := Score(fullProfile().Freeze())
	require.InDelta(t, 1.0, s, 1e-9, "base weights alone should already sum to 1.0")
}

func TestScore_BonusesCapAtOne(t *testing.T) {
	s := Score(fullProfile().Freeze())
	require.LessOrEqual(t, s, 1.0)
}

func TestScore_EmptyProfileScoresZero(t *testing.T) {
	p := model.NewArtistProfile("Empty")
	require.Equal(t, 0.0, Score(p.Freeze()))
}

func TestScore_PartialProfile(t *testing.T) {
	p := model.NewArtistProfile("Partial")
	p.YouTubeChannelID = "UCabc"
	p.Email = "not-an-email"
	s := Score(p.Freeze())
	require.InDelta(t, weightYouTube, s, 1e-9, "malformed email must not count")
}

func TestScore_DeterministicAcrossInvocations(t *testing.T) {
	frozen := fullProfile().Freeze()
	first := Score(frozen)
	second := Score(frozen)
	require.Equal(t, first, second)
}

func TestScore_PanicsOnUnfrozenProfile(t *testing.T) {
	p := model.NewArtistProfile("Unfrozen")
	require.Panics(t, func() { Score(p) })
}

func TestScore_WebsiteRequiresAbsoluteURL(t *testing.T) {
	p := model.NewArtistProfile("RelativeLink")
	p.Links[model.PlatformWebsite] = "/not-absolute"
	require.Equal(t, 0.0, Score(p.Freeze()))
}

// Invariant 3: score bounds.
func TestScore_AlwaysWithinBounds(t *testing.T) {
	profiles := []*model.ArtistProfile{
		model.NewArtistProfile(""),
		fullProfile(),
	}
	for _, p := range profiles {
		s := Score(p.Freeze())
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0)
	}
}
