// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeOutcome_MonotonicCounts(t *testing.T) {
	p := NewArtistProfile("Alice")
	p.FollowerCounts[FollowerInstagramFollowers] = 100

	lower := MergeOutcome(p, SourceOutcome{
		Source:         "instagram",
		FollowerCounts: map[FollowerKey]int64{FollowerInstagramFollowers: 50},
	})
	require.Equal(t, int64(100), lower.FollowerCounts[FollowerInstagramFollowers])

	higher := MergeOutcome(p, SourceOutcome{
		Source:         "instagram",
		FollowerCounts: map[FollowerKey]int64{FollowerInstagramFollowers: 500},
	})
	require.Equal(t, int64(500), higher.FollowerCounts[FollowerInstagramFollowers])
}

func TestMergeOutcome_StrongIDsFillOnlyWhenEmpty(t *testing.T) {
	p := NewArtistProfile("Bob")
	p.SpotifyID = "sp123"

	out := MergeOutcome(p, SourceOutcome{Source: "spotify", SpotifyID: "sp999"})
	require.Equal(t, "sp123", out.SpotifyID)
}

func TestMergeOutcome_FailurePreservesProfile(t *testing.T) {
	p := NewArtistProfile("Carol")
	p.Bio = "original"

	out := MergeOutcome(p, SourceOutcome{Source: "spotify", Bio: "replacement", Err: errCanned})
	require.Equal(t, "original", out.Bio)
}

func TestMergeOutcome_GenreUnionCappedOrder(t *testing.T) {
	p := NewArtistProfile("Dave")
	p.Genres = []string{"pop", "rock"}

	out := MergeOutcome(p, SourceOutcome{Source: "spotify", Genres: []string{"rock", "indie", "folk"}})
	require.Equal(t, []string{"pop", "rock", "indie", "folk"}, out.Genres)
}

func TestMergeOutcome_Associative(t *testing.T) {
	p := NewArtistProfile("Eve")
	a := SourceOutcome{Source: "spotify", FollowerCounts: map[FollowerKey]int64{FollowerSpotifyFollowers: 10}, Genres: []string{"pop"}}
	b := SourceOutcome{Source: "instagram", FollowerCounts: map[FollowerKey]int64{FollowerInstagramFollowers: 20}, Genres: []string{"rock"}}

	ab := MergeOutcome(MergeOutcome(p, a), b)
	ba := MergeOutcome(MergeOutcome(p, b), a)

	require.Equal(t, ab.FollowerCounts, ba.FollowerCounts)
	require.ElementsMatch(t, ab.Genres, ba.Genres)
}

var errCanned = &Error{Kind: KindBlocked, Op: "spotify.search", Message: "blocked"}
