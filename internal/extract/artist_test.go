// SPDX-License-Identifier: MIT

package extract

import "testing"

func TestExtractArtist_FeaturedArtistStripping(t *testing.T) {
	name, ok := ExtractArtist("Drake ft. Future - Life Is Good (Official Music Video)")
	if !ok || name != "Drake" {
		t.Fatalf("got %q, %v, want Drake, true", name, ok)
	}
}

func TestExtractArtist_Blocklist(t *testing.T) {
	if _, ok := ExtractArtist("Various Artists - Compilation (Official Music Video)"); ok {
		t.Fatal("expected blocklisted name to be rejected")
	}
}

func TestExtractArtist_AllPunctuationRejected(t *testing.T) {
	if _, ok := ExtractArtist("--- - Song (Official Music Video)"); ok {
		t.Fatal("expected all-punctuation artist to be rejected")
	}
}

func TestExtractArtist_ParenForm(t *testing.T) {
	name, ok := ExtractArtist("Eve (Official Video)")
	if !ok || name != "Eve" {
		t.Fatalf("got %q, %v, want Eve, true", name, ok)
	}
}

func TestExtractArtist_MultipleFeatureMarkers(t *testing.T) {
	name, ok := ExtractArtist("Bob feat. Carol & Dan - Hit (Official Music Video)")
	if !ok || name != "Bob" {
		t.Fatalf("got %q, %v, want Bob, true", name, ok)
	}
}
