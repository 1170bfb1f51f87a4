// SPDX-License-Identifier: MIT

package analyzerstub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeLyrics_DetectsThemes(t *testing.T) {
	a := New()
	result, err := a.AnalyzeLyrics(context.Background(), "Dancing all night at the club, baby it's a party", "en")
	require.NoError(t, err)
	require.Contains(t, result.Themes, "nightlife")
	require.Equal(t, "en", result.Language)
}

func TestAnalyzeLyrics_SentimentLeansPositive(t *testing.T) {
	a := New()
	result, err := a.AnalyzeLyrics(context.Background(), "I love you, happy heart, we rise and dream", "en")
	require.NoError(t, err)
	require.Greater(t, result.Sentiment, 0.0)
}

func TestAnalyzeLyrics_SentimentLeansNegative(t *testing.T) {
	a := New()
	result, err := a.AnalyzeLyrics(context.Background(), "so much pain, I cry, my heart is broken", "en")
	require.NoError(t, err)
	require.Less(t, result.Sentiment, 0.0)
}

func TestAnalyzeLyrics_EmptyTextIsNeutral(t *testing.T) {
	a := New()
	result, err := a.AnalyzeLyrics(context.Background(), "", "")
	require.NoError(t, err)
	require.Empty(t, result.Themes)
	require.Equal(t, 0.0, result.Sentiment)
	require.Equal(t, "en", result.Language)
}

func TestAnalyzeLyrics_ThemesCappedAtEight(t *testing.T) {
	a := New()
	text := "love heart night party money pain dream god street summer rain club hustle"
	result, err := a.AnalyzeLyrics(context.Background(), text, "en")
	require.NoError(t, err)
	require.LessOrEqual(t, len(result.Themes), maxThemes)
}
