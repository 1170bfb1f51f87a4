// SPDX-License-Identifier: MIT

// Package spotify implements the SpotifyEnricher from spec.md §4.6: a
// Spotify Web API artist search (OAuth client-credentials) followed by a
// best-effort scrape of the public artist page for monthly listeners, which
// the API does not expose. The artist bio is not scraped.
package spotify

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

const (
	defaultAPIBase = "https://api.spotify.com/v1"
	opSearch       = "spotify.search"
)

// monthlyListenersJSON and monthlyListenersText are the two regex families
// spec.md §4.6 names for recovering monthly_listeners from the rendered
// artist page, since the public Web API does not expose that figure.
var (
	monthlyListenersJSON = regexp.MustCompile(`"monthlyListeners":(\d+)`)
	monthlyListenersText = regexp.MustCompile(`(?i)([\d,.]+)\s*monthly\s*listeners?`)
)

// Config holds the OAuth client-credentials and API endpoint settings.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIBaseURL   string
}

type searchResponse struct {
	Artists struct {
		Items []struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			Genres    []string `json:"genres"`
			Followers struct {
				Total int `json:"total"`
			} `json:"followers"`
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	} `json:"artists"`
}

// Enricher implements enrich.Source for Spotify.
type Enricher struct {
	client  *resty.Client
	fetcher ports.Fetcher
	clock   ports.Clock
}

// New constructs the Spotify enricher. The OAuth client-credentials token
// exchange is handled transparently by the oauth2-wrapped http.Client
// backing the resty client.
func New(cfg Config, fetcher ports.Fetcher, clock ports.Clock) *Enricher {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBase
	}
	ccCfg := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	client := resty.NewWithClient(ccCfg.Client(context.Background())).SetBaseURL(cfg.APIBaseURL)
	return &Enricher{client: client, fetcher: fetcher, clock: clock}
}

func (e *Enricher) Name() string          { return "spotify" }
func (e *Enricher) Op() string            { return opSearch }
func (e *Enricher) Timeout() time.Duration { return 20 * time.Second }
func (e *Enricher) CacheTTL() time.Duration { return 24 * time.Hour }

// Fetch searches for profile.Name, and on a match, folds in genres,
// followers, avatar, and a best-effort scrape of monthly listeners (no bio).
func (e *Enricher) Fetch(ctx context.Context, profile *model.ArtistProfile) (model.SourceOutcome, error) {
	var result searchResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"q": profile.Name, "type": "artist", "limit": "1"}).
		SetResult(&result).
		Get("/search")
	if err != nil {
		return model.SourceOutcome{}, model.NewError(model.KindTransient, "spotify.search", "request failed", err)
	}
	switch resp.StatusCode() {
	case 429, 403:
		return model.SourceOutcome{}, model.NewError(model.KindBlocked, "spotify.search", "blocked", nil)
	case 200:
	default:
		return model.SourceOutcome{}, model.NewError(model.KindTransient, "spotify.search", fmt.Sprintf("status %d", resp.StatusCode()), nil)
	}
	if len(result.Artists.Items) == 0 {
		return model.SourceOutcome{}, model.NewError(model.KindNotFound, "spotify.search", "no artist match", nil)
	}
	item := result.Artists.Items[0]

	outcome := model.SourceOutcome{
		Source:    "spotify",
		SpotifyID: item.ID,
		Genres:    append([]string(nil), item.Genres...),
		FollowerCounts: map[model.FollowerKey]int64{
			model.FollowerSpotifyFollowers: int64(item.Followers.Total),
		},
		Links: make(model.SocialLinks),
	}
	if len(item.Images) > 0 {
		outcome.AvatarURL = item.Images[0].URL
	}
	if item.ExternalURLs.Spotify != "" {
		outcome.Links[model.PlatformSpotify] = item.ExternalURLs.Spotify
	}

	if monthly, ok := e.scrapeMonthlyListeners(ctx, item.ID); ok {
		outcome.FollowerCounts[model.FollowerSpotifyMonthlyListeners] = monthly
	}
	return outcome, nil
}

func (e *Enricher) scrapeMonthlyListeners(ctx context.Context, artistID string) (int64, bool) {
	pageURL := "https://open.spotify.com/artist/" + artistID
	_, _, body, err := e.fetcher.FetchPlain(ctx, pageURL, e.clock.Now().Add(e.Timeout()))
	if err != nil {
		return 0, false
	}
	html := string(body)

	if m := monthlyListenersJSON.FindStringSubmatch(html); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return n, true
		}
	}
	if m := monthlyListenersText.FindStringSubmatch(html); m != nil {
		cleaned := strings.ReplaceAll(m[1], ",", "")
		if n, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return int64(n), true
		}
	}
	return 0, false
}
