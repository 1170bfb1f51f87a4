// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fretline/discovery/internal/adapters/analyzerstub"
	"github.com/fretline/discovery/internal/adapters/fetchhttp"
	"github.com/fretline/discovery/internal/adapters/storesql"
	"github.com/fretline/discovery/internal/cache"
	"github.com/fretline/discovery/internal/config"
	"github.com/fretline/discovery/internal/enrich"
	"github.com/fretline/discovery/internal/enrich/instagram"
	"github.com/fretline/discovery/internal/enrich/lyrics"
	"github.com/fretline/discovery/internal/enrich/spotify"
	"github.com/fretline/discovery/internal/enrich/tiktok"
	"github.com/fretline/discovery/internal/enrich/youtube"
	"github.com/fretline/discovery/internal/harvester"
	"github.com/fretline/discovery/internal/ports"
	"github.com/fretline/discovery/internal/quota"
	"github.com/fretline/discovery/internal/resilience"
	"github.com/fretline/discovery/internal/session"
)

const (
	defaultCacheEntries     = 10_000
	defaultCacheCleanup     = 0
	defaultLyricsSearchHost = "https://genius.com"
)

// buildOrchestrator wires every adapter and domain package behind the
// session.Orchestrator, the same assembly a long-lived daemon would do at
// startup; the CLI just does it once per invocation.
func buildOrchestrator(cfg config.AppConfig) (*session.Orchestrator, error) {
	clock := ports.RealClock{}
	random := ports.NewMathRandSource(1)

	store, err := storesql.Open(cfg.StoreURL)
	if err != nil {
		return nil, err
	}

	fetcher := fetchhttp.New(fetchhttp.DefaultConfig())

	limiter := quota.New(cfg.DailyCostBudget, quota.DefaultCosts(), quota.UTCMidnightReset(), clock)
	respCache := cache.New(defaultCacheEntries, defaultCacheCleanup)
	retry := resilience.DefaultRetryPolicy(random)

	var sources []enrich.Source
	if cfg.Spotify.Enabled() {
		sources = append(sources, spotify.New(spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
		}, fetcher, clock))
	}
	sources = append(sources,
		youtube.New(fetcher, clock),
		instagram.New("", fetcher, clock),
		tiktok.New("", fetcher, clock),
	)
	if cfg.AnalyzerAPIKey != "" {
		sources = append(sources, lyrics.New(defaultLyricsSearchHost, fetcher, analyzerstub.New(), clock))
	}

	coordinator := enrich.New(sources, limiter, respCache, retry, clock)

	deps := session.Deps{
		Store:       store,
		Fetcher:     fetcher,
		Coordinator: coordinator,
		Clock:       clock,
		Random:      random,
		Harvester:   harvester.Config{},
	}

	sessionCfg := session.Config{
		MaxConcurrentSessions: cfg.MaxConcurrentSessions,
		SnapshotDir:           cfg.SnapshotDir,
	}

	return session.New(deps, sessionCfg), nil
}
