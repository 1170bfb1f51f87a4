// SPDX-License-Identifier: MIT

package harvester

import (
	"context"
	"time"

	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// Defaults from spec.md §4.2.
const (
	DefaultNoProgressLimit = 3
	DefaultHardCeiling     = 1000
	DefaultSettleDelay     = 500 * time.Millisecond
)

// Config tunes one Harvester run.
type Config struct {
	SearchHost      string
	NoProgressLimit int
	HardCeiling     int
	SettleDelay     time.Duration
	RenderOptions   ports.RenderOptions
}

func (c Config) withDefaults() Config {
	if c.NoProgressLimit <= 0 {
		c.NoProgressLimit = DefaultNoProgressLimit
	}
	if c.HardCeiling <= 0 {
		c.HardCeiling = DefaultHardCeiling
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.SearchHost == "" {
		c.SearchHost = "www.youtube.com"
	}
	return c
}

// Harvester converts a search surface into a finite sequence of
// CandidateVideo, consumed once via Next. Restart by constructing a new
// Harvester; it is not resumable.
type Harvester struct {
	fetcher ports.Fetcher
	cfg     Config
}

// New constructs a Harvester. cfg's zero-valued fields take spec defaults.
func New(fetcher ports.Fetcher, cfg Config) *Harvester {
	return &Harvester{fetcher: fetcher, cfg: cfg.withDefaults()}
}

// Run drives the scroll loop and emits candidates on the returned channel,
// closing it when the harvester terminates per spec.md §4.2's three stop
// conditions. The channel is unbuffered: Run blocks on send, giving the
// consumer back-pressure control. stop, if non-nil, is checked between
// scroll steps.
func (h *Harvester) Run(ctx context.Context, query string, filters Filters, stop <-chan struct{}) <-chan model.CandidateVideo {
	out := make(chan model.CandidateVideo)
	go h.loop(ctx, query, filters, stop, out)
	return out
}

func (h *Harvester) loop(ctx context.Context, query string, filters Filters, stop <-chan struct{}, out chan<- model.CandidateVideo) {
	defer close(out)

	searchURL := ComposeSearchURL(h.cfg.SearchHost, query, filters)

	session, err := h.fetcher.OpenSession(ctx, h.cfg.RenderOptions)
	if err != nil {
		log.L().Warn().Err(err).Str("component", "harvester").Msg("open_session failed")
		return
	}
	defer func() { _ = session.Close(ctx) }()

	pageHTML, err := session.Navigate(ctx, searchURL, h.cfg.RenderOptions)
	if err != nil {
		log.L().Warn().Err(err).Str("component", "harvester").Msg("initial navigate failed")
		return
	}

	seen := make(map[string]struct{})
	noProgress := 0
	consecutiveScrollErrors := 0
	total := 0

	emit := func(candidates []model.CandidateVideo) bool {
		for _, c := range candidates {
			if _, dup := seen[c.VideoID]; dup {
				continue
			}
			seen[c.VideoID] = struct{}{}
			select {
			case <-ctx.Done():
				return false
			case <-stop:
				return false
			default:
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return false
			case <-stop:
				return false
			}
			total++
			if total >= h.cfg.HardCeiling {
				return false
			}
		}
		return true
	}

	fresh := dedupeAgainst(scanCandidates(pageHTML), seen)
	if !emit(fresh) {
		return
	}
	if len(fresh) == 0 {
		noProgress++
	}

	for {
		if total >= h.cfg.HardCeiling {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		scrolled, err := session.Scroll(ctx, h.cfg.SettleDelay)
		if err != nil {
			noProgress++
			consecutiveScrollErrors++
			if consecutiveScrollErrors >= 2 {
				log.L().Debug().Str("component", "harvester").Msg("two consecutive scroll errors, terminating")
				return
			}
			continue
		}
		consecutiveScrollErrors = 0
		pageHTML = scrolled

		fresh = dedupeAgainst(scanCandidates(pageHTML), seen)
		if len(fresh) == 0 {
			noProgress++
		} else {
			noProgress = 0
		}
		if !emit(fresh) {
			return
		}
		if noProgress >= h.cfg.NoProgressLimit {
			return
		}
	}
}

func dedupeAgainst(candidates []model.CandidateVideo, seen map[string]struct{}) []model.CandidateVideo {
	out := make([]model.CandidateVideo, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.VideoID]; !dup {
			out = append(out, c)
		}
	}
	return out
}
