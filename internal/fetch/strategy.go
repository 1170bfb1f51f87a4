// SPDX-License-Identifier: MIT

// Package fetch implements the StrategyFetcher from spec.md §4.3: a
// cascading sequence of fetch strategies (plain HTTP, then three
// progressively heavier headless-render attempts), returning the first
// strategy's success within its own timeout.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
	"github.com/fretline/discovery/internal/resilience"
)

// Strategy identifies one of the four fixed, ordered fetch strategies.
type Strategy int

const (
	PlainHTTP Strategy = iota
	HeadlessDefault
	HeadlessScroll
	HeadlessStealth
)

func (s Strategy) String() string {
	switch s {
	case PlainHTTP:
		return "plain_http"
	case HeadlessDefault:
		return "headless_default"
	case HeadlessScroll:
		return "headless_scroll"
	case HeadlessStealth:
		return "headless_stealth"
	default:
		return "unknown"
	}
}

// Timeouts per strategy, fixed order fastest-first, per spec.md §4.3.
var timeouts = map[Strategy]time.Duration{
	PlainHTTP:       5 * time.Second,
	HeadlessDefault: 10 * time.Second,
	HeadlessScroll:  15 * time.Second,
	HeadlessStealth: 20 * time.Second,
}

// Cooldown between strategy attempts.
const Cooldown = 1 * time.Second

var orderedStrategies = []Strategy{PlainHTTP, HeadlessDefault, HeadlessScroll, HeadlessStealth}

// userAgentPool backs the HeadlessStealth strategy's spoofed-UA rotation.
var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
}

// Hints carries caller guidance; currently only a preferred viewport seed
// for stealth rotation.
type Hints struct {
	ViewportWidth  int
	ViewportHeight int
}

// Result is a successful fetch's output.
type Result struct {
	HTML      string
	FinalURL  string
	Strategy  Strategy
	Took      time.Duration
}

// StrategyFetcher tries each strategy in order, within its own deadline,
// until one succeeds. A per-host circuit breaker (closed by default) skips
// ahead to HeadlessStealth once a host has been reliably Blocked, so a
// known-hostile host doesn't re-pay three doomed attempts on every call.
type StrategyFetcher struct {
	fetcher  ports.Fetcher
	random   ports.RandomSource
	clock    ports.Clock
	cooldown time.Duration

	mu       sync.Mutex
	breakers map[string]*resilience.CircuitBreaker
}

// Option configures a StrategyFetcher.
type Option func(*StrategyFetcher)

// WithCooldown overrides the default 1s inter-strategy cooldown; tests use
// this to avoid paying real wall-clock delays for escalation scenarios.
func WithCooldown(d time.Duration) Option {
	return func(f *StrategyFetcher) { f.cooldown = d }
}

// New constructs a StrategyFetcher.
func New(fetcher ports.Fetcher, random ports.RandomSource, clock ports.Clock, opts ...Option) *StrategyFetcher {
	f := &StrategyFetcher{
		fetcher:  fetcher,
		random:   random,
		breakers: make(map[string]*resilience.CircuitBreaker),
		clock:    clock,
		cooldown: Cooldown,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch tries strategies in order and returns the first success.
func (f *StrategyFetcher) Fetch(ctx context.Context, url string, hints Hints) (Result, error) {
	breaker := f.breakerFor(hostBucket(hostOf(url)))

	strategies := orderedStrategies
	if breaker.GetState() == resilience.StateOpen {
		strategies = []Strategy{HeadlessStealth}
	}

	var lastErr error
	for i, strategy := range strategies {
		if i > 0 {
			select {
			case <-ctx.Done():
				return Result{}, model.NewError(model.KindCancelled, "fetch.strategy", "context cancelled between strategies", ctx.Err())
			case <-time.After(f.cooldown):
			}
		}

		deadline := f.clock.Now().Add(timeouts[strategy])
		attemptCtx, cancel := context.WithDeadline(ctx, deadline)
		breaker.RecordAttempt()
		result, err := f.attempt(attemptCtx, strategy, url, hints, deadline)
		cancel()

		if err == nil {
			breaker.RecordSuccess()
			result.Strategy = strategy
			return result, nil
		}

		lastErr = err
		if model.KindOf(err) == model.KindBlocked {
			breaker.RecordFailure()
		}
		log.L().Debug().Str("component", "fetch").Str("strategy", strategy.String()).Err(err).Msg("strategy failed, escalating")
	}

	if lastErr == nil {
		lastErr = model.NewError(model.KindTransient, "fetch.strategy", "no strategies attempted", nil)
	}
	return Result{}, lastErr
}

func (f *StrategyFetcher) attempt(ctx context.Context, strategy Strategy, url string, hints Hints, deadline time.Time) (Result, error) {
	start := f.clock.Now()
	switch strategy {
	case PlainHTTP:
		status, _, body, err := f.fetcher.FetchPlain(ctx, url, deadline)
		if err != nil {
			return Result{}, classifyFetchErr(err)
		}
		if status.Code == http.StatusNotFound {
			return Result{}, model.NewError(model.KindNotFound, "fetch.plain_http", "404", nil)
		}
		if status.Code == http.StatusForbidden || status.Code == http.StatusTooManyRequests {
			return Result{}, model.NewError(model.KindBlocked, "fetch.plain_http", "blocked", nil)
		}
		return Result{HTML: string(body), FinalURL: url, Took: f.clock.Now().Sub(start)}, nil
	case HeadlessDefault:
		return f.renderedAttempt(ctx, url, ports.RenderOptions{JavaScriptEnabled: true}, deadline, start)
	case HeadlessScroll:
		return f.renderedAttempt(ctx, url, ports.RenderOptions{JavaScriptEnabled: true, ScrollSteps: 3, SettleDelay: 500 * time.Millisecond}, deadline, start)
	case HeadlessStealth:
		opts := ports.RenderOptions{
			JavaScriptEnabled: true,
			UserAgent:         f.pickUserAgent(),
			ViewportWidth:     hints.ViewportWidth,
			ViewportHeight:    hints.ViewportHeight,
		}
		if opts.ViewportWidth == 0 {
			opts.ViewportWidth = 1280 + int(f.random.Float64()*200)
		}
		if opts.ViewportHeight == 0 {
			opts.ViewportHeight = 720 + int(f.random.Float64()*200)
		}
		return f.renderedAttempt(ctx, url, opts, deadline, start)
	default:
		return Result{}, model.NewError(model.KindFatal, "fetch.strategy", "unknown strategy", nil)
	}
}

func (f *StrategyFetcher) renderedAttempt(ctx context.Context, url string, opts ports.RenderOptions, deadline time.Time, start time.Time) (Result, error) {
	finalURL, html, _, err := f.fetcher.FetchRendered(ctx, url, opts, deadline)
	if err != nil {
		return Result{}, classifyFetchErr(err)
	}
	return Result{HTML: html, FinalURL: finalURL, Took: f.clock.Now().Sub(start)}, nil
}

func (f *StrategyFetcher) pickUserAgent() string {
	idx := int(f.random.Float64() * float64(len(userAgentPool)))
	if idx >= len(userAgentPool) {
		idx = len(userAgentPool) - 1
	}
	return userAgentPool[idx]
}

func (f *StrategyFetcher) breakerFor(bucket string) *resilience.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.breakers[bucket]; ok {
		return b
	}
	b := resilience.New("fetch:"+bucket, 3, 5, 5*time.Minute, time.Minute, resilience.WithClock(f.clock))
	f.breakers[bucket] = b
	return b
}

// hostBucket collapses an arbitrary host into one of a small, fixed set of
// breaker/metric labels, avoiding the unbounded cardinality a raw per-host
// breaker would put on metrics.CircuitBreakerState (artist landing pages and
// lyrics sites span an open-ended number of distinct hosts).
func hostBucket(host string) string {
	switch {
	case strings.Contains(host, "spotify"):
		return "spotify"
	case strings.Contains(host, "instagram"):
		return "instagram"
	case strings.Contains(host, "tiktok"):
		return "tiktok"
	case strings.Contains(host, "youtube"), strings.Contains(host, "youtu.be"):
		return "youtube"
	default:
		return "other"
	}
}

// classifyFetchErr maps an opaque Fetcher-port error into the taxonomy via
// model.KindOf, which already treats context cancellation/deadline as
// Cancelled and anything unrecognized as retryable Transient (covering
// spec.md's Timeout and Upstream cases).
func classifyFetchErr(err error) error {
	if err == nil {
		return nil
	}
	return model.NewError(model.KindOf(err), "fetch.strategy", "", err)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
