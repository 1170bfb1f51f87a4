// SPDX-License-Identifier: MIT

// Package quota implements the QuotaLimiter described in spec.md §4.7: a
// cost-budget admission control keyed by named operation, with wall-clock
// resets and refundable reservations. Grounded on the teacher's
// internal/ratelimit package (per-key locking, promauto counters) but
// reworked from a requests-per-second limiter into an integer cost-unit
// budget, since the spec models cost rather than rate.
package quota

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/metrics"
	"github.com/fretline/discovery/internal/ports"
)

// defaultBurstRPS and defaultBurst bound how fast a single operation can
// spend its daily budget, so one goroutine storm can't exhaust a whole
// day's units in a handful of seconds even though the ledger would allow it.
const (
	defaultBurstRPS = 20
	defaultBurst    = 40
)

// Costs maps an operation name to its per-call cost in budget units.
type Costs map[string]int

// DefaultCosts mirrors spec.md §4.7's examples.
func DefaultCosts() Costs {
	return Costs{
		"youtube.search":   100,
		"youtube.videos":   1,
		"spotify.search":   1,
		"spotify.artist":   1,
		"instagram.profile": 1,
		"tiktok.profile":   1,
		"fetch.headless":   0, // time-budgeted, not cost-budgeted
		"fetch.plain":      0,
	}
}

// ResetPolicy determines when the daily budget resets.
type ResetPolicy struct {
	// ResetAt returns the next reset instant strictly after now.
	ResetAt func(now time.Time) time.Time
}

// UTCMidnightReset resets at the next UTC midnight, the spec.md default.
func UTCMidnightReset() ResetPolicy {
	return ResetPolicy{ResetAt: func(now time.Time) time.Time {
		u := now.UTC()
		next := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		return next
	}}
}

// Handle is a refundable reservation returned by Reserve.
type Handle struct {
	limiter  *Limiter
	op       string
	count    int
	resolved bool
	mu       sync.Mutex
}

// Refund returns the reserved budget, for use on a failure path. Idempotent.
func (h *Handle) Refund() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved {
		return
	}
	h.resolved = true
	h.limiter.refund(h.op, h.count)
}

// Commit is a no-op: spending is already reflected at Reserve time. It
// exists so call sites can express intent symmetrically with Refund.
func (h *Handle) Commit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resolved = true
}

// Limiter is the process-global QuotaLimiter. Daily budget and per-op costs
// are configurable; mutations are serialized with a single mutex since the
// admission decision must see a consistent remaining balance across ops.
type Limiter struct {
	mu sync.Mutex

	costs      Costs
	dailyUnits int
	remaining  int
	resetPolicy ResetPolicy
	nextReset  time.Time

	clock ports.Clock

	rateMu       sync.Mutex
	rateLimiters map[string]*rate.Limiter
}

// New creates a Limiter with a total daily budget of dailyUnits.
func New(dailyUnits int, costs Costs, resetPolicy ResetPolicy, clock ports.Clock) *Limiter {
	if clock == nil {
		clock = ports.RealClock{}
	}
	if costs == nil {
		costs = DefaultCosts()
	}
	l := &Limiter{
		costs:        costs,
		dailyUnits:   dailyUnits,
		remaining:    dailyUnits,
		resetPolicy:  resetPolicy,
		clock:        clock,
		rateLimiters: make(map[string]*rate.Limiter),
	}
	l.nextReset = resetPolicy.ResetAt(clock.Now())
	return l
}

func (l *Limiter) maybeReset() {
	now := l.clock.Now()
	if now.Before(l.nextReset) {
		return
	}
	l.remaining = l.dailyUnits
	l.nextReset = l.resetPolicy.ResetAt(now)
	metrics.QuotaResetTotal.Inc()
	log.WithComponent("quota").Info().Int("daily_units", l.dailyUnits).Msg("quota reset")
}

func (l *Limiter) cost(op string, count int) int {
	perCall, ok := l.costs[op]
	if !ok {
		perCall = 1
	}
	return perCall * count
}

// TryAcquire attempts a non-blocking, unconditional debit of count calls'
// worth of op. It returns false without mutating the budget if insufficient
// remains.
func (l *Limiter) TryAcquire(op string, count int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maybeReset()

	cost := l.cost(op, count)
	if cost == 0 {
		return true
	}
	if cost > l.remaining {
		metrics.QuotaRejected.WithLabelValues(op).Inc()
		return false
	}
	if !l.rateLimiterFor(op).Allow() {
		metrics.QuotaRejected.WithLabelValues(op).Inc()
		return false
	}
	l.remaining -= cost
	return true
}

// rateLimiterFor returns op's requests/second bucket, creating it with the
// package defaults on first use.
func (l *Limiter) rateLimiterFor(op string) *rate.Limiter {
	l.rateMu.Lock()
	defer l.rateMu.Unlock()
	rl, ok := l.rateLimiters[op]
	if !ok {
		rl = rate.NewLimiter(rate.Limit(defaultBurstRPS), defaultBurst)
		l.rateLimiters[op] = rl
	}
	return rl
}

// Reserve acquires budget and returns a refundable Handle, or nil if
// insufficient budget remains.
func (l *Limiter) Reserve(op string, count int) *Handle {
	if !l.TryAcquire(op, count) {
		return nil
	}
	return &Handle{limiter: l, op: op, count: count}
}

func (l *Limiter) refund(op string, count int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remaining += l.cost(op, count)
	if l.remaining > l.dailyUnits {
		l.remaining = l.dailyUnits
	}
}

// Remaining reports the current remaining budget, for SessionSummary's
// budget_exhausted determination.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maybeReset()
	return l.remaining
}

// Exhausted reports whether the next acquisition of op would fail.
func (l *Limiter) Exhausted(op string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maybeReset()
	return l.cost(op, 1) > l.remaining
}
