// SPDX-License-Identifier: MIT

package enrich

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fretline/discovery/internal/cache"
	"github.com/fretline/discovery/internal/extract"
	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/metrics"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
	"github.com/fretline/discovery/internal/quota"
	"github.com/fretline/discovery/internal/resilience"
)

// Coordinator fans out a profile to every configured Source in parallel,
// isolating each source's failures from its peers, and folds successes into
// the profile via model.MergeOutcome.
type Coordinator struct {
	sources []Source
	limiter *quota.Limiter
	cache   *cache.Cache
	retry   resilience.RetryPolicy
	clock   ports.Clock
}

// New constructs a Coordinator over the given sources.
func New(sources []Source, limiter *quota.Limiter, responseCache *cache.Cache, retry resilience.RetryPolicy, clock ports.Clock) *Coordinator {
	return &Coordinator{sources: sources, limiter: limiter, cache: responseCache, retry: retry, clock: clock}
}

// Enrich runs every source against profile and returns the merged result.
// It sets no overall time bound; EnrichWithBudget adds one.
func (c *Coordinator) Enrich(ctx context.Context, profile *model.ArtistProfile) *model.ArtistProfile {
	var mu sync.Mutex
	merged := profile.Clone()

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range c.sources {
		src := src
		g.Go(func() error {
			outcome := c.runSource(gctx, src, profile)
			mu.Lock()
			merged = model.MergeOutcome(merged, outcome)
			mu.Unlock()
			return nil // errors are captured in the outcome, never propagated to the group
		})
	}
	_ = g.Wait() // always nil: no Go() closure above returns a non-nil error

	return merged
}

func (c *Coordinator) runSource(ctx context.Context, src Source, profile *model.ArtistProfile) model.SourceOutcome {
	start := c.clock.Now()
	defer func() {
		metrics.EnrichmentSourceDuration.WithLabelValues(src.Name()).Observe(c.clock.Now().Sub(start).Seconds())
	}()

	cacheKey := src.Op() + ":" + extract.NormalizeName(profile.Name)
	raw, err := c.cache.GetOrLoad(src.Op(), cacheKey, src.CacheTTL(), func() (any, error) {
		return c.fetchWithBudgetAndRetry(ctx, src, profile)
	})
	if err != nil {
		metrics.EnrichmentSourceResult.WithLabelValues(src.Name(), "error").Inc()
		log.WithComponent("enrich").Warn().Str("source", src.Name()).Err(err).Msg("source failed")
		return model.SourceOutcome{Source: src.Name(), Err: err}
	}

	outcome, ok := raw.(model.SourceOutcome)
	if !ok {
		metrics.EnrichmentSourceResult.WithLabelValues(src.Name(), "error").Inc()
		return model.SourceOutcome{Source: src.Name(), Err: model.NewError(model.KindFatal, "enrich.cache", "cached value had unexpected type", nil)}
	}
	metrics.EnrichmentSourceResult.WithLabelValues(src.Name(), "success").Inc()
	return outcome
}

func (c *Coordinator) fetchWithBudgetAndRetry(ctx context.Context, src Source, profile *model.ArtistProfile) (model.SourceOutcome, error) {
	handle := c.limiter.Reserve(src.Op(), 1)
	if handle == nil {
		return model.SourceOutcome{}, model.NewError(model.KindRateLimited, "enrich."+src.Name(), "quota exhausted", nil)
	}

	var outcome model.SourceOutcome
	err := c.retry.Do(ctx, func(attempt int) error {
		attemptCtx, cancel := context.WithTimeout(ctx, src.Timeout())
		defer cancel()

		result, fetchErr := src.Fetch(attemptCtx, profile)
		if fetchErr != nil {
			return fetchErr
		}
		outcome = result
		return nil
	})

	if err != nil {
		handle.Refund()
		return model.SourceOutcome{}, err
	}
	handle.Commit()
	return outcome, nil
}

// EnrichWithBudget wraps Enrich with an overall deadline, per spec.md §4.6's
// "the Coordinator returns ... or the overall budget deadline fires".
func (c *Coordinator) EnrichWithBudget(ctx context.Context, profile *model.ArtistProfile, budget time.Duration) *model.ArtistProfile {
	if budget <= 0 {
		return c.Enrich(ctx, profile)
	}
	bctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	return c.Enrich(bctx, profile)
}
