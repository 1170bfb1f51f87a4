// SPDX-License-Identifier: MIT

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fretline/discovery/internal/bus"
	"github.com/fretline/discovery/internal/cache"
	"github.com/fretline/discovery/internal/enrich"
	"github.com/fretline/discovery/internal/harvester"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/quota"
	"github.com/fretline/discovery/internal/resilience"
	"github.com/fretline/discovery/internal/testkit"
)

const twoCandidatePage = `<html><body>
<a href="/watch?v=AAAAAAAAAAA" title="Alice - Good Day (Official Music Video)">Alice</a>
<a href="/watch?v=BBBBBBBBBBB" title="Bob - Night Drive (Official Music Video)">Bob</a>
</body></html>`

func newTestOrchestrator(t *testing.T, fetcher *testkit.Fetcher, store *testkit.Store, clock *testkit.FixedClock) *Orchestrator {
	t.Helper()
	limiter := quota.New(10_000, nil, quota.UTCMidnightReset(), clock)
	respCache := cache.New(100, 0)
	retry := resilience.RetryPolicy{MaxRetries: 0, BaseDelay: time.Millisecond, Clock: clock, Random: testkit.ZeroRandom{}}
	coordinator := enrich.New(nil, limiter, respCache, retry, clock)

	deps := Deps{
		Store:       store,
		Fetcher:     fetcher,
		Coordinator: coordinator,
		Clock:       clock,
		Harvester:   harvester.Config{SearchHost: "www.youtube.com", NoProgressLimit: 1, SettleDelay: time.Millisecond},
	}
	return New(deps, Config{MaxConcurrentSessions: 2, EnrichWorkers: 2, OverFetchFactor: 2})
}

func waitForTerminal(t *testing.T, sub bus.Subscriber, timeout time.Duration) model.ProgressEvent {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case evt, ok := <-sub.C():
			if !ok {
				t.Fatal("subscriber channel closed before a terminal event arrived")
			}
			if evt.Kind == model.EvSessionCompleted || evt.Kind == model.EvSessionFailed {
				return evt
			}
		case <-deadline:
			t.Fatal("timed out waiting for a terminal event")
		}
	}
}

func TestOrchestrator_StartRunsToCompletionAndStoresArtists(t *testing.T) {
	fetcher := testkit.NewFetcher()
	searchURL := harvester.ComposeSearchURL("www.youtube.com", "acoustic pop", harvester.Filters{})
	fetcher.PlainResponses[searchURL] = twoCandidatePage
	fetcher.Pages = []string{twoCandidatePage}

	store := testkit.NewStore()
	clock := testkit.NewFixedClock(time.Now())
	o := newTestOrchestrator(t, fetcher, store, clock)

	id, err := o.Start(model.SessionRequest{Query: "acoustic pop", TargetCount: 2})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sub, err := o.Subscribe(id)
	require.NoError(t, err)

	terminal := waitForTerminal(t, sub, 5*time.Second)
	require.Equal(t, model.EvSessionCompleted, terminal.Kind)
	require.Equal(t, 2, terminal.Summary.Counters.ArtistsStored)

	snap, err := o.Status(id)
	require.NoError(t, err)
	require.Equal(t, model.SessionCompleted, snap.State)
	require.Equal(t, 2, snap.Counters.ArtistsStored)
	require.Equal(t, 2, store.StoredCount())
}

func TestOrchestrator_StartRejectsInvalidRequest(t *testing.T) {
	fetcher := testkit.NewFetcher()
	store := testkit.NewStore()
	clock := testkit.NewFixedClock(time.Now())
	o := newTestOrchestrator(t, fetcher, store, clock)

	_, err := o.Start(model.SessionRequest{Query: "", TargetCount: 1})
	require.Error(t, err)
	require.Equal(t, model.KindInvalidRequest, model.KindOf(err))
}

func TestOrchestrator_StartReturnsBusyAtConcurrencyCap(t *testing.T) {
	fetcher := testkit.NewFetcher() // no scripted pages: sessions block on harvest until cancelled
	store := testkit.NewStore()
	clock := testkit.NewFixedClock(time.Now())
	o := newTestOrchestrator(t, fetcher, store, clock)
	o.cfg.MaxConcurrentSessions = 1
	o.sem = make(chan struct{}, 1)

	id1, err := o.Start(model.SessionRequest{Query: "one", TargetCount: 5})
	require.NoError(t, err)

	_, err = o.Start(model.SessionRequest{Query: "two", TargetCount: 5})
	require.Error(t, err)
	require.Equal(t, model.KindBusy, model.KindOf(err))

	require.NoError(t, o.Cancel(id1))
}

func TestOrchestrator_CancelUnknownSessionReturnsNotFound(t *testing.T) {
	fetcher := testkit.NewFetcher()
	store := testkit.NewStore()
	clock := testkit.NewFixedClock(time.Now())
	o := newTestOrchestrator(t, fetcher, store, clock)

	err := o.Cancel("does-not-exist")
	require.Error(t, err)
	require.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestOrchestrator_CancelStopsARunningSession(t *testing.T) {
	fetcher := testkit.NewFetcher() // harvester blocks forever: no scripted pages ever progress
	store := testkit.NewStore()
	clock := testkit.NewFixedClock(time.Now())
	o := newTestOrchestrator(t, fetcher, store, clock)

	id, err := o.Start(model.SessionRequest{Query: "never matches", TargetCount: 5})
	require.NoError(t, err)

	sub, err := o.Subscribe(id)
	require.NoError(t, err)

	require.NoError(t, o.Cancel(id))

	terminal := waitForTerminal(t, sub, 5*time.Second)
	require.Equal(t, model.EvSessionFailed, terminal.Kind)

	snap, err := o.Status(id)
	require.NoError(t, err)
	require.Equal(t, model.SessionCancelled, snap.State)
}
