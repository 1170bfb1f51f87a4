// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fretline/discovery/internal/dedup"
	"github.com/fretline/discovery/internal/extract"
	"github.com/fretline/discovery/internal/harvester"
	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/metrics"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/score"
)

// run drives one session's full pipeline end to end per spec.md §4.1's
// seven-step sequence, releasing the concurrency-cap slot on return.
func (o *Orchestrator) run(ctx context.Context, id string, rs *runningSession) {
	defer o.release()

	rs.setState(model.SessionRunning)
	rs.bus.Publish(model.ProgressEvent{Kind: model.EvSessionStarted, SessionID: id, At: o.deps.Clock.Now()})
	rs.bus.Publish(model.ProgressEvent{Kind: model.EvPhaseProgress, SessionID: id, Phase: "harvesting", At: o.deps.Clock.Now()})

	req := rs.sess.Request
	overFetchCap := req.TargetCount * o.cfg.OverFetchFactor

	stopHarvest := make(chan struct{})
	var stopOnce sync.Once
	stopHarvesting := func() { stopOnce.Do(func() { close(stopHarvest) }) }

	h := harvester.New(o.deps.Fetcher, o.deps.Harvester)
	candidates := h.Run(ctx, req.Query, harvesterFilters(req.Filters), stopHarvest)

	deduplicator := dedup.New(o.deps.Store, o.deps.DedupIndex)
	workQueue := make(chan *model.ArtistProfile, o.cfg.EnrichWorkers*2)

	var fatalOnce sync.Once
	var fatalErr *model.Error
	recordFatal := func(err *model.Error) {
		fatalOnce.Do(func() {
			fatalErr = err
			rs.setLastError(err)
			stopHarvesting()
			rs.markCancelled()
			rs.cancelOnce.Do(rs.cancel)
		})
	}

	producerDone := make(chan struct{})
	go o.produce(ctx, id, rs, candidates, deduplicator, workQueue, overFetchCap, stopHarvesting, recordFatal, producerDone)

	var workerWG sync.WaitGroup
	for i := 0; i < o.cfg.EnrichWorkers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			o.enrichWorker(ctx, id, rs, workQueue, req.TargetCount, stopHarvesting, recordFatal, deduplicator)
		}()
	}

	<-producerDone
	rs.bus.Publish(model.ProgressEvent{Kind: model.EvPhaseProgress, SessionID: id, Phase: "enriching", At: o.deps.Clock.Now()})

	workersDone := make(chan struct{})
	go func() {
		workerWG.Wait()
		close(workersDone)
	}()
	if ctx.Err() != nil {
		select {
		case <-workersDone:
		case <-time.After(o.cfg.AbortGrace):
			log.WithComponent("session").Warn().Str("session_id", id).Msg("abort grace elapsed with workers still in flight")
		}
	} else {
		<-workersDone
	}

	o.finish(id, rs, fatalErr)
}

// produce reads candidates in arrival order, applies the Filter, Extractor,
// and Deduplicator in sequence (step 3), and feeds accepted profiles to the
// enrichment work queue (step 4) until the candidate stream ends, the
// over-fetch cap is reached, or the session is cancelled.
func (o *Orchestrator) produce(
	ctx context.Context,
	id string,
	rs *runningSession,
	candidates <-chan model.CandidateVideo,
	deduplicator *dedup.Deduplicator,
	workQueue chan<- *model.ArtistProfile,
	overFetchCap int,
	stopHarvesting func(),
	recordFatal func(*model.Error),
	done chan<- struct{},
) {
	defer close(done)
	defer close(workQueue)

	accepted := 0
	for {
		select {
		case <-ctx.Done():
			return
		case cand, ok := <-candidates:
			if !ok {
				return
			}
			rs.addVideosSeen(1)
			metrics.CandidatesSeen.Inc()
			rs.bus.Publish(model.ProgressEvent{Kind: model.EvCandidateFound, SessionID: id, VideoID: cand.VideoID, At: o.deps.Clock.Now()})

			profile, reason, ok := filterAndExtract(cand)
			if !ok {
				o.reject(id, rs, "", cand.VideoID, reason)
				continue
			}

			outcome, _, err := deduplicator.CheckAndRegister(ctx, profile)
			if err != nil {
				if model.KindOf(err).Terminal() {
					recordFatal(asSessionError(err, "session.dedup"))
					return
				}
				o.reject(id, rs, profile.Name, cand.VideoID, "dedup_error")
				continue
			}
			if outcome == dedup.Duplicate {
				o.reject(id, rs, profile.Name, cand.VideoID, "duplicate")
				continue
			}

			rs.addVideosAccepted(1)
			metrics.CandidatesAccepted.Inc()
			rs.bus.Publish(model.ProgressEvent{Kind: model.EvArtistAccepted, SessionID: id, ArtistName: profile.Name, VideoID: cand.VideoID, At: o.deps.Clock.Now()})

			accepted++
			select {
			case workQueue <- profile:
			case <-ctx.Done():
				return
			}

			if accepted >= overFetchCap {
				stopHarvesting()
				return
			}
		}
	}
}

func (o *Orchestrator) reject(id string, rs *runningSession, artistName, videoID, reason string) {
	metrics.ArtistsRejected.WithLabelValues(reason).Inc()
	rs.bus.Publish(model.ProgressEvent{
		Kind:       model.EvArtistRejected,
		SessionID:  id,
		ArtistName: artistName,
		VideoID:    videoID,
		Reason:     reason,
		At:         o.deps.Clock.Now(),
	})
}

// filterAndExtract applies spec.md §4.4's title gate and artist-name
// extraction, seeding the resulting profile with the candidate's strong
// YouTube identifier and any social links mined from its description.
func filterAndExtract(cand model.CandidateVideo) (*model.ArtistProfile, string, bool) {
	if !extract.TitleFilter(cand.Title) {
		return nil, "title_filter", false
	}
	name, ok := extract.ExtractArtist(cand.Title)
	if !ok {
		return nil, "unextractable_artist", false
	}

	profile := model.NewArtistProfile(name)
	profile.YouTubeChannelID = cand.ChannelID
	if cand.DescriptionSnippet != "" {
		for platform, link := range extract.ExtractSocialLinks(cand.DescriptionSnippet) {
			profile.Links[platform] = link
		}
	}
	return profile, "", true
}

// enrichWorker consumes accepted profiles, runs them through the
// EnrichmentCoordinator, scores and stores the result (step 5), and signals
// the producer to stop once target_count artists have been stored or the
// session's budget is exhausted (step 6).
func (o *Orchestrator) enrichWorker(
	ctx context.Context,
	id string,
	rs *runningSession,
	workQueue <-chan *model.ArtistProfile,
	target int,
	stopHarvesting func(),
	recordFatal func(*model.Error),
	deduplicator *dedup.Deduplicator,
) {
	for profile := range workQueue {
		enriched := o.deps.Coordinator.Enrich(ctx, profile)
		rs.addArtistsEnriched(1)
		rs.bus.Publish(model.ProgressEvent{Kind: model.EvArtistEnriched, SessionID: id, ArtistName: enriched.Name, At: o.deps.Clock.Now()})

		if ctx.Err() != nil {
			// Cancellation fired mid-enrichment: spec.md §5 discards partial
			// results rather than persisting whatever enrichment completed.
			continue
		}

		frozen := enriched.Freeze()
		frozen.EnrichmentScore = score.Score(frozen)

		if _, err := o.deps.Store.UpsertArtist(ctx, frozen); err != nil {
			kind := model.KindOf(err)
			if kind.Terminal() {
				recordFatal(asSessionError(err, "session.store"))
				return
			}
			metrics.ArtistsRejected.WithLabelValues("store_error").Inc()
			continue
		}

		stored := rs.addArtistsStored(1)
		metrics.ArtistsStored.Inc()
		rs.bus.Publish(model.ProgressEvent{Kind: model.EvArtistStored, SessionID: id, ArtistName: frozen.Name, At: o.deps.Clock.Now()})

		if o.snapshotter != nil {
			if err := o.snapshotter.Write(id, rs.snapshot(), deduplicator.Fingerprints()); err != nil {
				log.WithComponent("session").Warn().Err(err).Str("session_id", id).Msg("failed to write session snapshot")
			}
		}

		if stored >= target {
			stopHarvesting()
			rs.cancelOnce.Do(rs.cancel)
			return
		}

		if exhausted := o.budgetExhausted(rs); exhausted {
			rs.setBudgetExhausted(true)
			stopHarvesting()
			rs.cancelOnce.Do(rs.cancel)
			return
		}
	}
}

// budgetExhausted reports whether the request's own MaxCostUnits cap (when
// set) has been reached, using artists-enriched as the per-session cost
// proxy: the exact per-source cost ledger lives in the process-global
// QuotaLimiter, which already gates individual source calls independently
// of any one session's view.
func (o *Orchestrator) budgetExhausted(rs *runningSession) bool {
	max := rs.sess.Request.MaxCostUnits
	if max <= 0 {
		return false
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.sess.Counters.ArtistsEnriched >= max
}

func asSessionError(err error, op string) *model.Error {
	var e *model.Error
	if errors.As(err, &e) {
		return e
	}
	return model.NewError(model.KindOf(err), op, err.Error(), err)
}

// finish determines the session's terminal state and publishes it,
// completing step 7 of the driver sequence. Terminal state is classified
// from fatalErr and rs's own cancelled flag, never from ctx.Err(): the
// driver also cancels ctx internally to halt harvesting once target_count
// is reached or the budget is exhausted, and neither of those is a
// cancelled session.
func (o *Orchestrator) finish(id string, rs *runningSession, fatalErr *model.Error) {
	rs.setEnded(o.deps.Clock.Now())

	var state model.SessionState
	switch {
	case fatalErr != nil:
		state = model.SessionFailed
	case rs.wasCancelled():
		state = model.SessionCancelled
	default:
		state = model.SessionCompleted
	}
	rs.setState(state)

	snap := rs.snapshot()
	summary := &model.SessionSummary{
		Counters:        snap.Counters,
		BudgetExhausted: snap.BudgetExhausted,
	}
	if fatalErr != nil {
		summary.ErrorKind = fatalErr.Kind.String()
		summary.ErrorMessage = fatalErr.Error()
	} else if state == model.SessionCancelled {
		summary.ErrorKind = model.KindCancelled.String()
		summary.ErrorMessage = "session cancelled"
	}

	evt := model.ProgressEvent{Kind: model.EvSessionCompleted, SessionID: id, Summary: summary, At: o.deps.Clock.Now()}
	if state != model.SessionCompleted {
		evt.Kind = model.EvSessionFailed
	}
	rs.bus.PublishTerminal(evt)

	metrics.SessionsCompleted.WithLabelValues(state.String()).Inc()

	if err := o.deps.Store.RecordSession(context.Background(), snap); err != nil {
		log.WithComponent("session").Error().Err(err).Str("session_id", id).Msg("failed to record session snapshot")
	}

	if o.snapshotter != nil {
		if err := o.snapshotter.Remove(id); err != nil {
			log.WithComponent("session").Warn().Err(err).Str("session_id", id).Msg("failed to remove session snapshot file")
		}
	}

	log.WithComponent("session").Info().
		Str("session_id", id).
		Str("state", state.String()).
		Int("artists_stored", snap.Counters.ArtistsStored).
		Msg("session finished")
}
