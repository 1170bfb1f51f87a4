// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fretline/discovery/internal/bus"
	"github.com/fretline/discovery/internal/dedup"
	"github.com/fretline/discovery/internal/enrich"
	"github.com/fretline/discovery/internal/harvester"
	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/metrics"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// Deps are the orchestrator's injected collaborators. Every field is
// required except DedupIndex, which is an optional accelerator. Snapshots
// are enabled through Config.SnapshotDir, not through Deps.
type Deps struct {
	Store       ports.Store
	Fetcher     ports.Fetcher
	Coordinator *enrich.Coordinator
	DedupIndex  dedup.LocalIndex
	Clock       ports.Clock
	Random      ports.RandomSource

	Harvester harvester.Config
}

// Orchestrator is the process-wide SessionOrchestrator described by
// spec.md §4.1. It owns every in-flight Session and enforces the
// concurrent-session cap via a buffered semaphore, the same shape as the
// teacher's tuner-slot acquisition but keyed by a channel rather than a
// lease table since sessions have no cross-process identity to arbitrate.
type Orchestrator struct {
	deps Deps
	cfg  Config

	sem chan struct{}

	snapshotter *Snapshotter

	mu       sync.Mutex
	sessions map[string]*runningSession
}

// New constructs an Orchestrator. cfg's zero-valued fields take spec
// defaults.
func New(deps Deps, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	if deps.Clock == nil {
		deps.Clock = ports.RealClock{}
	}
	o := &Orchestrator{
		deps:     deps,
		cfg:      cfg,
		sem:      make(chan struct{}, cfg.MaxConcurrentSessions),
		sessions: make(map[string]*runningSession),
	}
	if cfg.SnapshotDir != "" {
		o.snapshotter = NewSnapshotter(cfg.SnapshotDir)
	}
	return o
}

type runningSession struct {
	mu         sync.Mutex
	sess       *model.Session
	bus        *bus.Bus
	cancel     context.CancelFunc
	cancelOnce sync.Once
	cancelled  bool
}

func (rs *runningSession) setState(s model.SessionState) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.State = s
}

func (rs *runningSession) addVideosSeen(n int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.Counters.VideosSeen += n
}

func (rs *runningSession) addVideosAccepted(n int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.Counters.VideosAccepted += n
}

func (rs *runningSession) addArtistsEnriched(n int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.Counters.ArtistsEnriched += n
}

func (rs *runningSession) addArtistsStored(n int) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.Counters.ArtistsStored += n
	return rs.sess.Counters.ArtistsStored
}

func (rs *runningSession) setBudgetExhausted(v bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.BudgetExhausted = v
}

func (rs *runningSession) setLastError(err *model.Error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.LastError = err
}

// markCancelled records that the session's context was cancelled by a
// genuine stop request (Cancel, or a fatal error forcing the pipeline
// down) as opposed to the driver's own internal use of cancellation to
// halt harvesting after success or budget exhaustion.
func (rs *runningSession) markCancelled() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.cancelled = true
}

func (rs *runningSession) wasCancelled() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.cancelled
}

func (rs *runningSession) setEnded(t time.Time) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sess.EndedAt = t
}

func (rs *runningSession) snapshot() model.Snapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.sess.ToSnapshot()
}

// Start validates request, allocates a Session, and launches the driver
// pipeline on its own goroutine, returning the session_id immediately.
func (o *Orchestrator) Start(req model.SessionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	select {
	case o.sem <- struct{}{}:
	default:
		return "", model.NewError(model.KindBusy, "session.start", "maximum concurrent sessions reached", nil)
	}

	id := uuid.NewString()
	sess := &model.Session{
		ID:        id,
		Request:   req,
		State:     model.SessionPending,
		StartedAt: o.deps.Clock.Now(),
	}
	rs := &runningSession{sess: sess, bus: bus.New(id)}

	ctx, cancel := context.WithCancel(context.Background())
	rs.cancel = cancel

	o.mu.Lock()
	o.sessions[id] = rs
	o.mu.Unlock()

	metrics.SessionsStarted.Inc()
	log.WithComponent("session").Info().Str("session_id", id).Str("query", req.Query).Msg("session started")

	go o.run(ctx, id, rs)

	return id, nil
}

// Cancel signals the session's cancellation token. Idempotent; returns
// NotFound for an unknown id.
func (o *Orchestrator) Cancel(id string) error {
	rs, err := o.lookup(id)
	if err != nil {
		return err
	}
	rs.markCancelled()
	rs.cancelOnce.Do(rs.cancel)
	return nil
}

// Status returns a point-in-time copy of the session's counters and state.
func (o *Orchestrator) Status(id string) (model.Snapshot, error) {
	rs, err := o.lookup(id)
	if err != nil {
		return model.Snapshot{}, err
	}
	return rs.snapshot(), nil
}

// Subscribe returns a ProgressBus subscriber for the session. Events
// published before Subscribe returns are never delivered to it.
func (o *Orchestrator) Subscribe(id string) (bus.Subscriber, error) {
	rs, err := o.lookup(id)
	if err != nil {
		return nil, err
	}
	return rs.bus.Subscribe(), nil
}

func (o *Orchestrator) lookup(id string) (*runningSession, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	rs, ok := o.sessions[id]
	if !ok {
		return nil, model.NewError(model.KindNotFound, "session.lookup", "unknown session id", nil)
	}
	return rs, nil
}

func (o *Orchestrator) release() {
	<-o.sem
}
