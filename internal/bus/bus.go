// SPDX-License-Identifier: MIT

// Package bus implements the per-session ProgressBus: a bounded,
// multi-consumer fan-out channel with a drop-the-slowest-subscriber
// back-pressure policy. Grounded on the teacher's in-process pub/sub
// (internal/pipeline/bus/memory_bus.go): publishers never block on a slow
// subscriber, and a dropped subscriber gets one final Lagged event instead
// of silent starvation.
package bus

import (
	"sync"
	"time"

	"github.com/fretline/discovery/internal/metrics"
	"github.com/fretline/discovery/internal/model"
)

// DefaultBufferSize is the per-subscriber channel capacity.
const DefaultBufferSize = 64

// TerminalFlushTimeout bounds how long PublishTerminal blocks per
// subscriber. A subscriber still draining its buffer gets the terminal
// event within this window; only a subscriber that has stopped consuming
// entirely (a dead consumer goroutine) gets dropped.
const TerminalFlushTimeout = 2 * time.Second

// Subscriber receives ProgressEvents published after it subscribed; there is
// no backlog replay.
type Subscriber interface {
	C() <-chan model.ProgressEvent
	Close()
}

// Bus is a single session's ProgressBus.
type Bus struct {
	sessionID string

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

// New creates a ProgressBus for one session.
func New(sessionID string) *Bus {
	return &Bus{sessionID: sessionID, subs: make(map[*subscriber]struct{})}
}

type subscriber struct {
	bus     *Bus
	ch      chan model.ProgressEvent
	lagged  bool
	closeMu sync.Mutex
	closed  bool
}

func (s *subscriber) C() <-chan model.ProgressEvent { return s.ch }

func (s *subscriber) Close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.bus.mu.Lock()
	delete(s.bus.subs, s)
	s.bus.mu.Unlock()
	close(s.ch)
}

// Subscribe registers a new subscriber. Events published before Subscribe
// returns are never delivered to it.
func (b *Bus) Subscribe() Subscriber {
	s := &subscriber{bus: b, ch: make(chan model.ProgressEvent, DefaultBufferSize)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Publish fans out an event to every current subscriber without blocking.
// A subscriber whose buffer is full is dropped and receives one terminal
// Lagged event on a best-effort basis before removal.
func (b *Bus) Publish(evt model.ProgressEvent) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- evt:
		default:
			b.dropSlow(s)
		}
	}
}

func (b *Bus) dropSlow(s *subscriber) {
	metrics.ProgressBusSubscriberDropped.Inc()
	lagged := model.ProgressEvent{Kind: model.EvLagged, SessionID: b.sessionID, LaggedCount: 1}
	select {
	case s.ch <- lagged:
	default:
		// The buffer is full: discard the oldest queued event so the lagged
		// marker fits, and count that discarded event as missed too.
		select {
		case <-s.ch:
			lagged.LaggedCount = 2
		default:
		}
		select {
		case s.ch <- lagged:
		default:
		}
	}
	s.Close()
}

// PublishTerminal publishes a terminal event (SessionCompleted/
// SessionFailed) to all subscribers and then closes the bus. Terminal
// events are never silently dropped the way Publish drops a slow
// subscriber: the send blocks until it succeeds or TerminalFlushTimeout
// elapses, matching spec.md §4.9's synchronous flush.
func (b *Bus) PublishTerminal(evt model.ProgressEvent) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.closed = true
	b.subs = make(map[*subscriber]struct{})
	b.mu.Unlock()

	for _, s := range subs {
		func(s *subscriber) {
			defer func() { recover() }() // s.ch may already be closed by a racing Close
			timer := time.NewTimer(TerminalFlushTimeout)
			defer timer.Stop()
			select {
			case s.ch <- evt:
			case <-timer.C:
				metrics.ProgressBusSubscriberDropped.Inc()
			}
		}(s)
		s.Close()
	}
}

var _ Subscriber = (*subscriber)(nil)
