// SPDX-License-Identifier: MIT

package bus

import (
	"testing"
	"time"

	"github.com/fretline/discovery/internal/model"
	"github.com/stretchr/testify/require"
)

func TestBus_SubscribeReceivesOnlyFutureEvents(t *testing.T) {
	b := New("s1")
	b.Publish(model.ProgressEvent{Kind: model.EvSessionStarted})

	sub := b.Subscribe()
	defer sub.Close()

	b.Publish(model.ProgressEvent{Kind: model.EvCandidateFound, VideoID: "abc"})

	select {
	case evt := <-sub.C():
		require.Equal(t, model.EvCandidateFound, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_SlowSubscriberDroppedWithLagged(t *testing.T) {
	b := New("s1")
	sub := b.Subscribe()

	for i := 0; i < DefaultBufferSize+5; i++ {
		b.Publish(model.ProgressEvent{Kind: model.EvCandidateFound})
	}

	var sawLagged bool
	for i := 0; i < DefaultBufferSize; i++ {
		evt, ok := <-sub.C()
		if !ok {
			break
		}
		if evt.Kind == model.EvLagged {
			sawLagged = true
		}
	}
	require.True(t, sawLagged)

	// Other subscribers are unaffected by one subscriber being dropped.
	other := b.Subscribe()
	defer other.Close()
	b.Publish(model.ProgressEvent{Kind: model.EvArtistStored})
	select {
	case evt := <-other.C():
		require.Equal(t, model.EvArtistStored, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("other subscriber did not receive event")
	}
}

func TestBus_PublishTerminalClosesBus(t *testing.T) {
	b := New("s1")
	sub := b.Subscribe()

	b.PublishTerminal(model.ProgressEvent{Kind: model.EvSessionCompleted})

	evt, ok := <-sub.C()
	require.True(t, ok)
	require.Equal(t, model.EvSessionCompleted, evt.Kind)

	_, ok = <-sub.C()
	require.False(t, ok, "channel should be closed after terminal event")
}

func TestBus_PublishTerminalDeliversEvenWithFullBuffer(t *testing.T) {
	b := New("s1")
	sub := b.Subscribe()

	for i := 0; i < DefaultBufferSize; i++ {
		b.Publish(model.ProgressEvent{Kind: model.EvCandidateFound})
	}

	drained := make(chan struct{})
	go func() {
		// Give PublishTerminal a head start so it has to actually block
		// on the full buffer rather than racing a drain that hasn't
		// started yet.
		time.Sleep(20 * time.Millisecond)
		for range sub.C() {
		}
		close(drained)
	}()

	b.PublishTerminal(model.ProgressEvent{Kind: model.EvSessionCompleted})

	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber never observed the terminal event")
	}
}

func TestBus_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	b := New("s1")
	_ = b.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultBufferSize*3; i++ {
			b.Publish(model.ProgressEvent{Kind: model.EvPhaseProgress})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on slow subscriber")
	}
}
