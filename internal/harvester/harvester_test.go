// SPDX-License-Identifier: MIT

package harvester

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// fakeSession renders `pages` one per Navigate/Scroll call, repeating the
// last page once exhausted (simulating "no new content below the fold").
type fakeSession struct {
	pages       []string
	step        int
	scrollErrs  map[int]error
	closed      bool
}

func (s *fakeSession) Navigate(_ context.Context, _ string, _ ports.RenderOptions) (string, error) {
	return s.pages[0], nil
}

func (s *fakeSession) Scroll(_ context.Context, _ time.Duration) (string, error) {
	s.step++
	if err, ok := s.scrollErrs[s.step]; ok {
		return "", err
	}
	idx := s.step
	if idx >= len(s.pages) {
		idx = len(s.pages) - 1
	}
	return s.pages[idx], nil
}

func (s *fakeSession) Close(context.Context) error {
	s.closed = true
	return nil
}

type fakeFetcher struct {
	session *fakeSession
}

func (f *fakeFetcher) FetchPlain(context.Context, string, time.Time) (ports.FetchStatus, http.Header, []byte, error) {
	return ports.FetchStatus{}, nil, nil, nil
}
func (f *fakeFetcher) FetchRendered(context.Context, string, ports.RenderOptions, time.Time) (string, string, []ports.NetworkLogEntry, error) {
	return "", "", nil, nil
}
func (f *fakeFetcher) OpenSession(context.Context, ports.RenderOptions) (ports.SessionHandle, error) {
	return f.session, nil
}

func videoPage(ids ...string) string {
	html := "<html><body>"
	for _, id := range ids {
		html += fmt.Sprintf(`<a href="/watch?v=%s" title="Video %s"></a>`, id, id)
	}
	html += "</body></html>"
	return html
}

func collect(ch <-chan model.CandidateVideo) []model.CandidateVideo {
	var out []model.CandidateVideo
	for c := range ch {
		out = append(out, c)
	}
	return out
}

func TestHarvester_EmitsNewCandidatesInOrder(t *testing.T) {
	session := &fakeSession{pages: []string{
		videoPage("aaaaaaaaaaa", "bbbbbbbbbbb"),
		videoPage("aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"),
	}}
	h := New(&fakeFetcher{session: session}, Config{NoProgressLimit: 2})

	out := h.Run(context.Background(), "query", Filters{}, nil)
	got := collect(out)

	require.Len(t, got, 3)
	require.Equal(t, "aaaaaaaaaaa", got[0].VideoID)
	require.Equal(t, "bbbbbbbbbbb", got[1].VideoID)
	require.Equal(t, "ccccccccccc", got[2].VideoID)
	require.True(t, session.closed, "harvester must close its session handle")
}

func TestHarvester_TerminatesOnNoProgress(t *testing.T) {
	session := &fakeSession{pages: []string{
		videoPage("aaaaaaaaaaa"),
	}}
	h := New(&fakeFetcher{session: session}, Config{NoProgressLimit: 3})

	out := h.Run(context.Background(), "query", Filters{}, nil)
	got := collect(out)

	require.Len(t, got, 1)
	require.GreaterOrEqual(t, session.step, 3, "harvester should have scrolled at least NoProgressLimit times before giving up")
}

func TestHarvester_TerminatesOnTwoConsecutiveScrollErrors(t *testing.T) {
	session := &fakeSession{
		pages:      []string{videoPage("aaaaaaaaaaa")},
		scrollErrs: map[int]error{1: fmt.Errorf("timeout"), 2: fmt.Errorf("timeout")},
	}
	h := New(&fakeFetcher{session: session}, Config{NoProgressLimit: 10})

	out := h.Run(context.Background(), "query", Filters{}, nil)
	got := collect(out)

	require.Len(t, got, 1)
	require.Equal(t, 2, session.step, "harvester should stop right after the second consecutive scroll error")
}

func TestHarvester_NeverEmitsSameVideoIDTwice(t *testing.T) {
	session := &fakeSession{pages: []string{
		videoPage("aaaaaaaaaaa", "bbbbbbbbbbb"),
		videoPage("aaaaaaaaaaa", "bbbbbbbbbbb"),
		videoPage("aaaaaaaaaaa", "bbbbbbbbbbb"),
		videoPage("aaaaaaaaaaa", "bbbbbbbbbbb"),
	}}
	h := New(&fakeFetcher{session: session}, Config{NoProgressLimit: 3})

	out := h.Run(context.Background(), "query", Filters{}, nil)
	got := collect(out)

	seen := make(map[string]int)
	for _, c := range got {
		seen[c.VideoID]++
	}
	for id, count := range seen {
		require.Equal(t, 1, count, "video_id %s emitted more than once", id)
	}
}

func TestHarvester_RespectsStopSignal(t *testing.T) {
	session := &fakeSession{pages: []string{videoPage("aaaaaaaaaaa")}}
	h := New(&fakeFetcher{session: session}, Config{NoProgressLimit: 1000})

	stop := make(chan struct{})
	close(stop)
	out := h.Run(context.Background(), "query", Filters{}, stop)

	got := collect(out)
	require.Empty(t, got, "a pre-closed stop signal should prevent any candidate from being emitted")
}
