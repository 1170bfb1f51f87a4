// SPDX-License-Identifier: MIT

package spotify

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) FetchPlain(ctx context.Context, url string, deadline time.Time) (ports.FetchStatus, http.Header, []byte, error) {
	if f.err != nil {
		return ports.FetchStatus{}, nil, nil, f.err
	}
	return ports.FetchStatus{Code: 200}, http.Header{}, f.body, nil
}

func (f *fakeFetcher) FetchRendered(context.Context, string, ports.RenderOptions, time.Time) (string, string, []ports.NetworkLogEntry, error) {
	return "", "", nil, nil
}

func (f *fakeFetcher) OpenSession(context.Context, ports.RenderOptions) (ports.SessionHandle, error) {
	return nil, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestScrapeMonthlyListeners_JSONField(t *testing.T) {
	e := &Enricher{fetcher: &fakeFetcher{body: []byte(`{"monthlyListeners":123456}`)}, clock: fixedClock{time.Now()}}
	n, ok := e.scrapeMonthlyListeners(context.Background(), "abc123")
	require.True(t, ok)
	require.Equal(t, int64(123456), n)
}

func TestScrapeMonthlyListeners_TextFallback(t *testing.T) {
	e := &Enricher{fetcher: &fakeFetcher{body: []byte(`<span>1,234,567 monthly listeners</span>`)}, clock: fixedClock{time.Now()}}
	n, ok := e.scrapeMonthlyListeners(context.Background(), "abc123")
	require.True(t, ok)
	require.Equal(t, int64(1234567), n)
}

func TestScrapeMonthlyListeners_NoMatch(t *testing.T) {
	e := &Enricher{fetcher: &fakeFetcher{body: []byte(`<html>no data here</html>`)}, clock: fixedClock{time.Now()}}
	_, ok := e.scrapeMonthlyListeners(context.Background(), "abc123")
	require.False(t, ok)
}

func TestScrapeMonthlyListeners_FetcherError(t *testing.T) {
	e := &Enricher{fetcher: &fakeFetcher{err: model.NewError(model.KindTransient, "fetch", "boom", nil)}, clock: fixedClock{time.Now()}}
	_, ok := e.scrapeMonthlyListeners(context.Background(), "abc123")
	require.False(t, ok)
}

func TestEnricher_NameOpTimeoutCacheTTL(t *testing.T) {
	e := New(Config{ClientID: "id", ClientSecret: "secret", TokenURL: "https://accounts.spotify.com/api/token"}, &fakeFetcher{}, fixedClock{time.Now()})
	require.Equal(t, "spotify", e.Name())
	require.Equal(t, "spotify.search", e.Op())
	require.Equal(t, 20*time.Second, e.Timeout())
	require.Equal(t, 24*time.Hour, e.CacheTTL())
}
