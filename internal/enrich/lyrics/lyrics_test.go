// SPDX-License-Identifier: MIT

package lyrics

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
	responses map[string]string
	status    ports.FetchStatus
	err       error
}

func (f *fakeFetcher) FetchPlain(ctx context.Context, url string, deadline time.Time) (ports.FetchStatus, http.Header, []byte, error) {
	if f.err != nil {
		return ports.FetchStatus{}, nil, nil, f.err
	}
	status := f.status
	if status.Code == 0 {
		status.Code = 200
	}
	return status, http.Header{}, []byte(f.responses[url]), nil
}

func (f *fakeFetcher) FetchRendered(context.Context, string, ports.RenderOptions, time.Time) (string, string, []ports.NetworkLogEntry, error) {
	return "", "", nil, nil
}

func (f *fakeFetcher) OpenSession(context.Context, ports.RenderOptions) (ports.SessionHandle, error) {
	return nil, nil
}

type fakeAnalyzer struct {
	themesByURL map[string][]string
}

func (a *fakeAnalyzer) AnalyzeLyrics(ctx context.Context, text string, languageHint string) (model.LyricAnalysis, error) {
	return model.LyricAnalysis{Themes: a.themesByURL[text]}, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestFetch_FindsAndAnalyzesCandidateSongs(t *testing.T) {
	searchHost := "https://lyrics.example.com"
	searchURL := searchHost + "/search?q=Some+Artist"
	fetcher := &fakeFetcher{
		responses: map[string]string{
			searchURL:                     `<a href="/some-song-1-lyrics">Song 1</a><a href="/some-song-2-lyrics">Song 2</a>`,
			searchHost + "/some-song-1-lyrics": "song one lyrics text",
			searchHost + "/some-song-2-lyrics": "song two lyrics text",
		},
	}
	analyzer := &fakeAnalyzer{themesByURL: map[string][]string{
		"song one lyrics text": {"heartbreak", "nostalgia"},
		"song two lyrics text": {"nostalgia", "ambition"},
	}}
	e := New(searchHost, fetcher, analyzer, fixedClock{time.Now()})

	outcome, err := e.Fetch(context.Background(), model.NewArtistProfile("Some Artist"))
	require.NoError(t, err)
	require.Equal(t, []string{"heartbreak", "nostalgia", "ambition"}, outcome.LyricThemes)
}

func TestFetch_NoSongLinksReturnsNotFound(t *testing.T) {
	searchHost := "https://lyrics.example.com"
	fetcher := &fakeFetcher{responses: map[string]string{
		searchHost + "/search?q=Unknown": `<p>no results</p>`,
	}}
	e := New(searchHost, fetcher, &fakeAnalyzer{}, fixedClock{time.Now()})
	_, err := e.Fetch(context.Background(), model.NewArtistProfile("Unknown"))
	require.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestFetch_BlockedSearch(t *testing.T) {
	fetcher := &fakeFetcher{status: ports.FetchStatus{Code: 429}}
	e := New("https://lyrics.example.com", fetcher, &fakeAnalyzer{}, fixedClock{time.Now()})
	_, err := e.Fetch(context.Background(), model.NewArtistProfile("Some Artist"))
	require.Equal(t, model.KindBlocked, model.KindOf(err))
}
