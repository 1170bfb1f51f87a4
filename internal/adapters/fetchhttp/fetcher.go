// SPDX-License-Identifier: MIT

// Package fetchhttp is the reference ports.Fetcher implementation: plain
// requests go through go-resty, JavaScript-dependent pages go through a
// pooled go-rod headless session.
package fetchhttp

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// Config tunes the underlying resty client. HeadlessPoolSize is not read:
// the headless pool does not bound how many pages are open at once.
type Config struct {
	UserAgent      string
	MaxRetries     int
	HeadlessPoolSize int
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:        "Mozilla/5.0 (compatible; discovery-bot/1.0)",
		MaxRetries:       0,
		HeadlessPoolSize: 2,
	}
}

// Fetcher implements ports.Fetcher over resty (plain) and go-rod (rendered).
type Fetcher struct {
	client   *resty.Client
	headless *headlessPool
}

// New builds a Fetcher. The headless pool launches browsers lazily, so
// constructing a Fetcher never itself starts a browser process.
func New(cfg Config) *Fetcher {
	client := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(cfg.MaxRetries)

	return &Fetcher{
		client:   client,
		headless: newHeadlessPool(cfg),
	}
}

// Close releases any headless browser processes the pool has started.
func (f *Fetcher) Close() error {
	return f.headless.close()
}

// FetchPlain issues a plain GET, bounded by deadline.
func (f *Fetcher) FetchPlain(ctx context.Context, url string, deadline time.Time) (ports.FetchStatus, http.Header, []byte, error) {
	attemptCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	resp, err := f.client.R().SetContext(attemptCtx).Get(url)
	if err != nil {
		return ports.FetchStatus{}, nil, nil, classifyHTTPErr(err)
	}

	status := ports.FetchStatus{Code: resp.StatusCode()}
	return status, resp.Header(), resp.Body(), nil
}

// FetchRendered opens a one-shot headless session, navigates, optionally
// scrolls, and closes the session before returning.
func (f *Fetcher) FetchRendered(ctx context.Context, url string, opts ports.RenderOptions, deadline time.Time) (string, string, []ports.NetworkLogEntry, error) {
	handle, err := f.headless.open(ctx, opts)
	if err != nil {
		return "", "", nil, err
	}
	defer func() {
		if cerr := handle.Close(ctx); cerr != nil {
			log.L().Debug().Str("component", "fetchhttp").Err(cerr).Msg("closing headless session")
		}
	}()

	html, err := handle.Navigate(ctx, url, opts)
	if err != nil {
		return "", "", nil, err
	}

	finalURL := url
	for i := 0; i < opts.ScrollSteps; i++ {
		html, err = handle.Scroll(ctx, opts.SettleDelay)
		if err != nil {
			return "", "", nil, err
		}
	}

	return finalURL, html, nil, nil
}

// OpenSession opens a reusable headless session for repeated scroll-and-read
// access, used by the harvester's scroll-until-target loop.
func (f *Fetcher) OpenSession(ctx context.Context, opts ports.RenderOptions) (ports.SessionHandle, error) {
	return f.headless.open(ctx, opts)
}

func classifyHTTPErr(err error) error {
	if err == nil {
		return nil
	}
	return model.NewError(model.KindTransient, "fetchhttp.plain", "", err)
}
