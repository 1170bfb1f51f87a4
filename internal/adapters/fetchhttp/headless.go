// SPDX-License-Identifier: MIT

package fetchhttp

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// headlessPool lazily launches a shared browser process and hands out
// per-call pages. A real multi-tab pool would bound concurrent pages; this
// reference adapter opens one page per session and lets the browser process
// itself be the only shared resource.
type headlessPool struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
}

func newHeadlessPool(cfg Config) *headlessPool {
	return &headlessPool{cfg: cfg}
}

func (p *headlessPool) ensureBrowser() (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser != nil {
		return p.browser, nil
	}

	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, model.NewError(model.KindFatal, "fetchhttp.headless", "launching browser", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, model.NewError(model.KindFatal, "fetchhttp.headless", "connecting to browser", err)
	}
	p.browser = browser
	return browser, nil
}

func (p *headlessPool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	p.browser = nil
	return err
}

func (p *headlessPool) open(ctx context.Context, opts ports.RenderOptions) (*headlessSession, error) {
	browser, err := p.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, model.NewError(model.KindTransient, "fetchhttp.headless", "opening page", err)
	}
	page = page.Context(ctx)

	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		})
	}
	if opts.UserAgent != "" {
		_ = page.SetExtraHeaders([]string{"User-Agent", opts.UserAgent})
	}

	return &headlessSession{page: page}, nil
}

// headlessSession implements ports.SessionHandle over one rod.Page.
type headlessSession struct {
	page *rod.Page
}

func (s *headlessSession) Navigate(ctx context.Context, url string, opts ports.RenderOptions) (string, error) {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", model.NewError(model.KindTransient, "fetchhttp.headless", "navigating", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", model.NewError(model.KindTransient, "fetchhttp.headless", "waiting for load", err)
	}
	return s.html(page)
}

func (s *headlessSession) Scroll(ctx context.Context, settle time.Duration) (string, error) {
	page := s.page.Context(ctx)
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return "", model.NewError(model.KindTransient, "fetchhttp.headless", "scrolling", err)
	}
	if settle > 0 {
		if err := page.WaitStable(settle); err != nil {
			return "", model.NewError(model.KindTransient, "fetchhttp.headless", "waiting for settle", err)
		}
	}
	return s.html(page)
}

func (s *headlessSession) Close(ctx context.Context) error {
	return s.page.Close()
}

func (s *headlessSession) html(page *rod.Page) (string, error) {
	html, err := page.HTML()
	if err != nil {
		return "", model.NewError(model.KindTransient, "fetchhttp.headless", "reading html", err)
	}
	return html, nil
}
