// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/bytedance/sonic"
	charmlog "github.com/charmbracelet/log"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/session"
)

// streamSession starts req, writes one NDJSON-encoded ProgressEvent per
// line to out until a terminal event arrives, and returns an error derived
// from the session's outcome so main can map it to an exit code.
func streamSession(ctx context.Context, orch *session.Orchestrator, req model.SessionRequest, out io.Writer, diag *charmlog.Logger) error {
	id, err := orch.Start(req)
	if err != nil {
		return err
	}

	sub, err := orch.Subscribe(id)
	if err != nil {
		return err
	}
	defer sub.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	for {
		select {
		case evt, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := writeEvent(out, evt); err != nil {
				diag.Warn("writing progress event", "err", err)
			}
			if evt.Kind == model.EvSessionFailed {
				return summaryError(evt)
			}
			if evt.Kind == model.EvSessionCompleted {
				return nil
			}
		case <-stop:
			diag.Info("interrupted, cancelling session", "session_id", id)
			_ = orch.Cancel(id)
		case <-ctx.Done():
			_ = orch.Cancel(id)
			return ctx.Err()
		}
	}
}

func writeEvent(out io.Writer, evt model.ProgressEvent) error {
	b, err := sonic.Marshal(evt)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

func summaryError(evt model.ProgressEvent) error {
	if evt.Summary == nil {
		return model.NewError(model.KindFatal, "discover.session", "session failed", nil)
	}
	kind := model.KindFatal
	for k := model.KindUnknown; k <= model.KindFatal; k++ {
		if k.String() == evt.Summary.ErrorKind {
			kind = k
			break
		}
	}
	return model.NewError(kind, "discover.session", evt.Summary.ErrorMessage, nil)
}
