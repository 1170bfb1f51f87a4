// SPDX-License-Identifier: MIT

// Command discover is the CLI front end for the discovery pipeline: it
// validates a query against the SessionOrchestrator, streams progress as
// NDJSON to stdout, and exits 0/1/2 per spec.md §6.5.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/fretline/discovery/internal/config"
	"github.com/fretline/discovery/internal/log"
	"github.com/fretline/discovery/internal/model"
)

// Exit codes per spec.md §6.5.
const (
	exitOK             = 0
	exitSessionFailed  = 1
	exitUsageOrInvalid = 2
)

func main() {
	diag := charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true, Prefix: "discover"})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		diag.Warn("loading .env", "err", err)
	}

	cmd := &cli.Command{
		Name:  "discover",
		Usage: "find and enrich artist profiles from a YouTube search query",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Required: true, Usage: "search query, e.g. an artist name or genre"},
			&cli.IntFlag{Name: "target", Value: model.DefaultTargetCount, Usage: "number of artists to discover"},
			&cli.StringSliceFlag{Name: "filter", Usage: "key=value filter, repeatable"},
			&cli.StringFlag{Name: "config", Value: "", Usage: "path to a TOML config file"},
			&cli.StringFlag{Name: "preset", Value: "", Usage: "named filter preset from the configured presets file"},
		},
		Action: run(diag),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		diag.Error("discover failed", "err", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch model.KindOf(err) {
	case model.KindInvalidRequest:
		return exitUsageOrInvalid
	default:
		return exitSessionFailed
	}
}

func run(diag *charmlog.Logger) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return model.NewError(model.KindInvalidRequest, "discover.config", "loading configuration", err)
		}
		log.Configure(log.Config{Level: cfg.LogLevel, Service: "discover"})

		filters, err := parseFilters(cmd.StringSlice("filter"))
		if err != nil {
			return model.NewError(model.KindInvalidRequest, "discover.flags", "parsing --filter", err)
		}
		if preset := cmd.String("preset"); preset != "" {
			filters["preset"] = preset
		}
		filters = cfg.ResolvePreset(filters)

		req := model.SessionRequest{
			Query:       cmd.String("query"),
			TargetCount: int(cmd.Int("target")),
			Filters:     filters,
		}

		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		return streamSession(ctx, orch, req, os.Stdout, diag)
	}
}

func parseFilters(raw []string) (map[string]string, error) {
	filters := make(map[string]string, len(raw))
	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --filter %q, want key=value", kv)
		}
		filters[parts[0]] = parts[1]
	}
	return filters, nil
}
