// Copyright 2025 Knowledge Graph Hub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob"
	blobmock "github.com/Knowledge-Graph-Hub/obo2kghub/blob/mock"
	"github.com/Knowledge-Graph-Hub/obo2kghub/blob/s3"
	"github.com/Knowledge-Graph-Hub/obo2kghub/convert"
	convertexec "github.com/Knowledge-Graph-Hub/obo2kghub/convert/exec"
	convertmock "github.com/Knowledge-Graph-Hub/obo2kghub/convert/mock"
	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
	"github.com/Knowledge-Graph-Hub/obo2kghub/fetch"
	"github.com/Knowledge-Graph-Hub/obo2kghub/journal"
	"github.com/Knowledge-Graph-Hub/obo2kghub/pipeline"
	"github.com/Knowledge-Graph-Hub/obo2kghub/publish"
	"github.com/Knowledge-Graph-Hub/obo2kghub/registry"
	"github.com/Knowledge-Graph-Hub/obo2kghub/tracking"
)

const (
	ledgerFileName = "tracking.yaml"
	lockFileName   = "lock.yaml"
)

func main() {
	app := &cli.App{
		Name:  "obo2kghub",
		Usage: "Transform OBO Foundry ontologies into KGX graphs and publish them to KG-Hub",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Execute one transformation run over the registry",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "skip",
						Usage: "Ontology IDs to skip (repeatable, globs allowed)",
					},
					&cli.StringSliceFlag{
						Name:  "allow",
						Usage: "Restrict the run to these ontology IDs (repeatable, globs allowed)",
					},
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "Target bucket for artifacts, ledger, and lock",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "remote-root",
						Usage: "Key prefix for published artifacts",
						Value: "kg-obo",
					},
					&cli.StringFlag{
						Name:  "lock-root",
						Usage: "Key prefix for the run lock (defaults to remote-root)",
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Usage: "Local working directory for downloads and outputs",
						Value: "data",
					},
					&cli.StringFlag{
						Name:  "log-dir",
						Usage: "Directory for per-run log files",
						Value: "logs",
					},
					&cli.StringFlag{
						Name:  "encodings",
						Usage: "Comma-separated output encodings",
						Value: "tsv,json",
					},
					&cli.BoolFlag{
						Name:  "retain-local",
						Usage: "Keep local working trees after the run",
					},
					&cli.BoolFlag{
						Name:  "mock",
						Usage: "Run against in-memory storage and a scripted converter; no remote writes",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Suppress the progress line",
					},
					&cli.BoolFlag{
						Name:  "force-index-refresh",
						Usage: "Regenerate the root index even without new publications",
					},
					&cli.StringFlag{
						Name:  "converter-cmd",
						Usage: "External converter command",
						Value: "kgx",
					},
					&cli.StringFlag{
						Name:  "registry-url",
						Usage: "Registry document location",
						Value: registry.DefaultURL,
					},
					&cli.StringFlag{
						Name:  "journal-dir",
						Usage: "Run journal directory (defaults to <data-dir>/journal)",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show recent runs and, with --bucket, published versions",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bucket",
						Usage: "Bucket holding the tracking ledger",
					},
					&cli.StringFlag{
						Name:  "remote-root",
						Usage: "Key prefix for published artifacts",
						Value: "kg-obo",
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Usage: "Local working directory",
						Value: "data",
					},
					&cli.StringFlag{
						Name:  "journal-dir",
						Usage: "Run journal directory (defaults to <data-dir>/journal)",
					},
					&cli.IntFlag{
						Name:  "runs",
						Usage: "Number of recent runs to show",
						Value: 10,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	logger, logPath, err := setupRunLogger(c.String("log-dir"), c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Info("logging to file", "path", logPath)

	bucket := c.String("bucket")
	remoteRoot := c.String("remote-root")
	lockRoot := c.String("lock-root")
	if lockRoot == "" {
		lockRoot = remoteRoot
	}
	encodings := splitEncodings(c.String("encodings"))
	if err := core.ValidateEncodings(encodings); err != nil {
		return err
	}

	dataDir := c.String("data-dir")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	mock := c.Bool("mock")
	store, err := buildStore(ctx, mock, bucket, path.Join(remoteRoot, ledgerFileName))
	if err != nil {
		return err
	}

	ledger, err := tracking.NewLedger(store, bucket, path.Join(remoteRoot, ledgerFileName),
		filepath.Join(dataDir, ledgerFileName), tracking.WithLedgerLogger(logger))
	if err != nil {
		return err
	}
	lock, err := tracking.NewLock(store, bucket, path.Join(lockRoot, lockFileName))
	if err != nil {
		return err
	}

	var converter convert.Converter
	if mock {
		converter = convertmock.NewConverter()
	} else {
		converter, err = convertexec.New(c.String("converter-cmd"), convertexec.WithLogger(logger))
		if err != nil {
			return err
		}
	}
	dispatcher, err := convert.NewDispatcher(converter, convert.WithDispatcherLogger(logger))
	if err != nil {
		return err
	}

	publisher, err := publish.New(store, ledger, bucket, remoteRoot,
		publish.WithPublicRead(!mock), publish.WithLogger(logger))
	if err != nil {
		return err
	}
	defer publisher.Release()

	journalDir := c.String("journal-dir")
	if journalDir == "" {
		journalDir = filepath.Join(dataDir, "journal")
	}
	jnl, err := journal.Open(journalDir, mock, journal.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("opening run journal: %w", err)
	}
	defer jnl.Close()

	opts := []pipeline.Option{
		pipeline.WithEncodings(encodings),
		pipeline.WithSkipList(c.StringSlice("skip")),
		pipeline.WithAllowList(c.StringSlice("allow")),
		pipeline.WithRetainLocal(c.Bool("retain-local")),
		pipeline.WithJournal(jnl),
		pipeline.WithLogger(logger),
	}
	if c.Bool("no-progress") {
		opts = append(opts, pipeline.WithProgressWriter(io.Discard))
	}

	p, err := pipeline.New(
		registry.NewClient(nil, c.String("registry-url")),
		fetch.NewDownloader(nil),
		dispatcher,
		publisher,
		ledger,
		lock,
		dataDir,
		opts...,
	)
	if err != nil {
		return err
	}

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if report.LockHeld {
		fmt.Println("Another run holds the lock; exiting without changes.")
		return nil
	}

	printReport(report)

	published := report.Tally.Clean+report.Tally.Degraded > 0
	if published || c.Bool("force-index-refresh") {
		entries, err := ledger.Entries(ctx)
		if err != nil {
			return fmt.Errorf("reading ledger for index refresh: %w", err)
		}
		ids := make([]string, 0, len(entries))
		for id := range entries {
			ids = append(ids, id)
		}
		if err := publisher.RefreshRootIndex(ctx, ids); err != nil {
			return fmt.Errorf("refreshing root index: %w", err)
		}
		fmt.Println("Root index refreshed.")
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()
	if err := setupLogger(c); err != nil {
		return err
	}

	journalDir := c.String("journal-dir")
	if journalDir == "" {
		journalDir = filepath.Join(c.String("data-dir"), "journal")
	}
	if _, err := os.Stat(journalDir); err == nil {
		jnl, err := journal.Open(journalDir, false)
		if err != nil {
			return fmt.Errorf("opening run journal: %w", err)
		}
		defer jnl.Close()

		runs, err := jnl.Runs(c.Int("runs"))
		if err != nil {
			return err
		}
		fmt.Printf("Recent runs (%d):\n", len(runs))
		for _, run := range runs {
			records, err := jnl.RunRecords(run.RunID)
			if err != nil {
				return err
			}
			fmt.Printf("  %s  %s  (%d ontologies)\n",
				run.StartedAt.Format(time.RFC3339), run.RunID, len(records))
		}
	} else {
		fmt.Println("No local run journal found.")
	}

	bucket := c.String("bucket")
	if bucket == "" {
		return nil
	}

	store, err := s3.New(ctx)
	if err != nil {
		return err
	}
	ledger, err := tracking.NewLedger(store, bucket,
		path.Join(c.String("remote-root"), ledgerFileName),
		filepath.Join(c.String("data-dir"), ledgerFileName))
	if err != nil {
		return err
	}
	if err := ledger.Fetch(ctx); err != nil {
		return err
	}
	entries, err := ledger.Entries(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("Published ontologies (%d):\n", len(ids))
	for _, id := range ids {
		entry := entries[id]
		fmt.Printf("  %-16s %s  (%d archived)\n", id, entry.CurrentVersion, len(entry.Archive))
	}
	return nil
}

func printReport(report *pipeline.Report) {
	fmt.Printf("Run %s finished in %s\n", report.RunID, report.Elapsed.Round(time.Second))
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("  %-16s %s", o.Ontology, o.Kind)
		if o.Version.Version != "" && o.Kind != core.OutcomeFailed {
			line += "  " + o.Version.Version
		}
		if o.Reason != "" {
			line += "  (" + o.Reason + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("Totals: %d success, %d success (with errors), %d failed, %d skipped\n",
		report.Tally.Clean, report.Tally.Degraded, report.Tally.Failed, report.Tally.Skipped)
	fmt.Printf("Ontologies with a published version, all time: %d\n", report.AllTimeCompleted)
}

// buildStore returns the blob store for the run. Mock mode uses in-memory
// storage seeded with an empty ledger so a run can start from nothing.
func buildStore(ctx context.Context, mock bool, bucket, ledgerKey string) (blob.Store, error) {
	if mock {
		store := blobmock.NewStore()
		if err := store.Put(ctx, bucket, ledgerKey, []byte("ontologies: {}\n"), false); err != nil {
			return nil, err
		}
		return store, nil
	}
	return s3.New(ctx)
}

func splitEncodings(s string) []string {
	var encodings []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			encodings = append(encodings, part)
		}
	}
	return encodings
}

// setupRunLogger tees structured logs to stderr and a per-run log file.
func setupRunLogger(logDir, levelStr string) (*slog.Logger, string, error) {
	level, err := parseLevel(levelStr)
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating log directory: %w", err)
	}
	logPath := filepath.Join(logDir,
		fmt.Sprintf("obo_transform_%s.log", time.Now().UTC().Format("20060102T150405")))
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, "", fmt.Errorf("creating log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, logFile), &slog.HandlerOptions{
		Level: level,
	}))
	return logger, logPath, nil
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

func parseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}
}
