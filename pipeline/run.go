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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
	"github.com/Knowledge-Graph-Hub/obo2kghub/fetch"
	"github.com/Knowledge-Graph-Hub/obo2kghub/inspect"
	"github.com/Knowledge-Graph-Hub/obo2kghub/registry"
)

// Report summarizes one run.
type Report struct {
	RunID    string
	LockHeld bool // another run held the lock; nothing was attempted
	Outcomes []core.Outcome
	Tally    core.Tally

	// AllTimeCompleted is the number of ontologies with a published
	// version in the ledger after this run, across all runs ever.
	AllTimeCompleted int

	Elapsed time.Duration
}

// Run executes one full transformation run. The remote ledger must be
// reachable and the run lock free; everything past that point is
// contained per ontology. The lock is released exactly once on every
// path that acquired it, and a failed release turns an otherwise
// successful run into an error.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	if err := p.ledger.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("fetching tracking ledger: %w", err)
	}

	held, err := p.lock.IsLocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking run lock: %w", err)
	}
	if held {
		p.logger.Warn("run lock is held, nothing to do")
		return &Report{LockHeld: true, Elapsed: time.Since(start)}, nil
	}
	if err := p.lock.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}

	report, runErr := p.run(ctx, start)

	releaseErr := p.lock.Release(ctx)
	if releaseErr != nil {
		releaseErr = fmt.Errorf("releasing run lock: %w", releaseErr)
	}
	if runErr != nil {
		// A stuck lock blocks every future run; the operator must see
		// both failures.
		return nil, errors.Join(runErr, releaseErr)
	}
	if releaseErr != nil {
		return report, releaseErr
	}
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, start time.Time) (*Report, error) {
	runID := uuid.NewString()
	p.logger.Info("run starting", "run_id", runID)

	var entries []registry.Entry
	err := fetch.RetryWithBackoff(ctx, func() error {
		var fetchErr error
		entries, fetchErr = p.catalog.Entries(ctx)
		return fetchErr
	}, p.headerRetries, p.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("fetching registry: %w", err)
	}
	entries = registry.Filter(entries, p.skipList, p.allowList)
	p.logger.Info("registry fetched", "candidates", len(entries))

	if p.journal != nil {
		if err := p.journal.BeginRun(runID, start); err != nil {
			p.logger.Error("journaling run start", "error", err)
		}
	}

	tracker := NewProgressTracker(p.progressWriter, len(entries), 1)
	tracker.Start()

	outcomes := make([]core.Outcome, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		outcome := p.processOntology(ctx, entry)
		outcome.At = time.Now().UTC()
		outcomes = append(outcomes, outcome)

		p.logger.Info("ontology finished",
			"ontology", outcome.Ontology,
			"outcome", outcome.Kind.String(),
			"reason", outcome.Reason)
		if p.journal != nil {
			if err := p.journal.AppendOutcome(runID, outcome); err != nil {
				p.logger.Error("journaling outcome", "ontology", outcome.Ontology, "error", err)
			}
		}
		tracker.Increment(1)
	}
	tracker.Finish()

	if !p.retainLocal {
		p.sweepDataDir()
	}

	completed, err := p.ledger.CompletedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting completed ontologies: %w", err)
	}

	report := &Report{
		RunID:            runID,
		Outcomes:         outcomes,
		Tally:            core.TallyOutcomes(outcomes),
		AllTimeCompleted: completed,
		Elapsed:          time.Since(start),
	}
	p.logger.Info("run finished",
		"run_id", runID,
		"success", report.Tally.Clean,
		"degraded", report.Tally.Degraded,
		"failed", report.Tally.Failed,
		"skipped", report.Tally.Skipped,
		"all_time_completed", completed,
		"elapsed", report.Elapsed)
	return report, nil
}

// processOntology walks one ontology through the full state machine.
// Every early return is a terminal outcome; no error escapes to the run.
func (p *Pipeline) processOntology(ctx context.Context, entry registry.Entry) core.Outcome {
	outcome := core.Outcome{Ontology: entry.ID}

	failed := func(reason string, err error) core.Outcome {
		outcome.Kind = core.OutcomeFailed
		outcome.Reason = reason
		if err != nil {
			outcome.Reason = fmt.Sprintf("%s: %v", reason, err)
		}
		return outcome
	}

	if len(entry.Imports) > 0 {
		return failed("registry entry declares imports", nil)
	}

	url := entry.OntologyPURL
	if url == "" {
		url = p.catalog.SourceURL(ctx, entry.ID)
	}
	if url == "" {
		return failed("no source URL", nil)
	}

	var header []byte
	err := fetch.RetryWithBackoff(ctx, func() error {
		var headerErr error
		header, headerErr = p.fetcher.Header(ctx, url, p.headerBytes)
		return headerErr
	}, p.headerRetries, p.retryDelay)
	if err != nil {
		return failed("fetching artifact header", err)
	}

	desc := inspect.Descriptor(header)
	outcome.Version = desc

	known, err := p.ledger.IsKnown(ctx, entry.ID, desc.IRI)
	if err != nil {
		return failed("consulting tracking ledger", err)
	}
	if known {
		outcome.Kind = core.OutcomeSkipped
		outcome.Reason = "version already released"
		return outcome
	}

	if imports := inspect.Imports(header); len(imports) > 0 {
		return failed(fmt.Sprintf("artifact imports %s", strings.Join(imports, ", ")), nil)
	}

	versionDir := filepath.Join(p.dataDir, entry.ID, desc.Version)
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return failed("creating working tree", err)
	}
	discard := func() {
		if err := os.RemoveAll(versionDir); err != nil {
			p.logger.Error("removing working tree", "path", versionDir, "error", err)
		}
	}

	sourcePath := filepath.Join(versionDir, entry.ID+".owl")
	size, err := p.fetcher.File(ctx, url, sourcePath, p.downloadProgress(entry.ID))
	if err != nil {
		discard()
		return failed("downloading artifact", err)
	}
	fmt.Fprintf(p.progressWriter, "\r%s: downloaded %d KiB\n", entry.ID, size/1024)
	p.logger.Info("artifact downloaded", "ontology", entry.ID, "bytes", size)

	fingerprint, err := fetch.Fingerprint(sourcePath)
	if err != nil {
		discard()
		return failed("fingerprinting artifact", err)
	}
	outcome.Fingerprint = fingerprint

	results, err := p.transformer.Dispatch(ctx, sourcePath, "owl", versionDir, p.encodings)
	if err != nil {
		discard()
		return failed("converting artifact", err)
	}
	results = p.validateOutputs(versionDir, results)
	outcome.Results = results

	// The downloaded source is conversion input, not a publication
	// artifact.
	if err := os.Remove(sourcePath); err != nil {
		p.logger.Error("removing downloaded artifact", "path", sourcePath, "error", err)
	}

	kind := core.ClassifyResults(results)
	if kind == core.OutcomeFailed {
		discard()
		outcome.Kind = core.OutcomeFailed
		outcome.Reason = resultMessages(results)
		return outcome
	}

	if _, err := p.publisher.Publish(ctx, entry.ID, desc, versionDir); err != nil {
		discard()
		return failed("publishing", err)
	}

	if !p.retainLocal {
		discard()
	}

	outcome.Kind = kind
	return outcome
}

// validateOutputs rejects encodings whose conversion reported success but
// left missing or empty output files behind. Every produced file counts:
// a zero-byte edges file beside a healthy nodes file still fails the
// encoding.
func (p *Pipeline) validateOutputs(versionDir string, results []core.TransformResult) []core.TransformResult {
	for i, r := range results {
		if !r.OK {
			continue
		}
		if !outputsComplete(versionDir, r.Encoding) {
			results[i].OK = false
			results[i].Message = "conversion produced missing or empty output"
		}
	}
	return results
}

// outputsComplete reports whether the encoding left at least one output
// file and none of its output files are zero bytes.
func outputsComplete(dir, encoding string) bool {
	found := false
	complete := true
	_ = filepath.Walk(dir, func(fp string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(fp, "."+encoding) {
			return nil
		}
		found = true
		if info.Size() == 0 {
			complete = false
		}
		return nil
	})
	return found && complete
}

func resultMessages(results []core.TransformResult) string {
	var parts []string
	for _, r := range results {
		if !r.OK && r.Message != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Encoding, r.Message))
		}
	}
	if len(parts) == 0 {
		return "conversion failed"
	}
	return strings.Join(parts, "; ")
}

// downloadProgress returns a per-chunk callback that writes a running
// byte count to the progress writer. Reports are throttled so terminal
// output stays readable on large artifacts.
func (p *Pipeline) downloadProgress(id string) fetch.ProgressFunc {
	const reportEvery = 256 * 1024
	var downloaded, lastReported int64
	return func(n int64) {
		downloaded += n
		if downloaded-lastReported < reportEvery {
			return
		}
		lastReported = downloaded
		fmt.Fprintf(p.progressWriter, "\r%s: downloaded %d KiB", id, downloaded/1024)
	}
}

// sweepDataDir removes leftover working trees under the data directory.
// The ledger's local copy survives the sweep.
func (p *Pipeline) sweepDataDir() {
	dirents, err := os.ReadDir(p.dataDir)
	if err != nil {
		p.logger.Error("sweeping data directory", "path", p.dataDir, "error", err)
		return
	}
	keep := filepath.Clean(p.ledger.LocalPath())
	for _, de := range dirents {
		path := filepath.Join(p.dataDir, de.Name())
		if filepath.Clean(path) == keep {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			p.logger.Error("removing working tree", "path", path, "error", err)
		}
	}
}
