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
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobmock "github.com/Knowledge-Graph-Hub/obo2kghub/blob/mock"
	"github.com/Knowledge-Graph-Hub/obo2kghub/convert"
	convertmock "github.com/Knowledge-Graph-Hub/obo2kghub/convert/mock"
	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
	"github.com/Knowledge-Graph-Hub/obo2kghub/fetch"
	"github.com/Knowledge-Graph-Hub/obo2kghub/journal"
	"github.com/Knowledge-Graph-Hub/obo2kghub/publish"
	"github.com/Knowledge-Graph-Hub/obo2kghub/registry"
	"github.com/Knowledge-Graph-Hub/obo2kghub/tracking"
)

const (
	testBucket    = "kg-hub-test"
	testLedgerKey = "kg-obo/tracking.yaml"
	testLockKey   = "kg-obo/lock.yaml"
	testRoot      = "kg-obo"

	bfoHeader = `<?xml version="1.0"?>
<rdf:RDF><owl:Ontology rdf:about="http://purl.obolibrary.org/obo/bfo.owl">
<owl:versionIRI rdf:resource="http://purl.obolibrary.org/obo/bfo/2021-08-26/bfo.owl"/>
</owl:Ontology></rdf:RDF>`

	bfoIRI = "http://purl.obolibrary.org/obo/bfo/2021-08-26/bfo.owl"
)

type fakeCatalog struct {
	entries []registry.Entry
	err     error
}

func (f *fakeCatalog) Entries(context.Context) ([]registry.Entry, error) {
	return f.entries, f.err
}

func (f *fakeCatalog) SourceURL(_ context.Context, id string) string {
	return "http://obo.test/" + id + ".owl"
}

type fakeFetcher struct {
	headers map[string][]byte
	bodies  map[string][]byte
}

func (f *fakeFetcher) Header(_ context.Context, url string, maxBytes int64) ([]byte, error) {
	data, ok := f.headers[url]
	if !ok {
		return nil, fmt.Errorf("no header scripted for %s", url)
	}
	if int64(len(data)) > maxBytes {
		data = data[:maxBytes]
	}
	return data, nil
}

func (f *fakeFetcher) File(_ context.Context, url, path string, progress fetch.ProgressFunc) (int64, error) {
	data, ok := f.bodies[url]
	if !ok {
		return 0, fmt.Errorf("no body scripted for %s", url)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}
	if progress != nil {
		progress(int64(len(data)))
	}
	return int64(len(data)), nil
}

type harness struct {
	store    *blobmock.Store
	catalog  *fakeCatalog
	fetcher  *fakeFetcher
	conv     *convertmock.Converter
	ledger   *tracking.Ledger
	journal  *journal.Journal
	dataDir  string
	pipeline *Pipeline
}

func bfoEntry() registry.Entry {
	return registry.Entry{ID: "bfo", Title: "Basic Formal Ontology", OntologyPURL: "http://obo.test/bfo.owl"}
}

func bfoFetcher() *fakeFetcher {
	return &fakeFetcher{
		headers: map[string][]byte{"http://obo.test/bfo.owl": []byte(bfoHeader)},
		bodies:  map[string][]byte{"http://obo.test/bfo.owl": []byte(bfoHeader + "\n<!-- full artifact -->")},
	}
}

func seedLedger(t *testing.T, store *blobmock.Store, body string) {
	t.Helper()
	if body == "" {
		body = "ontologies: {}\n"
	}
	require.NoError(t, store.Put(context.Background(), testBucket, testLedgerKey, []byte(body), true))
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	h := &harness{
		store:   blobmock.NewStore(),
		catalog: &fakeCatalog{entries: []registry.Entry{bfoEntry()}},
		fetcher: bfoFetcher(),
		conv:    convertmock.NewConverter(),
		dataDir: t.TempDir(),
	}

	ledger, err := tracking.NewLedger(h.store, testBucket, testLedgerKey,
		filepath.Join(h.dataDir, "tracking.yaml"))
	require.NoError(t, err)
	h.ledger = ledger

	lock, err := tracking.NewLock(h.store, testBucket, testLockKey)
	require.NoError(t, err)

	dispatcher, err := convert.NewDispatcher(h.conv)
	require.NoError(t, err)

	publisher, err := publish.New(h.store, ledger, testBucket, testRoot)
	require.NoError(t, err)
	t.Cleanup(publisher.Release)

	jnl, err := journal.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = jnl.Close() })
	h.journal = jnl

	opts = append([]Option{
		WithJournal(jnl),
		WithProgressWriter(io.Discard),
		WithRetryPolicy(1, time.Millisecond),
	}, opts...)

	p, err := New(h.catalog, h.fetcher, dispatcher, publisher, ledger, lock, h.dataDir, opts...)
	require.NoError(t, err)
	h.pipeline = p
	return h
}

func TestNewValidatesCollaborators(t *testing.T) {
	_, err := New(nil, &fakeFetcher{}, &convert.Dispatcher{}, nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrCatalogRequired)
}

func TestRunPublishesNewVersion(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.LockHeld)
	assert.Equal(t, core.Tally{Clean: 1}, report.Tally)
	assert.Equal(t, 1, report.AllTimeCompleted)
	require.Len(t, report.Outcomes, 1)

	outcome := report.Outcomes[0]
	assert.Equal(t, "bfo", outcome.Ontology)
	assert.Equal(t, core.OutcomeClean, outcome.Kind)
	assert.Equal(t, bfoIRI, outcome.Version.IRI)
	assert.Equal(t, "2021-08-26", outcome.Version.Version)
	assert.Len(t, outcome.Fingerprint, 32)

	// Outputs land under {root}/{id}/{version}/.
	_, ok := h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl_kgx.tsv")
	assert.True(t, ok)
	_, ok = h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl_kgx.json")
	assert.True(t, ok)
	_, ok = h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/index.html")
	assert.True(t, ok)

	// The downloaded source artifact is not published.
	_, ok = h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl")
	assert.False(t, ok)

	// Ledger updated and lock left released.
	ledgerBody, ok := h.store.Object(testBucket, testLedgerKey)
	require.True(t, ok)
	assert.Contains(t, string(ledgerBody), bfoIRI)
	lockBody, ok := h.store.Object(testBucket, testLockKey)
	require.True(t, ok)
	assert.Contains(t, string(lockBody), "locked: false")

	records, err := h.journal.RunRecords(report.RunID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "success", records[0].Outcome)
}

func TestRunSkipsKnownVersion(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, fmt.Sprintf(
		"ontologies:\n  bfo:\n    current_iri: %s\n    current_version: \"2021-08-26\"\n", bfoIRI))

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.Tally{Skipped: 1}, report.Tally)
	assert.Equal(t, "version already released", report.Outcomes[0].Reason)

	// Nothing published for a known version.
	_, ok := h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl_kgx.tsv")
	assert.False(t, ok)
}

func TestRunAbortsWhenLockHeld(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	require.NoError(t, h.store.Put(context.Background(), testBucket, testLockKey, []byte("locked: true\n"), false))
	before := h.store.PutCount()

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.LockHeld)
	assert.Empty(t, report.Outcomes)
	// A held lock means zero writes of any kind.
	assert.Equal(t, before, h.store.PutCount())
}

func TestRunFailsWithoutLedger(t *testing.T) {
	h := newHarness(t)

	_, err := h.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrLedgerUnavailable)
}

func TestImportingArtifactIsDisqualified(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.fetcher.headers["http://obo.test/bfo.owl"] = []byte(bfoHeader +
		`<owl:imports rdf:resource="http://purl.obolibrary.org/obo/ro.owl"/>`)

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.Tally{Failed: 1}, report.Tally)
	assert.Contains(t, report.Outcomes[0].Reason, "imports")
	_, ok := h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl_kgx.tsv")
	assert.False(t, ok)
}

func TestRegistryImportsAreDisqualified(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.catalog.entries[0].Imports = []string{"ro"}

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Tally{Failed: 1}, report.Tally)
}

func TestEmptyOutputFailsOntology(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.conv.EmptyFormats["tsv"] = true

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.Tally{Failed: 1}, report.Tally)
	assert.Contains(t, report.Outcomes[0].Reason, "empty output")

	// Nothing published, no working tree left behind.
	_, ok := h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl_kgx.json")
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(h.dataDir, "bfo"))
	assert.True(t, os.IsNotExist(err))
}

func TestZeroByteFileAmongOutputsFailsEncoding(t *testing.T) {
	h := newHarness(t)

	// kgx-style converters write several files per encoding; one empty
	// edges file beside a healthy nodes file must still fail.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bfo_nodes.tsv"), []byte("id\tname\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bfo_edges.tsv"), nil, 0o644))

	results := h.pipeline.validateOutputs(dir, []core.TransformResult{{Encoding: "tsv", OK: true}})
	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Message, "empty output")

	// No output at all fails as well.
	results = h.pipeline.validateOutputs(t.TempDir(), []core.TransformResult{{Encoding: "tsv", OK: true}})
	assert.False(t, results[0].OK)
}

func TestConverterWarningsDegradeOutcome(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.conv.Warnings = []string{"ERROR: 3 dangling edges dropped"}

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.Tally{Degraded: 1}, report.Tally)
	// Degraded runs still publish.
	_, ok := h.store.Object(testBucket, "kg-obo/bfo/2021-08-26/bfo.owl_kgx.tsv")
	assert.True(t, ok)
}

func TestFailureIsContainedPerOntology(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.catalog.entries = []registry.Entry{
		{ID: "broken", OntologyPURL: "http://obo.test/broken.owl"},
		bfoEntry(),
	}

	report, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.Tally{Clean: 1, Failed: 1}, report.Tally)
	assert.Equal(t, "broken", report.Outcomes[0].Ontology)
	assert.Equal(t, core.OutcomeFailed, report.Outcomes[0].Kind)
	assert.Equal(t, "bfo", report.Outcomes[1].Ontology)
	assert.Equal(t, core.OutcomeClean, report.Outcomes[1].Kind)
}

func TestDownloadProgressReported(t *testing.T) {
	var buf testBuffer
	h := newHarness(t, WithProgressWriter(&buf))
	seedLedger(t, h.store, "")

	// Large enough to cross the reporting threshold in one chunk.
	body := append([]byte(bfoHeader), make([]byte, 512*1024)...)
	h.fetcher.bodies["http://obo.test/bfo.owl"] = body

	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "bfo: downloaded")
}

func TestSweepKeepsLedgerCopy(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")

	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	dirents, err := os.ReadDir(h.dataDir)
	require.NoError(t, err)
	require.Len(t, dirents, 1)
	assert.Equal(t, "tracking.yaml", dirents[0].Name())
}

func TestRetainLocalKeepsWorkingTrees(t *testing.T) {
	h := newHarness(t, WithRetainLocal(true))
	seedLedger(t, h.store, "")

	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(h.dataDir, "bfo", "2021-08-26", "bfo.owl_kgx.tsv"))
	assert.NoError(t, err)
}

type flakyLock struct {
	RunLock
	releaseErr error
}

func (f *flakyLock) Release(ctx context.Context) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	return f.RunLock.Release(ctx)
}

func TestReleaseFailureEscalates(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.pipeline.lock = &flakyLock{RunLock: h.pipeline.lock, releaseErr: errors.New("remote refused")}

	report, err := h.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "releasing run lock")
	// The run itself still completed.
	require.NotNil(t, report)
	assert.Equal(t, core.Tally{Clean: 1}, report.Tally)
}

func TestReleaseFailureJoinedWithRunError(t *testing.T) {
	h := newHarness(t)
	seedLedger(t, h.store, "")
	h.catalog.err = errors.New("registry offline")
	h.pipeline.lock = &flakyLock{RunLock: h.pipeline.lock, releaseErr: errors.New("remote refused")}

	_, err := h.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry offline")
	assert.Contains(t, err.Error(), "releasing run lock")
}

func TestProgressTracker(t *testing.T) {
	var buf testBuffer
	tracker := NewProgressTracker(&buf, 4, 2)
	tracker.Start()
	tracker.Increment(1)
	assert.Empty(t, buf.String())
	tracker.Increment(1)
	assert.Contains(t, buf.String(), "2/4")
	tracker.Finish()
	assert.Contains(t, buf.String(), "4/4 ontologies (100.0%)")
}

type testBuffer struct {
	data []byte
}

func (b *testBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *testBuffer) String() string { return string(b.data) }
