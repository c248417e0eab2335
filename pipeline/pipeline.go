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
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
	"github.com/Knowledge-Graph-Hub/obo2kghub/fetch"
	"github.com/Knowledge-Graph-Hub/obo2kghub/publish"
	"github.com/Knowledge-Graph-Hub/obo2kghub/registry"
)

const (
	defaultHeaderRetries = 3
	defaultRetryDelay    = 2 * time.Second
)

// Catalog lists candidate ontologies and resolves their download URLs.
type Catalog interface {
	Entries(ctx context.Context) ([]registry.Entry, error)
	SourceURL(ctx context.Context, id string) string
}

// Fetcher retrieves artifact headers and full artifacts.
type Fetcher interface {
	Header(ctx context.Context, url string, maxBytes int64) ([]byte, error)
	File(ctx context.Context, url, path string, progress fetch.ProgressFunc) (int64, error)
}

// Transformer converts one downloaded artifact into the requested
// output encodings.
type Transformer interface {
	Dispatch(ctx context.Context, inputPath, inputFormat, outputDir string, encodings []string) ([]core.TransformResult, error)
}

// Publisher pushes a converted version to remote storage and records it.
type Publisher interface {
	Publish(ctx context.Context, id string, desc core.VersionDescriptor, versionDir string) (*publish.Result, error)
}

// VersionLedger is the slice of the tracking ledger the pipeline reads.
// Writes happen inside the publisher.
type VersionLedger interface {
	Fetch(ctx context.Context) error
	IsKnown(ctx context.Context, id, iri string) (bool, error)
	CompletedCount(ctx context.Context) (int, error)
	LocalPath() string
}

// RunLock guards against concurrent runs over the same remote root.
type RunLock interface {
	IsLocked(ctx context.Context) (bool, error)
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// RunJournal records run history locally. Optional.
type RunJournal interface {
	BeginRun(runID string, startedAt time.Time) error
	AppendOutcome(runID string, outcome core.Outcome) error
}

// Pipeline orchestrates one transformation run: registry fetch, version
// inspection, download, conversion, validation, and publication, one
// ontology at a time. A failure in one ontology never aborts the run;
// only lock and ledger problems do.
type Pipeline struct {
	catalog     Catalog
	fetcher     Fetcher
	transformer Transformer
	publisher   Publisher
	ledger      VersionLedger
	lock        RunLock
	journal     RunJournal

	dataDir        string
	encodings      []string
	skipList       []string
	allowList      []string
	retainLocal    bool
	headerBytes    int64
	headerRetries  int
	retryDelay     time.Duration
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithEncodings sets the output encodings produced per ontology.
// Default is tsv and json.
func WithEncodings(encodings []string) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateEncodings(encodings); err != nil {
			return err
		}
		p.encodings = encodings
		return nil
	}
}

// WithSkipList excludes matching ontology IDs. Patterns may use globs.
func WithSkipList(patterns []string) Option {
	return func(p *Pipeline) error {
		p.skipList = patterns
		return nil
	}
}

// WithAllowList restricts the run to matching ontology IDs. A non-empty
// allow list takes precedence over the skip list.
func WithAllowList(patterns []string) Option {
	return func(p *Pipeline) error {
		p.allowList = patterns
		return nil
	}
}

// WithRetainLocal keeps the local working trees after the run instead of
// removing them. The ledger's local copy is kept either way.
func WithRetainLocal(retain bool) Option {
	return func(p *Pipeline) error {
		p.retainLocal = retain
		return nil
	}
}

// WithJournal attaches a run journal.
func WithJournal(journal RunJournal) Option {
	return func(p *Pipeline) error {
		p.journal = journal
		return nil
	}
}

// WithHeaderBytes sets how much of each artifact is fetched for version
// inspection. Default is fetch.DefaultHeaderBytes.
func WithHeaderBytes(n int64) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.headerBytes = n
		}
		return nil
	}
}

// WithRetryPolicy sets the attempt count and base backoff delay used for
// registry and header fetches. Full downloads are never retried.
func WithRetryPolicy(attempts int, delay time.Duration) Option {
	return func(p *Pipeline) error {
		if attempts > 0 {
			p.headerRetries = attempts
		}
		if delay > 0 {
			p.retryDelay = delay
		}
		return nil
	}
}

// WithProgressWriter sets where per-run progress lines go. Pass
// io.Discard to suppress them. Default is os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w != nil {
			p.progressWriter = w
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a transformation pipeline.
func New(
	catalog Catalog,
	fetcher Fetcher,
	transformer Transformer,
	publisher Publisher,
	ledger VersionLedger,
	lock RunLock,
	dataDir string,
	opts ...Option,
) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if transformer == nil {
		return nil, ErrTransformerRequired
	}
	if publisher == nil {
		return nil, ErrPublisherRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}
	if lock == nil {
		return nil, ErrLockRequired
	}
	if dataDir == "" {
		return nil, ErrDataDirRequired
	}

	p := &Pipeline{
		catalog:        catalog,
		fetcher:        fetcher,
		transformer:    transformer,
		publisher:      publisher,
		ledger:         ledger,
		lock:           lock,
		dataDir:        dataDir,
		encodings:      []string{"tsv", "json"},
		headerBytes:    fetch.DefaultHeaderBytes,
		headerRetries:  defaultHeaderRetries,
		retryDelay:     defaultRetryDelay,
		progressWriter: os.Stderr,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}
