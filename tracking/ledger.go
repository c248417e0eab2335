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

package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob"
	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
)

// ArchiveEntry is a superseded (IRI, version) pair.
type ArchiveEntry struct {
	IRI     string `yaml:"iri"`
	Version string `yaml:"version"`
}

// Entry is the ledger state for one ontology.
type Entry struct {
	CurrentIRI     string         `yaml:"current_iri"`
	CurrentVersion string         `yaml:"current_version"`
	Archive        []ArchiveEntry `yaml:"archive,omitempty"`
}

type ledgerDoc struct {
	Ontologies map[string]*Entry `yaml:"ontologies"`
}

// Ledger is the durable record of published ontology versions. It lives
// in remote storage; every read and write fetches the latest remote copy
// first (read-modify-write). The Ledger performs no locking of its own:
// callers must hold the run lock for the duration of the run.
type Ledger struct {
	store     blob.Store
	bucket    string
	remoteKey string
	localPath string
	logger    *slog.Logger
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithLedgerLogger sets a custom logger. Default is slog.Default().
func WithLedgerLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLedger creates a ledger over the given store. remoteKey is the
// object key of the ledger document; localPath is where the working copy
// is kept between fetches (it is exempt from end-of-run cleanup).
func NewLedger(store blob.Store, bucket, remoteKey, localPath string, opts ...LedgerOption) (*Ledger, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	l := &Ledger{
		store:     store,
		bucket:    bucket,
		remoteKey: remoteKey,
		localPath: localPath,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LocalPath returns the path of the local working copy.
func (l *Ledger) LocalPath() string {
	return l.localPath
}

// Fetch downloads the latest remote ledger into the working copy and
// parses it. A store failure or a missing ledger object is returned to
// the caller; at run start either condition is fatal.
func (l *Ledger) Fetch(ctx context.Context) error {
	if err := l.store.Get(ctx, l.bucket, l.remoteKey, l.localPath); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	if _, err := l.load(); err != nil {
		return err
	}
	return nil
}

func (l *Ledger) load() (*ledgerDoc, error) {
	data, err := os.ReadFile(l.localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading working copy: %v", ErrLedgerUnavailable, err)
	}
	var doc ledgerDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerMalformed, err)
	}
	if doc.Ontologies == nil {
		doc.Ontologies = make(map[string]*Entry)
	}
	return &doc, nil
}

// IsKnown reports whether iri is the current or an archived version of
// the ontology. The remote copy is fetched first so the answer reflects
// the latest published state.
func (l *Ledger) IsKnown(ctx context.Context, id, iri string) (bool, error) {
	if err := l.Fetch(ctx); err != nil {
		return false, err
	}
	doc, err := l.load()
	if err != nil {
		return false, err
	}

	entry, ok := doc.Ontologies[id]
	if !ok {
		return false, nil
	}
	if entry.CurrentIRI == iri {
		return true, nil
	}
	for _, a := range entry.Archive {
		if a.IRI == iri {
			return true, nil
		}
	}
	return false, nil
}

// Record makes (iri, version) the current version of the ontology. The
// previous current version, if any, is appended to the archive first;
// archive history is never rewritten, and recording the IRI that is
// already current is a no-op. The updated ledger is written to the
// working copy and published back with public-read visibility.
func (l *Ledger) Record(ctx context.Context, id, iri, version string) error {
	if err := l.Fetch(ctx); err != nil {
		return err
	}
	doc, err := l.load()
	if err != nil {
		return err
	}

	entry, ok := doc.Ontologies[id]
	if !ok {
		entry = &Entry{CurrentVersion: core.NoVersion}
		doc.Ontologies[id] = entry
	}

	// Re-recording the current IRI must not duplicate it into the
	// archive; current and archived IRIs stay distinct.
	if entry.CurrentIRI == iri {
		return nil
	}

	if entry.CurrentVersion != core.NoVersion && entry.CurrentIRI != "" {
		entry.Archive = append(entry.Archive, ArchiveEntry{
			IRI:     entry.CurrentIRI,
			Version: entry.CurrentVersion,
		})
	}
	entry.CurrentIRI = iri
	entry.CurrentVersion = version

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	if err := os.WriteFile(l.localPath, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger working copy: %w", err)
	}
	if err := l.store.Put(ctx, l.bucket, l.remoteKey, data, true); err != nil {
		return fmt.Errorf("publishing ledger: %w", err)
	}

	l.logger.Info("ledger updated", "ontology", id, "version", version)
	return nil
}

// CompletedCount returns the number of ontologies with a published
// current version, across all time.
func (l *Ledger) CompletedCount(ctx context.Context) (int, error) {
	if err := l.Fetch(ctx); err != nil {
		return 0, err
	}
	doc, err := l.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range doc.Ontologies {
		if e.CurrentVersion != core.NoVersion && e.CurrentVersion != "" {
			count++
		}
	}
	return count, nil
}

// Entries returns a copy of the ledger state keyed by ontology id.
func (l *Ledger) Entries(ctx context.Context) (map[string]Entry, error) {
	if err := l.Fetch(ctx); err != nil {
		return nil, err
	}
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Entry, len(doc.Ontologies))
	for id, e := range doc.Ontologies {
		out[id] = *e
	}
	return out, nil
}
