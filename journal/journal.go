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

package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/google/uuid"

	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
)

// Record is one journaled ontology outcome within a run.
type Record struct {
	RunID       string    `json:"run_id"`
	Ontology    string    `json:"ontology"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	IRI         string    `json:"iri,omitempty"`
	Version     string    `json:"version,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	At          time.Time `json:"at"`
}

// RunSummary describes one recorded run.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
}

// Journal is a local append-only history of runs, kept in a BadgerDB
// database. It is advisory: the remote ledger is the source of truth for
// what has been published, the journal exists so an operator can answer
// "what happened last night" without trawling logs.
type Journal struct {
	db     *badger.DB
	logger *slog.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(j *Journal) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens the journal database at filePath, creating the directory if
// needed. inMemory skips the filesystem entirely, for tests and mock runs.
func Open(filePath string, inMemory bool, opts ...Option) (*Journal, error) {
	j := &Journal{logger: slog.Default()}
	for _, opt := range opts {
		opt(j)
	}

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(filePath, 0o755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}
	badgerOpts.Logger = &badgerLoggerAdapter{logger: j.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	j.db = db
	return j, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// BeginRun registers a run so it appears in Runs even if every ontology
// is later skipped.
func (j *Journal) BeginRun(runID string, startedAt time.Time) error {
	if runID == "" {
		return ErrEmptyRunID
	}
	return j.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeRunKey(startedAt, runID), []byte(runID))
	})
}

// AppendOutcome journals one ontology outcome under its run.
func (j *Journal) AppendOutcome(runID string, outcome core.Outcome) error {
	if runID == "" {
		return ErrEmptyRunID
	}

	rec := Record{
		RunID:       runID,
		Ontology:    outcome.Ontology,
		Outcome:     outcome.Kind.String(),
		Reason:      outcome.Reason,
		IRI:         outcome.Version.IRI,
		Version:     outcome.Version.Version,
		Fingerprint: outcome.Fingerprint,
		At:          outcome.At,
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return j.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeRecordKey(runID, outcome.At, outcome.Ontology), value)
	})
}

// RunRecords returns the journaled outcomes of one run, oldest first.
func (j *Journal) RunRecords(runID string) ([]Record, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}

	var records []Record
	err := j.db.View(func(tx *badger.Txn) error {
		it := tx.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := makeRecordPrefix(runID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var rec Record
				if err := json.Unmarshal(value, &rec); err != nil {
					return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Runs returns recorded runs, most recent first, up to limit. A limit of
// zero or less returns all runs.
func (j *Journal) Runs(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := j.db.View(func(tx *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Reverse = true
		it := tx.NewIterator(itOpts)
		defer it.Close()

		prefix := []byte(runIndexPrefix + ":")
		// Reverse iteration needs a seek key past the whole prefix range.
		seek := append(append([]byte(nil), prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			startedAt, err := runKeyTime(it.Item().Key())
			if err != nil {
				return err
			}
			err = it.Item().Value(func(value []byte) error {
				runs = append(runs, RunSummary{RunID: string(value), StartedAt: startedAt})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
