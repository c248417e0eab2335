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

package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob"
	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
)

const defaultPoolSize = 4

// Recorder is the slice of the tracking ledger the publisher needs.
type Recorder interface {
	Record(ctx context.Context, id, iri, version string) error
}

// Result summarizes one publication.
type Result struct {
	Uploaded int
	Skipped  int
}

// Publisher pushes a converted, validated ontology version to the blob
// store and records it in the ledger. Uploads are idempotent: objects
// already present at their destination key are never overwritten, only
// missing ones are added, so re-running after a crash mid-publish is safe.
type Publisher struct {
	store      blob.Store
	recorder   Recorder
	bucket     string
	remoteRoot string
	makePublic bool
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher) error

// WithPoolSize sets the upload worker pool size. Uploads within one
// ontology version run concurrently; ontologies are still processed one
// at a time.
func WithPoolSize(size int) Option {
	return func(p *Publisher) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithPublicRead marks uploaded objects public-readable.
func WithPublicRead(public bool) Option {
	return func(p *Publisher) error {
		p.makePublic = public
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// New creates a publisher rooted at bucket/remoteRoot.
func New(store blob.Store, recorder Recorder, bucket, remoteRoot string, opts ...Option) (*Publisher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if recorder == nil {
		return nil, ErrRecorderRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Publisher{
		store:      store,
		recorder:   recorder,
		bucket:     bucket,
		remoteRoot: remoteRoot,
		pool:       pool,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Publish records the version in the ledger, regenerates the index
// artifacts for this ontology, and uploads the version directory tree to
// {remoteRoot}/{id}/{version}/. The caller is responsible for removing
// the local working tree if an error is returned.
func (p *Publisher) Publish(ctx context.Context, id string, desc core.VersionDescriptor, versionDir string) (*Result, error) {
	if err := core.ValidateOntologyID(id); err != nil {
		return nil, err
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	if err := p.recorder.Record(ctx, id, desc.IRI, desc.Version); err != nil {
		return nil, fmt.Errorf("recording %s %s: %w", id, desc.Version, err)
	}

	// Index artifacts are scoped to just this ontology version: the
	// version directory listing and the ontology directory listing.
	if err := WriteIndex(versionDir, fmt.Sprintf("%s %s", id, desc.Version)); err != nil {
		return nil, fmt.Errorf("indexing %s: %w", versionDir, err)
	}
	ontologyDir := filepath.Dir(versionDir)
	if err := WriteIndex(ontologyDir, id); err != nil {
		return nil, fmt.Errorf("indexing %s: %w", ontologyDir, err)
	}

	result, err := p.uploadTree(ctx, versionDir, path.Join(p.remoteRoot, id, desc.Version))
	if err != nil {
		return nil, err
	}

	// The ontology-level index reflects the new version.
	indexResult, err := p.uploadFile(ctx, filepath.Join(ontologyDir, indexFileName),
		path.Join(p.remoteRoot, id, indexFileName), true)
	if err != nil {
		return nil, err
	}
	result.Uploaded += indexResult.Uploaded

	p.logger.Info("published", "ontology", id, "version", desc.Version,
		"uploaded", result.Uploaded, "skipped", result.Skipped)
	return result, nil
}

// uploadTree walks localDir and uploads every file to its key under
// remotePrefix, skipping keys that already exist. Files within one tree
// upload concurrently on the worker pool.
func (p *Publisher) uploadTree(ctx context.Context, localDir, remotePrefix string) (*Result, error) {
	var files []string
	err := filepath.Walk(localDir, func(fp string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, fp)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", localDir, err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		result   Result
	)

	for _, fp := range files {
		rel, err := filepath.Rel(localDir, fp)
		if err != nil {
			return nil, err
		}
		key := path.Join(remotePrefix, filepath.ToSlash(rel))
		localPath := fp

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			r, err := p.uploadFile(ctx, localPath, key, false)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			result.Uploaded += r.Uploaded
			result.Skipped += r.Skipped
		})
		if submitErr != nil {
			// Already-submitted uploads must finish before we return;
			// they write to result and firstErr.
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submitting upload of %s: %w", key, submitErr)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &result, nil
}

// uploadFile uploads one file unless its key already exists. overwrite
// forces the put; index artifacts are the only objects replaced in place.
func (p *Publisher) uploadFile(ctx context.Context, localPath, key string, overwrite bool) (*Result, error) {
	if !overwrite {
		exists, err := p.store.Exists(ctx, p.bucket, key)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", key, err)
		}
		if exists {
			p.logger.Warn("existing object found, skipping", "key", key)
			return &Result{Skipped: 1}, nil
		}
	}

	p.logger.Info("uploading", "key", key)
	if err := p.store.PutFile(ctx, p.bucket, key, localPath, p.makePublic); err != nil {
		return nil, err
	}
	return &Result{Uploaded: 1}, nil
}

// RefreshRootIndex regenerates {remoteRoot}/index.html listing the given
// ontology IDs. Unlike data uploads this always overwrites.
func (p *Publisher) RefreshRootIndex(ctx context.Context, ids []string) error {
	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, id+"/")
	}
	sort.Strings(entries)

	data, err := renderIndex(p.remoteRoot, entries)
	if err != nil {
		return fmt.Errorf("rendering root index: %w", err)
	}
	return p.store.Put(ctx, p.bucket, path.Join(p.remoteRoot, indexFileName), data, p.makePublic)
}

// Release releases the upload worker pool. The publisher should not be
// used after calling Release.
func (p *Publisher) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
