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

// Package mock provides an in-memory blob.Store for tests and for the
// operator mock mode, which runs the full pipeline against fake remote
// storage without real writes.
package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob"
)

// Store is an in-memory blob store. It records every put so tests can
// assert on write counts and visibility flags.
type Store struct {
	mu      sync.Mutex
	objects map[string][]byte
	public  map[string]bool
	puts    []string

	// FailPut, FailGet, and FailExists force transport-style failures.
	FailPut    bool
	FailGet    bool
	FailExists bool
}

// NewStore creates an empty in-memory store.
//
// Returns the concrete type rather than blob.Store so tests can reach
// the inspection helpers; the pipeline still consumes it as blob.Store.
func NewStore() *Store {
	return &Store{
		objects: make(map[string][]byte),
		public:  make(map[string]bool),
	}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

// Exists reports whether an object was stored at bucket/key.
func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if s.FailExists {
		return false, fmt.Errorf("mock store: exists failure for %s/%s", bucket, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectKey(bucket, key)]
	return ok, nil
}

// Put stores data at bucket/key.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, public bool) error {
	if s.FailPut {
		return fmt.Errorf("mock store: put failure for %s/%s", bucket, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	full := objectKey(bucket, key)
	s.objects[full] = append([]byte(nil), data...)
	s.public[full] = public
	s.puts = append(s.puts, full)
	return nil
}

// PutFile stores the contents of localPath at bucket/key.
func (s *Store) PutFile(ctx context.Context, bucket, key, localPath string, public bool) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	return s.Put(ctx, bucket, key, data, public)
}

// Get writes the stored object to localPath.
func (s *Store) Get(ctx context.Context, bucket, key, localPath string) error {
	if s.FailGet {
		return fmt.Errorf("mock store: get failure for %s/%s", bucket, key)
	}
	s.mu.Lock()
	data, ok := s.objects[objectKey(bucket, key)]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("mock store: %s/%s: %w", bucket, key, blob.ErrNotFound)
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(localPath, data, 0o644)
}

// Object returns the stored bytes for bucket/key, if present.
func (s *Store) Object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey(bucket, key)]
	return data, ok
}

// IsPublic reports the visibility recorded for bucket/key.
func (s *Store) IsPublic(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.public[objectKey(bucket, key)]
}

// PutCount returns the number of put operations recorded, across all keys.
func (s *Store) PutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}

// Puts returns the recorded put keys in order.
func (s *Store) Puts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.puts...)
}

var _ blob.Store = (*Store)(nil)
