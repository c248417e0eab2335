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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob"
)

type lockDoc struct {
	Locked bool `yaml:"locked"`
}

// Lock is the remote mutual-exclusion token for orchestrator runs. It is
// a boolean-valued object at a fixed key, held for the duration of a
// whole run, and not re-entrant: a run that observes the lock held must
// exit without modifying any state.
type Lock struct {
	store  blob.Store
	bucket string
	key    string
}

// NewLock creates a run lock at bucket/key.
func NewLock(store blob.Store, bucket, key string) (*Lock, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Lock{store: store, bucket: bucket, key: key}, nil
}

// IsLocked reports whether another run currently holds the lock. A
// missing lock object, or one last written unlocked, reads as free.
func (k *Lock) IsLocked(ctx context.Context) (bool, error) {
	tmp, err := os.CreateTemp("", "runlock-*.yaml")
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := k.store.Get(ctx, k.bucket, k.key, tmpPath); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	var doc lockDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Unreadable lock content is treated as held: another writer
		// may be mid-flight and proceeding risks corruption.
		return true, nil
	}
	return doc.Locked, nil
}

// Acquire writes the locked state. Failure to acquire is fatal to the run.
func (k *Lock) Acquire(ctx context.Context) error {
	if err := k.put(ctx, true); err != nil {
		return fmt.Errorf("%w: acquire: %v", ErrLockUnavailable, err)
	}
	return nil
}

// Release writes the unlocked state. Callers must attempt release
// exactly once on every exit path; a failed release blocks all future
// runs and must escalate to a nonzero process exit.
func (k *Lock) Release(ctx context.Context) error {
	if err := k.put(ctx, false); err != nil {
		return fmt.Errorf("%w: release: %v", ErrLockUnavailable, err)
	}
	return nil
}

func (k *Lock) put(ctx context.Context, locked bool) error {
	data, err := yaml.Marshal(lockDoc{Locked: locked})
	if err != nil {
		return err
	}
	return k.store.Put(ctx, k.bucket, k.key, data, false)
}

// Key returns the lock object's key, for log messages.
func (k *Lock) Key() string {
	return filepath.Join(k.bucket, k.key)
}
