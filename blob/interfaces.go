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

package blob

import "context"

// Store is the durable remote storage capability used for published
// artifacts, the tracking ledger, and the run lock.
// Implementations must be safe for concurrent use.
type Store interface {
	// Exists reports whether an object is present at bucket/key.
	// A missing object is (false, nil); only transport problems error.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// Put writes data to bucket/key, optionally with public-read
	// visibility where the backend supports it.
	Put(ctx context.Context, bucket, key string, data []byte, public bool) error

	// PutFile uploads the file at localPath to bucket/key.
	PutFile(ctx context.Context, bucket, key, localPath string, public bool) error

	// Get downloads the object at bucket/key to localPath, creating
	// parent directories as needed.
	Get(ctx context.Context, bucket, key, localPath string) error
}
