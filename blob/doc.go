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

// Package blob defines the remote object storage abstraction.
//
// Constructors in the backend subpackages return the Store interface so
// consumers never couple to a specific backend:
//
//	store, err := s3.New(ctx, s3.WithRegion("us-east-1"))
//
// The s3 subpackage talks to Amazon S3; the mock subpackage is an
// in-memory store used by tests and by the operator mock mode, which
// exercises the same code paths without real remote writes.
package blob
