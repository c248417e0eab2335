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

// Package tracking holds the run-spanning remote state: the tracking
// ledger of published ontology versions and the run lock.
//
// Both live in the blob store. The ledger follows a strict
// fetch-before-read/write discipline so concurrent runs never act on a
// stale copy; the run lock is the sole mutual-exclusion mechanism, held
// by the orchestrator for the whole run. Neither type is safe for
// concurrent callers without the lock.
package tracking
