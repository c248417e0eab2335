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

// Package registry retrieves and filters the ontology registry document.
//
// The registry is a remotely hosted YAML list of ontology entries. It is
// consumed read-only: entries are fetched once per run, obsolete entries
// are removed unconditionally, and the remainder is narrowed by an
// operator-supplied skip-list or allow-list before orchestration begins.
package registry
