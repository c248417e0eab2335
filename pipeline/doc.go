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

// Package pipeline orchestrates transformation runs over the OBO Foundry
// registry.
//
// A run moves each candidate ontology through a fixed sequence: resolve
// its download URL, inspect a prefix of the artifact for its version
// descriptor, skip versions the tracking ledger already knows, download
// the full artifact, convert it into each requested encoding, validate
// the outputs, and publish the version tree to blob storage. Ontologies
// are processed one at a time and a failure in one is recorded and
// contained; only infrastructure problems (unreachable ledger, run lock
// contention) abort the run.
package pipeline
