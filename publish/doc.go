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

// Package publish pushes converted ontology versions to blob storage.
//
// A publication is the final step of a successful ontology run: the
// version is recorded in the tracking ledger, browsable index.html
// listings are regenerated for the ontology and version directories, and
// the local version tree is uploaded under {remoteRoot}/{id}/{version}/.
// Uploads never replace existing objects (except the index artifacts),
// which makes republishing after a partial failure safe.
package publish
