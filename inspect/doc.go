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

// Package inspect extracts version identity and import declarations from
// the header region of an ontology document, without a full parse.
//
// Pattern extraction over the raw header bytes is deliberate: the fields
// of interest live near the document head, and scanning a prefix avoids
// downloading and parsing multi-gigabyte artifacts whose version is
// already known. The extraction strategy is confined to this package so
// it can be swapped for a streaming parser without touching callers.
package inspect
