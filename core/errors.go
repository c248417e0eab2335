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

package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyOntologyID indicates a registry entry without an identifier.
	ErrEmptyOntologyID = errors.New("ontology id cannot be empty")

	// ErrEmptyIRI indicates a version descriptor without an IRI.
	ErrEmptyIRI = errors.New("version IRI cannot be empty")

	// ErrEmptyVersion indicates a version descriptor without a version token.
	ErrEmptyVersion = errors.New("version token cannot be empty")

	// ErrNoEncodings indicates a conversion request without output encodings.
	ErrNoEncodings = errors.New("at least one output encoding is required")
)
