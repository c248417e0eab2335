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

import "fmt"

// ValidateOntologyID checks that an ontology identifier is usable as a
// local directory name and a remote key segment.
func ValidateOntologyID(id string) error {
	if id == "" {
		return ErrEmptyOntologyID
	}
	for _, r := range id {
		if r == '/' || r == '\\' || r == 0 {
			return fmt.Errorf("%w: %q contains path separator", ErrEmptyOntologyID, id)
		}
	}
	return nil
}

// Validate checks that a descriptor carries both an IRI and a version token.
// Descriptors produced by the inspector always satisfy this (defaults are
// substituted), so a failure here indicates hand-built input.
func (d VersionDescriptor) Validate() error {
	if d.IRI == "" {
		return ErrEmptyIRI
	}
	if d.Version == "" {
		return ErrEmptyVersion
	}
	return nil
}

// ValidateEncodings checks a requested output-encoding list.
func ValidateEncodings(encodings []string) error {
	if len(encodings) == 0 {
		return ErrNoEncodings
	}
	for _, e := range encodings {
		if e == "" {
			return fmt.Errorf("%w: empty encoding name", ErrNoEncodings)
		}
	}
	return nil
}
