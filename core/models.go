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

import "time"

const (
	// DefaultMarker is used for both the IRI and version of an artifact
	// whose header carries no version metadata at all.
	DefaultMarker = "release"

	// NoVersion is the ledger sentinel for an ontology that has never
	// been published.
	NoVersion = "NA"
)

// VersionDescriptor identifies one version of one ontology artifact.
// IRI is the artifact's declared version IRI; Version is the short,
// percent-encoded token used as a path segment in storage keys.
type VersionDescriptor struct {
	IRI     string
	Version string
}

// DefaultDescriptor returns the descriptor used when an artifact header
// yields no version signal.
func DefaultDescriptor() VersionDescriptor {
	return VersionDescriptor{IRI: DefaultMarker, Version: DefaultMarker}
}

// TransformResult is the outcome of converting one artifact into one
// output encoding.
type TransformResult struct {
	Encoding  string
	OK        bool
	HadErrors bool // converter completed but reported recoverable errors
	Message   string
}

// OutcomeKind classifies the terminal state of one ontology within a run.
type OutcomeKind int

const (
	// OutcomeSkipped means the version was already published or the
	// artifact declares unsupported imports. Not an error.
	OutcomeSkipped OutcomeKind = iota + 1
	// OutcomeClean means every encoding converted without errors and
	// the outputs were published.
	OutcomeClean
	// OutcomeDegraded means the outputs were published but at least one
	// encoding reported recoverable errors.
	OutcomeDegraded
	// OutcomeFailed means download, conversion, validation, or
	// publication failed; the local working tree was removed.
	OutcomeFailed
)

// String returns the report label for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeClean:
		return "success"
	case OutcomeDegraded:
		return "success (with errors)"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records the terminal state of one ontology within a run.
// Outcomes are collected in registry order; tallies are derived by
// filtering at report time.
type Outcome struct {
	Ontology    string
	Kind        OutcomeKind
	Reason      string
	Version     VersionDescriptor
	Results     []TransformResult
	Fingerprint string // blake2b digest of the downloaded artifact, when available
	At          time.Time
}

// ClassifyResults folds per-encoding transform results into a single
// outcome kind. Any incomplete encoding fails the whole ontology; a
// complete set with reported errors is a degraded success.
func ClassifyResults(results []TransformResult) OutcomeKind {
	if len(results) == 0 {
		return OutcomeFailed
	}
	kind := OutcomeClean
	for _, r := range results {
		if !r.OK {
			return OutcomeFailed
		}
		if r.HadErrors {
			kind = OutcomeDegraded
		}
	}
	return kind
}

// Tally counts outcomes by kind.
type Tally struct {
	Clean    int
	Degraded int
	Failed   int
	Skipped  int
}

// TallyOutcomes derives per-kind counts from an ordered outcome sequence.
func TallyOutcomes(outcomes []Outcome) Tally {
	var t Tally
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeClean:
			t.Clean++
		case OutcomeDegraded:
			t.Degraded++
		case OutcomeFailed:
			t.Failed++
		case OutcomeSkipped:
			t.Skipped++
		}
	}
	return t
}
