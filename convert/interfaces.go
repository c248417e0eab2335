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

package convert

import "context"

// Job describes one conversion: a downloaded artifact transformed into
// one output encoding under the given directory.
type Job struct {
	InputPath    string
	InputFormat  string
	OutputDir    string
	OutputFormat string
}

// Report carries the converter's own warning stream back to the caller.
// Some conditions, such as unsupported node-reference forms, do not fail
// the conversion but indicate degraded output.
type Report struct {
	Warnings []string
}

// Converter is the opaque external conversion capability. Convert writes
// output files for the job's encoding under job.OutputDir and returns a
// report of recoverable warnings; a non-nil error means the encoding did
// not complete.
type Converter interface {
	Convert(ctx context.Context, job Job) (*Report, error)
}
