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

// Package mock provides a scripted convert.Converter for tests and for
// the operator mock mode.
package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Knowledge-Graph-Hub/obo2kghub/convert"
)

// Converter is a test double that writes fixed output files per encoding
// instead of running a real conversion.
type Converter struct {
	mu sync.Mutex

	// Outputs maps an output format to the file contents written for it.
	// Defaults cover the tsv and json encodings.
	Outputs map[string][]byte

	// Warnings is returned for every job.
	Warnings []string

	// FailFormats lists output formats whose conversion errors outright.
	FailFormats map[string]bool

	// EmptyFormats lists output formats that produce a zero-byte file
	// while still reporting success. Exercises the silent-empty-output
	// failure mode.
	EmptyFormats map[string]bool

	jobs []convert.Job
}

// NewConverter creates a mock converter with default outputs for the
// tsv and json encodings.
func NewConverter() *Converter {
	return &Converter{
		Outputs: map[string][]byte{
			"tsv":  []byte("id\tname\nBFO:0000001\tentity\n"),
			"json": []byte(`{"nodes": [{"id": "BFO:0000001"}], "edges": []}`),
		},
		FailFormats:  make(map[string]bool),
		EmptyFormats: make(map[string]bool),
	}
}

// Convert writes the scripted output for the job's encoding.
func (c *Converter) Convert(ctx context.Context, job convert.Job) (*convert.Report, error) {
	c.mu.Lock()
	c.jobs = append(c.jobs, job)
	failed := c.FailFormats[job.OutputFormat]
	empty := c.EmptyFormats[job.OutputFormat]
	data, ok := c.Outputs[job.OutputFormat]
	warnings := append([]string(nil), c.Warnings...)
	c.mu.Unlock()

	if failed {
		return nil, fmt.Errorf("mock converter: scripted failure for %s", job.OutputFormat)
	}
	if !ok {
		data = []byte("mock output\n")
	}
	if empty {
		data = nil
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s_kgx.%s", filepath.Base(job.InputPath), job.OutputFormat)
	if err := os.WriteFile(filepath.Join(job.OutputDir, name), data, 0o644); err != nil {
		return nil, err
	}

	return &convert.Report{Warnings: warnings}, nil
}

// Jobs returns the conversion jobs received, in order.
func (c *Converter) Jobs() []convert.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]convert.Job(nil), c.jobs...)
}

var _ convert.Converter = (*Converter)(nil)
