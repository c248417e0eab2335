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

// Package exec runs an external graph converter command.
package exec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Knowledge-Graph-Hub/obo2kghub/convert"
)

// Runner invokes a kgx-style converter command once per job:
//
//	<command> transform --input <path> --input-format <fmt>
//	          --output <dir> --output-format <fmt>
//
// The converter logs recoverable problems to stderr instead of failing;
// Runner intercepts that stream and returns ERROR/WARNING-tagged lines
// as report warnings when the process exits zero.
type Runner struct {
	command string
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a runner for the given converter command.
func New(command string, opts ...Option) (*Runner, error) {
	if command == "" {
		return nil, convert.ErrConverterCommand
	}
	r := &Runner{
		command: command,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Convert runs the converter command for one job.
func (r *Runner) Convert(ctx context.Context, job convert.Job) (*convert.Report, error) {
	args := []string{
		"transform",
		"--input", job.InputPath,
		"--input-format", job.InputFormat,
		"--output", job.OutputDir,
		"--output-format", job.OutputFormat,
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger.Debug("invoking converter", "command", r.command, "encoding", job.OutputFormat)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", convert.ErrConverterCommand,
			r.command, strings.Join(args, " "), err)
	}

	return &convert.Report{Warnings: scanWarnings(&stderr)}, nil
}

// scanWarnings pulls ERROR- and WARNING-tagged lines out of the
// converter's stderr stream.
func scanWarnings(stderr *bytes.Buffer) []string {
	var warnings []string
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "ERROR") || strings.Contains(upper, "WARNING") {
			warnings = append(warnings, line)
		}
	}
	return warnings
}

var _ convert.Converter = (*Runner)(nil)
