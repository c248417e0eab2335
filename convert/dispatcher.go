package convert

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
)

// Dispatcher invokes the converter once per requested output encoding.
// Encodings are converted one after another, never concurrently, and a
// failed encoding is never retried: classification is the orchestrator's
// job.
type Dispatcher struct {
	converter Converter
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets a custom logger. Default is slog.Default().
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher around a converter.
func NewDispatcher(converter Converter, opts ...DispatcherOption) (*Dispatcher, error) {
	if converter == nil {
		return nil, ErrConverterRequired
	}
	d := &Dispatcher{
		converter: converter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch converts the artifact at inputPath into every requested
// encoding, writing outputs under outputDir. One TransformResult is
// returned per encoding, in request order.
func (d *Dispatcher) Dispatch(ctx context.Context, inputPath, inputFormat, outputDir string, encodings []string) ([]core.TransformResult, error) {
	if err := core.ValidateEncodings(encodings); err != nil {
		return nil, err
	}

	results := make([]core.TransformResult, 0, len(encodings))
	for _, encoding := range encodings {
		report, err := d.converter.Convert(ctx, Job{
			InputPath:    inputPath,
			InputFormat:  inputFormat,
			OutputDir:    outputDir,
			OutputFormat: encoding,
		})

		result := core.TransformResult{Encoding: encoding}
		switch {
		case err != nil:
			result.Message = err.Error()
			d.logger.Error("conversion failed", "encoding", encoding, "err", err)
		case report != nil && len(report.Warnings) > 0:
			result.OK = true
			result.HadErrors = true
			result.Message = strings.Join(report.Warnings, "; ")
			d.logger.Warn("conversion completed with errors",
				"encoding", encoding, "warnings", len(report.Warnings))
		default:
			result.OK = true
		}
		results = append(results, result)
	}
	return results, nil
}
