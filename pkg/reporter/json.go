package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string            `json:"version"`
	Pattern string            `json:"pattern"`
	Inputs  []JSONInputResult `json:"inputs"`
	Summary JSONSummary       `json:"summary"`
}

// JSONInputResult represents a single input's results.
type JSONInputResult struct {
	Path   string     `json:"path"`
	Values []string   `json:"values"`
	Error  *JSONError `json:"error,omitempty"`
}

// JSONError describes a failed input. The location fields are set when the
// failure was traced back to an operation.
type JSONError struct {
	Message    string `json:"message"`
	Operation  string `json:"operation,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	TextOffset *int   `json:"textOffset,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Inputs    int `json:"inputs"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Values    int `json:"values"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Values, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Pattern: r.opts.Pattern,
		Inputs:  make([]JSONInputResult, 0),
	}

	if result == nil {
		return output
	}

	for _, input := range result.Inputs {
		entry := JSONInputResult{
			Path:   displayPath(input.Path, r.opts.WorkingDir),
			Values: input.Values,
		}
		if entry.Values == nil {
			entry.Values = make([]string, 0)
		}
		if input.Failed() {
			entry.Error = newJSONError(input.Error)
		}
		output.Inputs = append(output.Inputs, entry)
	}

	output.Summary = JSONSummary{
		Inputs:    result.Stats.InputsDiscovered,
		Processed: result.Stats.InputsProcessed,
		Failed:    result.Stats.InputsFailed,
		Values:    result.Stats.ValuesTotal,
	}

	return output
}

func newJSONError(err error) *JSONError {
	var detailed *interp.DetailedError
	if !errors.As(err, &detailed) {
		return &JSONError{Message: err.Error()}
	}

	offset := detailed.Offset
	return &JSONError{
		Message:    detailed.Err.Error(),
		Operation:  detailed.Fragment,
		Line:       detailed.PatternPos.Line,
		Column:     detailed.PatternPos.Column,
		TextOffset: &offset,
	}
}
