package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/readpat/pkg/runner"
)

// RawReporter writes bare values separated by a delimiter, for pipelines.
// Failures go to the error writer so they never mix with values.
type RawReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewRawReporter creates a new raw reporter.
func NewRawReporter(opts Options) *RawReporter {
	return &RawReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *RawReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var total int
	for _, input := range result.Inputs {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		for _, value := range input.Values {
			if _, err := r.bw.WriteString(value + r.opts.Delimiter); err != nil {
				return total, fmt.Errorf("write value: %w", err)
			}
			total++
		}

		if input.Failed() {
			fmt.Fprintf(r.opts.ErrorWriter, "%s: %v\n", displayPath(input.Path, r.opts.WorkingDir), input.Error)
		}
	}

	return total, nil
}
