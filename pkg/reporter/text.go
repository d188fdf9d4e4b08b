package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/readpat/internal/ui/pretty"
	"github.com/yaklabco/readpat/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Inputs) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No inputs to read."))
		}
		return 0, nil
	}

	var total int
	for idx, input := range result.Inputs {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		path := displayPath(input.Path, r.opts.WorkingDir)
		if r.opts.ShowHeaders {
			if idx > 0 {
				fmt.Fprintln(r.bw)
			}
			fmt.Fprintln(r.bw, r.styles.FormatInputHeader(path, len(input.Values)))
		}

		for valueIdx, value := range input.Values {
			fmt.Fprintln(r.bw, r.styles.FormatValue(valueIdx, value))
		}
		total += len(input.Values)

		if input.Failed() {
			fmt.Fprint(r.bw, r.styles.FormatInputError(path, input.Error, r.opts.Pattern))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	}

	return total, nil
}
