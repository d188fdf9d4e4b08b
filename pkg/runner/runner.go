package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/readpat/internal/logging"
)

// ErrNoStdin is reported for StdinPath when Options.Stdin is nil.
var ErrNoStdin = errors.New("standard input is not available")

// Runner reads many inputs with one Extractor.
type Runner struct {
	// Extractor runs the pattern against each input.
	Extractor Extractor

	logger *log.Logger
}

// New creates a Runner. A nil logger discards output.
func New(extractor Extractor, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{Extractor: extractor, logger: logger}
}

// Run discovers inputs under opts.Paths and reads them concurrently.
// Outcomes are returned in discovery order regardless of completion order.
// A failing input is recorded in its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	inputs, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Inputs: make([]InputOutcome, 0, len(inputs))}
	result.Stats.InputsDiscovered = len(inputs)
	r.logger.Debug("inputs discovered", logging.FieldInputsDiscovered, len(inputs))

	if len(inputs) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(inputs))

	// Each slot is written by exactly one worker.
	outcomes := make([]InputOutcome, len(inputs))
	done := make([]bool, len(inputs))
	workCh := make(chan int)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				if ctx.Err() != nil {
					continue
				}
				outcomes[idx] = r.readInput(ctx, inputs[idx], opts.Stdin)
				done[idx] = true
			}
		}()
	}

	for idx := range inputs {
		if ctx.Err() != nil {
			break
		}
		workCh <- idx
	}
	close(workCh)
	wg.Wait()

	for idx, outcome := range outcomes {
		if done[idx] {
			result.accumulate(outcome)
		}
	}

	r.logger.Debug("run finished",
		logging.FieldInputsProcessed, result.Stats.InputsProcessed,
		logging.FieldInputsFailed, result.Stats.InputsFailed,
		logging.FieldJobs, jobs,
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// readInput opens path and extracts its values.
func (r *Runner) readInput(ctx context.Context, path string, stdin io.Reader) InputOutcome {
	outcome := InputOutcome{Path: path}

	var src io.Reader
	if path == StdinPath {
		if stdin == nil {
			outcome.Error = ErrNoStdin
			return outcome
		}
		src = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			outcome.Error = fmt.Errorf("open input: %w", err)
			return outcome
		}
		defer file.Close()
		src = file
	}

	outcome.Values, outcome.Error = r.Extractor.Read(ctx, src)
	if outcome.Error != nil {
		r.logger.Debug("input failed", logging.FieldInput, path, logging.FieldError, outcome.Error)
	} else {
		r.logger.Debug("input read", logging.FieldInput, path, logging.FieldResults, len(outcome.Values))
	}
	return outcome
}
