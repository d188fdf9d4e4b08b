package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/readpat/internal/logging"
	"github.com/yaklabco/readpat/internal/ui/pretty"
	"github.com/yaklabco/readpat/pkg/config"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/readpat"
	"github.com/yaklabco/readpat/pkg/reporter"
	"github.com/yaklabco/readpat/pkg/runner"
)

var (
	// ErrInputsFailed is returned when at least one input failed. The
	// failures have already been reported.
	ErrInputsFailed = errors.New("some inputs failed")

	// ErrInteractiveStdin is returned instead of blocking on a terminal.
	ErrInteractiveStdin = fmt.Errorf("%w: standard input is a terminal; pass paths or pipe text in", ErrInvalidUsage)
)

type readFlags struct {
	pattern        patternFlags
	format         string
	comparison     string
	culture        string
	onError        map[string]string
	ignore         []string
	extensions     []string
	null           bool
	compact        bool
	noHeaders      bool
	noSummary      bool
	followSymlinks bool
}

func newReadCommand() *cobra.Command {
	var cfg config.Config
	flags := &readFlags{}

	cmd := &cobra.Command{
		Use:   "read [paths...]",
		Short: "Extract values from text",
		Long:  readLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, args, &cfg, flags)
		},
	}

	addPatternFlags(cmd, &flags.pattern)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, raw, json")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.comparison, "comparison", "", "boundary string comparison: ordinal, culture")
	cmd.Flags().StringVar(&flags.culture, "culture", "", "BCP 47 language tag for culture comparison")
	cmd.Flags().StringToStringVar(&flags.onError, "on-error", nil,
		"error handling as kind=action (kinds: end-of-stream, infinite-loop, closed, other; actions: propagate, suppress, wrap)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip when walking directories")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "only read these extensions when walking directories")
	cmd.Flags().BoolVarP(&flags.null, "null", "0", false, "separate raw values with NUL instead of newline")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON output")
	cmd.Flags().BoolVar(&flags.noHeaders, "no-headers", false, "omit per-input headers in text output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary in text output")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk into symlinked directories")

	return cmd
}

const readLongDescription = `Extract values from text with a read pattern.

Each path is read with the same pattern; directories are walked. With no
paths, or with "-", the text comes from standard input.

Examples:
  readpat read -p "S|'=' {&R} R>" settings.ini
  readpat read -p "(R|',' S.)*" --format raw < list.csv
  readpat read -n kv --format json logs/
  readpat read -p "R|/\d+/" --on-error end-of-stream=suppress -`

func runRead(cmd *cobra.Command, args []string, cfg *config.Config, flags *readFlags) error {
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	cfg.Comparison = config.Comparison(flags.comparison)
	cfg.Culture = flags.culture
	cfg.Errors = flags.onError
	cfg.Ignore = flags.ignore
	cfg.Extensions = flags.extensions
	if color, err := cmd.Flags().GetString("color"); err == nil {
		cfg.Color = color
	}

	finalCfg, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}
	logger := logging.FromContext(commandContext(cmd))

	source, label, err := flags.pattern.resolve(finalCfg)
	if err != nil {
		return err
	}
	logger.Debug("pattern selected", logging.FieldName, label, logging.FieldPattern, source)

	readerOpts, err := readerOptions(finalCfg, logger)
	if err != nil {
		return err
	}

	reader, err := readpat.New(source, readerOpts...)
	if err != nil {
		var syntaxErr *pattern.SyntaxError
		if errors.As(err, &syntaxErr) {
			styles := pretty.NewStyles(pretty.IsColorEnabled(finalCfg.Color, cmd.ErrOrStderr()))
			fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSyntaxError(source, syntaxErr))
		}
		return fmt.Errorf("compile %s: %w", label, err)
	}
	defer reader.Close()

	stdin := cmd.InOrStdin()
	if readsStdin(args) && isTerminal(stdin) {
		return ErrInteractiveStdin
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ctx := commandContext(cmd)
	result, err := runner.New(reader, logger).Run(ctx, runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     finalCfg.Extensions,
		ExcludeGlobs:   finalCfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           finalCfg.Jobs,
		Stdin:          stdin,
	})
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	delimiter := "\n"
	if flags.null {
		delimiter = "\x00"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       finalCfg.Color,
		Pattern:     source,
		ShowSummary: !flags.noSummary && len(result.Inputs) > 1,
		ShowHeaders: !flags.noHeaders,
		Delimiter:   delimiter,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	count, err := rep.Report(ctx, result)
	if err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	logger.Debug("values reported", logging.FieldResults, count)

	if result.HasFailures() {
		return ErrInputsFailed
	}
	return nil
}

// readsStdin reports whether args select standard input.
func readsStdin(args []string) bool {
	if len(args) == 0 {
		return true
	}
	for _, arg := range args {
		if arg == runner.StdinPath {
			return true
		}
	}
	return false
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
