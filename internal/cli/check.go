package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/readpat/internal/configloader"
	"github.com/yaklabco/readpat/internal/logging"
	"github.com/yaklabco/readpat/internal/ui/pretty"
	"github.com/yaklabco/readpat/pkg/config"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/readpat"
)

// ErrInvalidPatterns is returned by check --all when a named pattern does
// not compile.
var ErrInvalidPatterns = errors.New("invalid patterns")

type checkFlags struct {
	pattern patternFlags
	all     bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a pattern",
		Long: `Compile a pattern and report syntax errors with their position.

Examples:
  readpat check -p "R|'=' S. R>"
  readpat check -f pattern.txt
  readpat check --all            Check every named pattern in the configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, flags)
		},
	}

	addPatternFlags(cmd, &flags.pattern)
	cmd.Flags().BoolVar(&flags.all, "all", false, "check every named pattern in the configuration")

	return cmd
}

func runCheck(cmd *cobra.Command, flags *checkFlags) error {
	// Named patterns are compiled below, one report each.
	cfg, err := loadConfigWith(cmd, configloader.LoadOptions{SkipPatternCheck: true})
	if err != nil {
		return err
	}

	color, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, cmd.OutOrStdout()))

	if !flags.all {
		source, label, err := flags.pattern.resolve(cfg)
		if err != nil {
			return err
		}
		return checkOne(cmd, styles, cfg, label, source)
	}

	names := make([]string, 0, len(cfg.Patterns))
	for name := range cfg.Patterns {
		names = append(names, name)
	}
	slices.Sort(names)

	var failed int
	for _, name := range names {
		if err := checkOne(cmd, styles, cfg, name, cfg.Patterns[name]); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidPatterns, failed, len(names))
	}
	return nil
}

// checkOne compiles source and prints the outcome.
func checkOne(cmd *cobra.Command, styles *pretty.Styles, cfg *config.Config, label, source string) error {
	opts, err := readerOptions(cfg, logging.FromContext(commandContext(cmd)))
	if err != nil {
		return err
	}

	reader, err := readpat.New(source, opts...)
	if err != nil {
		var syntaxErr *pattern.SyntaxError
		fmt.Fprintln(cmd.OutOrStdout(), styles.InputPath.Render(label)+" "+styles.Failure.Render("invalid"))
		if errors.As(err, &syntaxErr) {
			fmt.Fprint(cmd.OutOrStdout(), styles.FormatSyntaxError(source, syntaxErr))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+styles.Message.Render(err.Error()))
		}
		return fmt.Errorf("compile %s: %w", label, err)
	}
	defer reader.Close()

	fmt.Fprintln(cmd.OutOrStdout(),
		styles.InputPath.Render(label)+" "+styles.Success.Render("ok")+"  "+styles.Dim.Render(reader.String()))
	return nil
}
