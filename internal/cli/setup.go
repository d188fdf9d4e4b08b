package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/yaklabco/readpat/internal/configloader"
	"github.com/yaklabco/readpat/internal/logging"
	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/config"
	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/readpat"
)

// Usage errors.
var (
	ErrInvalidUsage = errors.New("invalid usage")
	ErrNoPattern    = fmt.Errorf("%w: one of --pattern, --name or --pattern-file is required", ErrInvalidUsage)
	ErrManyPatterns = fmt.Errorf("%w: --pattern, --name and --pattern-file are mutually exclusive", ErrInvalidUsage)
	ErrUnknownName  = fmt.Errorf("%w: no pattern with that name in the configuration", ErrInvalidUsage)
)

// patternFlags selects the pattern a command works on.
type patternFlags struct {
	source string
	name   string
	file   string
}

func addPatternFlags(cmd *cobra.Command, flags *patternFlags) {
	cmd.Flags().StringVarP(&flags.source, "pattern", "p", "", "pattern text")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "named pattern from the configuration")
	cmd.Flags().StringVarP(&flags.file, "pattern-file", "f", "", "read the pattern from a file")
}

// resolve returns the pattern text and a label for messages.
func (f *patternFlags) resolve(cfg *config.Config) (string, string, error) {
	set := 0
	for _, v := range []string{f.source, f.name, f.file} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return "", "", ErrNoPattern
	case set > 1:
		return "", "", ErrManyPatterns
	}

	switch {
	case f.name != "":
		source, ok := cfg.Patterns[f.name]
		if !ok {
			return "", "", fmt.Errorf("%w: %q", ErrUnknownName, f.name)
		}
		return source, f.name, nil
	case f.file != "":
		content, err := os.ReadFile(f.file)
		if err != nil {
			return "", "", fmt.Errorf("read pattern file: %w", err)
		}
		return strings.TrimRight(string(content), "\r\n"), f.file, nil
	default:
		return f.source, "pattern", nil
	}
}

// commandContext returns the command context, or Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration with cliCfg on top.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	return loadConfigWith(cmd, configloader.LoadOptions{CLIConfig: cliCfg})
}

// loadConfigWith resolves the configuration. WorkingDir and ExplicitPath
// are filled in from the process and the --config flag.
func loadConfigWith(cmd *cobra.Command, opts configloader.LoadOptions) (*config.Config, error) {
	logger := logging.FromContext(commandContext(cmd))

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	opts.WorkingDir = workDir
	opts.ExplicitPath = configPath

	loadResult, err := configloader.Load(commandContext(cmd), opts)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration",
			logging.FieldPaths, loadResult.LoadedFrom,
			logging.FieldWorkingDir, workDir)
	}

	logging.SetLevel(loadResult.Config.LogLevel)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetLevel("debug")
	}

	return loadResult.Config, nil
}

// readerOptions turns the configuration into facade options.
func readerOptions(cfg *config.Config, logger *log.Logger) ([]readpat.Option, error) {
	opts := []readpat.Option{readpat.WithLogger(logger)}

	if cfg.Comparison == config.ComparisonCulture {
		tag, err := language.Parse(cfg.Culture)
		if err != nil {
			return nil, fmt.Errorf("parse culture: %w", err)
		}
		opts = append(opts,
			readpat.WithComparison(boundary.CultureSensitive),
			readpat.WithCulture(tag),
		)
	}

	policy, err := interp.ParsePolicy(cfg.Errors)
	if err != nil {
		return nil, fmt.Errorf("parse error policy: %w", err)
	}
	opts = append(opts, readpat.WithPolicy(policy))

	logger.Debug("reader configured",
		logging.FieldComparison, cfg.Comparison,
		logging.FieldCulture, cfg.Culture,
	)

	return opts, nil
}
