package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/readpat/internal/logging"
	"github.com/yaklabco/readpat/pkg/config"
	"github.com/yaklabco/readpat/pkg/fsutil"
)

// ErrConfigExists is returned when init would overwrite a file without --force.
var ErrConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a readpat configuration file",
		Long: `Create a commented .readpat.yml in the current directory with the
default settings and an example named pattern.

Examples:
  readpat init                        Create .readpat.yml
  readpat init --format toml          Create .readpat.toml instead
  readpat init -o conf/readpat.yml    Write to a custom path
  readpat init --force                Replace an existing file (kept as .bak)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .readpat.yml or .readpat.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	if flags.format != "yaml" && flags.format != "toml" {
		return fmt.Errorf("%w: invalid format %q, must be yaml or toml", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".readpat." + map[string]string{"yaml": "yml", "toml": "toml"}[flags.format]
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	ctx := commandContext(cmd)

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, outputPath)
		}
		backupPath, err := fsutil.Backup(ctx, absPath)
		if err != nil {
			return fmt.Errorf("back up %s: %w", outputPath, err)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath, "backup", backupPath)
	}

	written, err := fsutil.WriteIfChanged(ctx, absPath, content, fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	if !written {
		logger.Info("configuration file is already up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("check it with 'readpat check --all'")

	return nil
}
