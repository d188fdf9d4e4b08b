// Package main is the entry point for the readpat CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/readpat/internal/cli"
	"github.com/yaklabco/readpat/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.ExecuteContext(ctx)
	// Failed inputs have already been reported.
	if err != nil && !errors.Is(err, cli.ErrInputsFailed) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCodeForError(err)
}
