// Package runner applies one compiled pattern to many inputs.
package runner

import (
	"context"
	"io"
)

// StdinPath names standard input in Options.Paths.
const StdinPath = "-"

// Extractor reads values from one input. *readpat.Reader satisfies it.
type Extractor interface {
	Read(ctx context.Context, src io.Reader) ([]string, error)
}

// Options controls which inputs a run reads and how.
type Options struct {
	// Paths are files or directories to read. StdinPath reads Stdin.
	// If empty, defaults to StdinPath.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions limits directory walks to these extensions (lowercase,
	// with leading dot). Empty accepts every file. Files named directly in
	// Paths are always read.
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Stdin is read for StdinPath.
	Stdin io.Reader
}

// effectivePaths returns the paths to process, defaulting to stdin.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{StdinPath}
	}
	return o.Paths
}
