package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover expands opts.Paths into the inputs a run reads. Inputs keep the
// order of Paths; each directory contributes its files in lexical order.
// Duplicates are dropped. StdinPath is passed through unchanged.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[string]struct{})
	var inputs []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		inputs = append(inputs, path)
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		if inputPath == StdinPath {
			add(StdinPath)
			continue
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			add(absPath)
			continue
		}

		walked, err := walkDirectory(ctx, absPath, workDir, opts)
		if err != nil {
			return nil, err
		}
		for _, path := range walked {
			add(path)
		}
	}

	return inputs, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkDirectory returns the files under root that pass the filters.
func walkDirectory(ctx context.Context, root, workDir string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := relativeTo(workDir, path)
		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || matchesAnyGlob(relPath, opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := resolveSymlink(path)
			if !ok {
				return nil
			}
			if target.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				realPath, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Target vanished after resolveSymlink.
				}
				// Walk the target, not the link, so WalkDir does not stop at
				// the link itself.
				sub, err := walkDirectory(ctx, realPath, workDir, opts)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if acceptFile(path, relPath, opts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// resolveSymlink stats the target of a symlink. Broken links report false.
func resolveSymlink(path string) (fs.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}

// acceptFile applies the extension and exclude filters to a walked file.
func acceptFile(path, relPath string, opts Options) bool {
	if len(opts.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !slices.Contains(opts.Extensions, ext) {
			return false
		}
	}
	return !matchesAnyGlob(relPath, opts.ExcludeGlobs)
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

// matchesAnyGlob reports whether relPath matches one of globs.
func matchesAnyGlob(relPath string, globs []string) bool {
	for _, glob := range globs {
		if matchGlob(relPath, glob) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against a glob. Besides
// filepath.Match syntax it understands a leading "**/" (any depth) and a
// trailing "/**" (everything below). A glob without a slash also matches
// the base name.
func matchGlob(path, glob string) bool {
	path = filepath.ToSlash(path)
	glob = filepath.ToSlash(glob)

	switch {
	case glob == "**":
		return true
	case strings.HasSuffix(glob, "/**"):
		prefix := strings.TrimSuffix(glob, "/**")
		if strings.HasPrefix(prefix, "**/") {
			return containsComponent(path, strings.TrimPrefix(prefix, "**/"))
		}
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	case strings.HasPrefix(glob, "**/"):
		return containsComponent(path, strings.TrimPrefix(glob, "**/"))
	}

	if matched, err := filepath.Match(glob, path); err == nil && matched {
		return true
	}
	if !strings.Contains(glob, "/") {
		matched, err := filepath.Match(glob, filepath.Base(path))
		return err == nil && matched
	}
	return false
}

// containsComponent reports whether a run of whole path components
// matches glob.
func containsComponent(path, glob string) bool {
	parts := strings.Split(path, "/")
	for start := range parts {
		for end := start + 1; end <= len(parts); end++ {
			matched, err := filepath.Match(glob, strings.Join(parts[start:end], "/"))
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
