package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/readpat/pkg/runner"
)

// makeTree creates files (with parent directories) under root.
func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		r, err := filepath.Rel(root, path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		paths      []string
		extensions []string
		exclude    []string
		want       []string
	}{
		{
			name:  "directory walk is lexical",
			paths: []string{"."},
			want:  []string{"a.txt", "b.log", "logs/x.log", "logs/y.txt", "vendor/dep.txt"},
		},
		{
			name:       "extensions filter walks",
			paths:      []string{"."},
			extensions: []string{".log"},
			want:       []string{"b.log", "logs/x.log"},
		},
		{
			name:       "named files bypass extensions",
			paths:      []string{"a.txt"},
			extensions: []string{".log"},
			want:       []string{"a.txt"},
		},
		{
			name:    "exclude directory",
			paths:   []string{"."},
			exclude: []string{"vendor/**"},
			want:    []string{"a.txt", "b.log", "logs/x.log", "logs/y.txt"},
		},
		{
			name:    "exclude base name",
			paths:   []string{"."},
			exclude: []string{"*.txt"},
			want:    []string{"b.log", "logs/x.log"},
		},
		{
			name:    "exclude at any depth",
			paths:   []string{"."},
			exclude: []string{"**/x.log"},
			want:    []string{"a.txt", "b.log", "logs/y.txt", "vendor/dep.txt"},
		},
		{
			name:  "argument order and dedup",
			paths: []string{"logs", "a.txt", "logs/x.log"},
			want:  []string{"logs/x.log", "logs/y.txt", "a.txt"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			makeTree(t, root, "a.txt", "b.log", "logs/x.log", "logs/y.txt", "vendor/dep.txt", ".hidden/z.txt", ".env")

			got, err := runner.Discover(context.Background(), runner.Options{
				Paths:        testCase.paths,
				WorkingDir:   root,
				Extensions:   testCase.extensions,
				ExcludeGlobs: testCase.exclude,
			})
			require.NoError(t, err)
			assert.Equal(t, testCase.want, rel(t, root, got))
		})
	}
}

func TestDiscover_Stdin(t *testing.T) {
	t.Parallel()

	got, err := runner.Discover(context.Background(), runner.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{runner.StdinPath}, got, "no paths means stdin")
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing.txt"},
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{Paths: []string{"."}, WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := t.TempDir()
	makeTree(t, root, "a.txt")
	makeTree(t, target, "linked.txt")
	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := runner.Discover(context.Background(), runner.Options{Paths: []string{"."}, WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, rel(t, root, got))

	got, err = runner.Discover(context.Background(), runner.Options{
		Paths:          []string{"."},
		WorkingDir:     root,
		FollowSymlinks: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "linked.txt", filepath.Base(got[1]))
}
