// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/extsort/pkg/scan"
)

// 🧪 writeTree creates files (relative slash paths) under root
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent dir")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing file")
	}
}

func rels(files []scan.FileRef) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestWalk(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		opts  func(root string) scan.Options
		want  []string
	}{
		{
			name: "flat_and_nested",
			files: map[string]string{
				"a.TXT":     "a",
				"b.txt":     "b",
				"c":         "c",
				"sub/d.txt": "d",
			},
			want: []string{"a.TXT", "b.txt", "c", "sub/d.txt"},
		},
		{
			name:  "empty_tree",
			files: map[string]string{},
			want:  []string{},
		},
		{
			name: "exclude_file_pattern",
			files: map[string]string{
				"keep.go":       "x",
				"drop.tmp":      "x",
				"deep/drop.tmp": "x",
			},
			opts: func(string) scan.Options {
				return scan.Options{Exclude: []string{"**/*.tmp"}}
			},
			want: []string{"keep.go"},
		},
		{
			name: "exclude_directory_pattern",
			files: map[string]string{
				"src/main.go":         "x",
				"node_modules/a.js":   "x",
				"node_modules/b/c.js": "x",
			},
			opts: func(string) scan.Options {
				return scan.Options{Exclude: []string{"node_modules"}}
			},
			want: []string{"src/main.go"},
		},
		{
			name: "skip_dirs",
			files: map[string]string{
				"in.txt":      "x",
				"out/txt/old": "x",
			},
			opts: func(root string) scan.Options {
				return scan.Options{SkipDirs: []string{filepath.Join(root, "out")}}
			},
			want: []string{"in.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)
			logger := zerolog.New(zerolog.NewTestWriter(t))

			opts := scan.Options{}
			if tt.opts != nil {
				opts = tt.opts(root)
			}

			files, err := scan.Walk(context.Background(), &logger, root, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rels(files), "enumerated files should match")
		})
	}
}

func TestWalkFileRefFields(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"sub/d.txt": "hello"})
	logger := zerolog.New(zerolog.NewTestWriter(t))

	files, err := scan.Walk(context.Background(), &logger, root, scan.Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, filepath.Join(root, "sub", "d.txt"), f.Path, "path should be rooted at source")
	assert.Equal(t, "sub/d.txt", f.Rel, "rel should be slash separated")
	assert.Equal(t, "d.txt", f.Name, "name should be the base name")
	assert.Equal(t, int64(5), f.Size, "size should match content")
}

func TestWalkSortsByPath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/b.txt": "x",
		"a.txt":   "x",
		"a-z.txt": "x",
	})
	logger := zerolog.New(zerolog.NewTestWriter(t))

	files, err := scan.Walk(context.Background(), &logger, root, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-z.txt", "a.txt", "a/b.txt"}, rels(files), "files should be sorted by full path")
}

func TestWalkFollowsSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmp := t.TempDir()
	target := filepath.Join(tmp, "real")
	writeTree(t, target, map[string]string{"a.txt": "a", "sub/b.md": "b"})
	link := filepath.Join(tmp, "link")
	require.NoError(t, os.Symlink(target, link))
	logger := zerolog.New(zerolog.NewTestWriter(t))

	files, err := scan.Walk(context.Background(), &logger, link, scan.Options{
		SkipDirs: []string{filepath.Join(link, "sub")},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, rels(files), "skip dirs should match through the link")
	assert.Equal(t, filepath.Join(link, "a.txt"), files[0].Path, "paths should stay rooted at the given source")

	files, err = scan.Walk(context.Background(), &logger, link, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.md"}, rels(files))
}

func TestWalkSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real.txt": "x", "dir/inner.txt": "y"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "linkdir")))
	logger := zerolog.New(zerolog.NewTestWriter(t))

	files, err := scan.Walk(context.Background(), &logger, root, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/inner.txt", "real.txt"}, rels(files), "symlinks should be skipped")
}

func TestWalkMissingRoot(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	files, err := scan.Walk(context.Background(), &logger, filepath.Join(t.TempDir(), "missing"), scan.Options{})
	require.Error(t, err)
	assert.Empty(t, files, "no files should be collected")
}

func TestWalkUnreadableSubdir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ok.txt": "x", "locked/hidden.txt": "y"})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })
	logger := zerolog.New(zerolog.NewTestWriter(t))

	files, err := scan.Walk(context.Background(), &logger, root, scan.Options{})
	require.NoError(t, err, "unreadable entries should not fail the walk")
	assert.Equal(t, []string{"ok.txt"}, rels(files))
}

func TestWalkCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x"})
	logger := zerolog.New(zerolog.NewTestWriter(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := scan.Walk(ctx, &logger, root, scan.Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, files)
}
