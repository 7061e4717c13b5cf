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

// Package scan enumerates the regular files of a source tree.
package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileRef is a regular file discovered under the source root
type FileRef struct {
	Path string // Path rooted at the source as given by the caller
	Rel  string // Slash-separated path relative to the source root
	Name string // Base name
	Size int64  // Size in bytes at enumeration time
}

// 🔧 Options controls which entries are enumerated
type Options struct {
	// Exclude holds doublestar patterns matched against Rel; a matching directory is pruned
	Exclude []string
	// SkipDirs are directories never descended into, compared as absolute paths
	SkipDirs []string
}

// 🔍 Walk lists every regular file under root.
//
// A symlinked root is followed; links below it are not. Unreadable entries are
// logged and skipped. If the walk itself fails the files collected so far are
// returned along with the error. Files are sorted by Rel.
func Walk(ctx context.Context, logger *zerolog.Logger, root string, opts Options) ([]FileRef, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		logger.Error().Err(err).Str("folder", root).Msg("reading folder")
		return nil, errors.Errorf("resolving source root: %w", err)
	}

	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		logger.Error().Err(err).Str("folder", root).Msg("reading folder")
		return nil, errors.Errorf("resolving source root: %w", err)
	}
	if walkRoot != root {
		logger.Debug().Str("folder", root).Str("resolved", walkRoot).Msg("following source root")
	}
	absWalkRoot, err := filepath.Abs(walkRoot)
	if err != nil {
		absWalkRoot = absRoot
	}

	skip := make(map[string]struct{}, len(opts.SkipDirs))
	for _, dir := range opts.SkipDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			skip[abs] = struct{}{}
		}
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			if abs, err := filepath.Abs(resolved); err == nil {
				skip[abs] = struct{}{}
			}
		}
	}

	files := make([]FileRef, 0)
	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == walkRoot {
				return err
			}
			logger.Error().Err(err).Str("path", path).Msg("reading entry, skipping")
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("computing relative path, skipping")
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == walkRoot {
				return nil
			}
			if skipped(skip, filepath.FromSlash(rel), absRoot, absWalkRoot) {
				logger.Debug().Str("path", path).Msg("skipping directory")
				return fs.SkipDir
			}
			if excluded(logger, opts.Exclude, rel) {
				return fs.SkipDir
			}
			return nil
		}

		// symlinks, sockets, devices and pipes are not copied
		if !d.Type().IsRegular() {
			logger.Debug().Str("path", path).Str("type", d.Type().String()).Msg("skipping non-regular entry")
			return nil
		}

		if excluded(logger, opts.Exclude, rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("reading file info, skipping")
			return nil
		}

		files = append(files, FileRef{
			Path: filepath.Join(root, filepath.FromSlash(rel)),
			Rel:  rel,
			Name: d.Name(),
			Size: info.Size(),
		})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })

	if walkErr != nil {
		logger.Error().Err(walkErr).Str("folder", root).Int("collected", len(files)).Msg("reading folder")
		return files, errors.Errorf("walking %s: %w", root, walkErr)
	}

	logger.Debug().Str("folder", root).Int("files", len(files)).Msg("enumerated files")
	return files, nil
}

// skipped checks rel under each root against the skip set
func skipped(skip map[string]struct{}, rel string, roots ...string) bool {
	for _, r := range roots {
		if _, ok := skip[filepath.Join(r, rel)]; ok {
			return true
		}
	}
	return false
}

// 🔍 excluded checks if rel matches any exclude pattern
func excluded(logger *zerolog.Logger, patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("path", rel).Str("pattern", pattern).Msg("excluded by pattern")
			return true
		}
	}
	return false
}
