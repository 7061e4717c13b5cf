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

package operation

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/classify"
	"github.com/walteh/extsort/pkg/scan"
	"github.com/walteh/extsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the copier
type Options struct {
	// Destination is the root receiving one folder per extension key
	Destination string
	// Classifier maps file names to extension keys
	Classifier classify.Classifier
	// Logger receives debug output; per-file lines are logged by the tracker
	Logger *zerolog.Logger
}

// 🔐 preservedMode are the mode bits carried over to the copy
const preservedMode = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// 📄 tempPattern names in-progress copies, independent of the file name so it fits NAME_MAX
const tempPattern = ".extsort-*.tmp"

// 📦 Copier copies files into their extension folder
type Copier struct {
	destination string
	classifier  classify.Classifier
	logger      *zerolog.Logger

	// folders already created during this run
	folders sync.Map
}

// 🏭 NewCopier creates a new copier with the given options
func NewCopier(opts Options) (*Copier, error) {
	if opts.Destination == "" {
		return nil, errors.Errorf("destination is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	return &Copier{
		destination: opts.Destination,
		classifier:  opts.Classifier,
		logger:      opts.Logger,
	}, nil
}

// 🏃 Copy copies ref to {destination}/{key}/{name}, replacing any existing file.
//
// Copy never returns an error; failures are reported through the result.
func (c *Copier) Copy(ctx context.Context, ref scan.FileRef) status.Result {
	key := c.classifier.Key(ref.Name)
	folder := filepath.Join(c.destination, key)
	dst := filepath.Join(folder, ref.Name)

	res := status.Result{
		Source:      ref.Path,
		Rel:         ref.Rel,
		Key:         key,
		Destination: dst,
	}

	if err := ctx.Err(); err != nil {
		return failed(res, errors.Errorf("copy not started: %w", err))
	}

	if err := c.ensureFolder(folder); err != nil {
		return failed(res, err)
	}

	existed := false
	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			return failed(res, errors.Errorf("destination %s is a directory", dst))
		}
		existed = true
	}

	n, err := copyFile(ref.Path, dst)
	if err != nil {
		return failed(res, err)
	}

	res.Bytes = n
	res.Status = status.StatusNew
	if existed {
		res.Status = status.StatusOverwritten
	}

	if n != ref.Size {
		c.logger.Warn().
			Str("file", ref.Path).
			Int64("enumerated_bytes", ref.Size).
			Int64("copied_bytes", n).
			Msg("source changed size since enumeration")
	}

	c.logger.Debug().Str("src", ref.Path).Str("dst", dst).Int64("bytes", n).Msg("file copied")
	return res
}

// 📁 ensureFolder creates folder once per run; MkdirAll tolerates concurrent creation
func (c *Copier) ensureFolder(folder string) error {
	if _, ok := c.folders.Load(folder); ok {
		return nil
	}
	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Errorf("creating extension folder: %w", err)
	}
	c.folders.Store(folder, struct{}{})
	return nil
}

func failed(res status.Result, err error) status.Result {
	res.Status = status.StatusFailed
	res.Err = err
	return res
}

// 📄 copyFile copies content, permissions and timestamps of src to dst.
//
// The bytes are written to a temp file next to dst and renamed over it, so a
// reader never observes a partially written destination.
func copyFile(src, dst string) (int64, error) {
	source, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return 0, errors.Errorf("reading source info: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Errorf("source %s is not a regular file", src)
	}
	atime := accessTime(src, info)

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return 0, errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, source)
	if err != nil {
		return 0, errors.Errorf("copying file content: %w", err)
	}

	if err := tmp.Chmod(info.Mode() & preservedMode); err != nil {
		return 0, errors.Errorf("setting permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chtimes(tmpPath, atime, info.ModTime()); err != nil {
		return 0, errors.Errorf("setting timestamps: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, errors.Errorf("renaming temp file: %w", err)
	}
	committed = true

	return n, nil
}
