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

// Package driver runs one sort: validate, enumerate, copy and summarize.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/classify"
	"github.com/walteh/extsort/pkg/config"
	"github.com/walteh/extsort/pkg/operation"
	"github.com/walteh/extsort/pkg/scan"
	"github.com/walteh/extsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceMissing is returned when the source folder does not exist
	ErrSourceMissing = errors.Base("source folder does not exist")
	// ErrSourceNotDir is returned when the source exists but is not a folder
	ErrSourceNotDir = errors.Base("source is not a folder")
	// ErrSameFolder is returned when source and destination resolve to the same folder
	ErrSameFolder = errors.Base("destination must differ from source")
	// ErrLocked is returned when another run holds the destination lock
	ErrLocked = errors.Base("destination is locked by another run")
	// ErrCopyFailed is returned when at least one file could not be copied
	ErrCopyFailed = errors.Base("some files could not be copied")
)

// 🎮 Driver runs sorts and logs their progress
type Driver struct {
	logger    *zerolog.Logger
	formatter status.FileFormatter
}

// 🏭 New creates a new driver logging to logger
func New(logger *zerolog.Logger) *Driver {
	return &Driver{
		logger:    logger,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🏃 Run sorts cfg.Source into cfg.Destination.
//
// Every failure is logged before it is returned; per-file failures are also collected
// in the summary and reported as ErrCopyFailed.
func (d *Driver) Run(ctx context.Context, cfg *config.Config) (status.Summary, error) {
	if err := cfg.Validate(); err != nil {
		d.logger.Error().Err(err).Msg("invalid configuration")
		return status.Summary{}, errors.Errorf("validating config: %w", err)
	}

	if err := d.checkPaths(cfg); err != nil {
		return status.Summary{}, err
	}

	if err := os.MkdirAll(cfg.Destination, 0755); err != nil {
		d.logger.Error().Err(err).Str("destination", cfg.Destination).Msg("creating destination folder")
		return status.Summary{}, errors.Errorf("creating destination folder: %w", err)
	}

	if !cfg.NoLock {
		lock, err := acquireLock(cfg.Destination)
		if err != nil {
			d.logger.Error().Err(err).Str("destination", cfg.Destination).Msg("locking destination folder")
			return status.Summary{}, err
		}
		defer func() {
			if err := lock.release(); err != nil {
				d.logger.Warn().Err(err).Msg("releasing destination lock")
			}
		}()
	}

	d.logger.Info().
		Str("source", cfg.Source).
		Str("destination", cfg.Destination).
		Int("workers", cfg.Workers).
		Msgf("starting to process files from %s", cfg.Source)

	// enumeration errors are already logged; sort whatever was collected
	refs, _ := scan.Walk(ctx, d.logger, cfg.Source, scan.Options{
		Exclude:  cfg.Exclude,
		SkipDirs: []string{cfg.Destination},
	})

	if len(refs) == 0 {
		d.logger.Warn().Str("source", cfg.Source).Msgf("no files found in %s", cfg.Source)
		d.logger.Info().Msg("file processing completed")
		return status.Summary{ByKey: map[string]status.KeyStats{}}, nil
	}

	copier, err := operation.NewCopier(operation.Options{
		Destination: cfg.Destination,
		Classifier:  classify.New(cfg.Sentinel),
		Logger:      d.logger,
	})
	if err != nil {
		d.logger.Error().Err(err).Msg("creating copier")
		return status.Summary{}, errors.Errorf("creating copier: %w", err)
	}

	pool := operation.NewPool(copier, status.NewTracker(d.logger, d.formatter), cfg.Workers)
	summary := pool.Run(ctx, refs)

	d.logger.Info().
		Int("files", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("overwritten", summary.Overwritten).
		Int("failed", summary.Failed).
		Int("folders", len(summary.ByKey)).
		Str("size", humanize.Bytes(uint64(summary.Bytes))).
		Dur("elapsed", summary.Elapsed).
		Msgf("processed %d files", summary.Total)
	d.logger.Info().Msg("file processing completed")

	if summary.Failed > 0 {
		return summary, errors.WithDetails(ErrCopyFailed, "failed", summary.Failed, "total", summary.Total)
	}
	return summary, nil
}

// 🔍 checkPaths validates the source folder before anything is written
func (d *Driver) checkPaths(cfg *config.Config) error {
	info, err := os.Stat(cfg.Source)
	if err != nil {
		if os.IsNotExist(err) {
			d.logger.Error().Str("source", cfg.Source).Msgf("source folder %s does not exist", cfg.Source)
			return errors.WithDetails(ErrSourceMissing, "source", cfg.Source)
		}
		d.logger.Error().Err(err).Str("source", cfg.Source).Msg("reading source folder")
		return errors.Errorf("reading source folder: %w", err)
	}
	if !info.IsDir() {
		d.logger.Error().Str("source", cfg.Source).Msgf("source %s is not a folder", cfg.Source)
		return errors.WithDetails(ErrSourceNotDir, "source", cfg.Source)
	}

	absSource, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving source: %w", err)
	}
	absDestination, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return errors.Errorf("resolving destination: %w", err)
	}
	if absSource == absDestination {
		d.logger.Error().Str("source", cfg.Source).Str("destination", cfg.Destination).Msg(ErrSameFolder.Error())
		return errors.WithDetails(ErrSameFolder, "source", cfg.Source)
	}

	return nil
}

// 📝 Describe returns a one line description of a finished run
func Describe(s status.Summary) string {
	return fmt.Sprintf("%d copied, %d failed, %s", s.Succeeded, s.Failed, humanize.Bytes(uint64(s.Bytes)))
}
