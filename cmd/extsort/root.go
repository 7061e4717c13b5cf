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

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/extsort/pkg/config"
	"github.com/walteh/extsort/pkg/driver"
	"github.com/walteh/extsort/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootOpts contains the flags of the root command
type rootOpts struct {
	cfg      config.Config
	debug    bool
	jsonLogs bool
	quiet    bool
}

// newRootCmd creates the root command; console output goes to stdout, log lines to stderr
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "extsort SOURCE DESTINATION",
		Short: "Sort files into folders by extension",
		Long: `extsort copies every regular file under SOURCE into DESTINATION/<ext>/<name>,
where <ext> is the lowercased file extension. Files without an extension go to
DESTINATION/no_extension. Copies run concurrently and existing files are overwritten.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg.Source = args[0]
			opts.cfg.Destination = args[1]
			return runSort(cmd, opts, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.IntVarP(&opts.cfg.Workers, "workers", "w", 0, fmt.Sprintf("maximum concurrent copies (default %d)", config.DefaultWorkers()))
	flags.StringVar(&opts.cfg.Sentinel, "sentinel", "", "folder for files without an extension (default \"no_extension\")")
	flags.StringArrayVarP(&opts.cfg.Exclude, "exclude", "x", nil, "glob of source paths to skip, relative to SOURCE (repeatable)")
	flags.BoolVar(&opts.cfg.FailOnError, "fail-on-error", false, "exit non-zero when the source is missing or any copy fails")
	flags.BoolVar(&opts.cfg.NoLock, "no-lock", false, "do not lock the destination folder")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	flags.BoolVar(&opts.jsonLogs, "json", false, "always write log lines as JSON")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only write log lines, no console summary")

	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// runSort executes one sort and maps its outcome to the command result
func runSort(cmd *cobra.Command, opts *rootOpts, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.debug, opts.jsonLogs)
	console := log.New(stdout)

	if !opts.quiet {
		console.Header(fmt.Sprintf("sorting %s into %s", opts.cfg.Source, opts.cfg.Destination))
	}

	summary, err := driver.New(&logger).Run(cmd.Context(), &opts.cfg)

	if !opts.quiet {
		switch {
		case summary.Total > 0:
			if sumErr := console.Summary(summary); sumErr != nil {
				logger.Warn().Err(sumErr).Msg("printing summary")
			}
		case err != nil:
			console.Errorf("%s: %v", opts.cfg.Source, err)
		default:
			console.Warningf("no files found in %s", opts.cfg.Source)
		}
	}

	// failures are logged by the driver; they only change the exit code on request
	if err != nil && opts.cfg.FailOnError {
		return errors.Errorf("%s: %w", driver.Describe(summary), err)
	}
	return nil
}

// newLogger writes console formatted lines to terminals and JSON everywhere else
func newLogger(w io.Writer, debug, forceJSON bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := w
	if !forceJSON && isTerminal(w) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("run_id", uuid.NewString()).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
