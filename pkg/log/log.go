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

// Package log renders user-facing console output for a sort run.
package log

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/walteh/extsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Console prints human readable progress and summaries
type Console struct {
	out       io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new console writing to out
func New(out io.Writer) *Console {
	return &Console{
		out:       out,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 📝 Header logs a header
func (c *Console) Header(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("extsort")
	fmt.Fprintf(c.out, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
}

// 📝 Success logs a success message
func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
}

// 📝 Warning logs a warning message
func (c *Console) Warning(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
}

// 📝 Error logs an error message
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
}

// 📝 Successf logs a formatted success message
func (c *Console) Successf(format string, args ...interface{}) {
	c.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (c *Console) Warningf(format string, args ...interface{}) {
	c.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (c *Console) Errorf(format string, args ...interface{}) {
	c.Error(fmt.Sprintf(format, args...))
}

// 📊 Summary prints the totals of a run followed by a per-folder table
func (c *Console) Summary(s status.Summary) error {
	if s.Total == 0 {
		return nil
	}

	table, err := SummaryTable(s)
	if err != nil {
		return err
	}

	c.mu.Lock()
	fmt.Fprintln(c.out, table)
	c.mu.Unlock()

	for _, r := range s.Failures() {
		c.Errorf("%s: %s", r.Source, c.formatter.FormatError(r.Err))
	}

	if s.Failed > 0 {
		c.Warningf("copied %d of %d files (%s), %d failed", s.Succeeded, s.Total, humanize.Bytes(uint64(s.Bytes)), s.Failed)
		return nil
	}
	c.Successf("copied %d files (%s) in %s", s.Succeeded, humanize.Bytes(uint64(s.Bytes)), s.Elapsed.Round(time.Millisecond))
	return nil
}

// 📋 SummaryTable renders the per-folder counts of s
func SummaryTable(s status.Summary) (string, error) {
	data := pterm.TableData{{"Folder", "Files", "Failed", "Size"}}
	for _, key := range s.Keys() {
		stats := s.ByKey[key]
		data = append(data, []string{
			key,
			strconv.Itoa(stats.Files),
			strconv.Itoa(stats.Failed),
			humanize.Bytes(uint64(stats.Bytes)),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering summary table: %w", err)
	}
	return out, nil
}
