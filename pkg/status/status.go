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

package status

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// 📊 FileStatus represents the outcome of copying one file
type FileStatus int

const (
	StatusUnknown     FileStatus = iota
	StatusNew                    // File didn't exist in destination
	StatusOverwritten            // File existed and was replaced
	StatusFailed                 // File could not be copied
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusOverwritten:
		return "overwritten"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Result is the outcome of copying a single file
type Result struct {
	Source      string     // Source file path
	Rel         string     // Source path relative to the source root
	Key         string     // Extension key
	Destination string     // Final destination path
	Status      FileStatus // Outcome
	Bytes       int64      // Bytes written
	Err         error      // Cause of failure, nil on success
}

// OK reports whether the copy succeeded
func (r Result) OK() bool {
	return r.Err == nil && r.Status != StatusFailed && r.Status != StatusUnknown
}

// 📦 KeyStats aggregates results for one extension key
type KeyStats struct {
	Files  int
	Failed int
	Bytes  int64
}

// 📈 Summary aggregates every result of a run
type Summary struct {
	Total       int
	Succeeded   int
	Overwritten int
	Failed      int
	Bytes       int64
	Elapsed     time.Duration
	ByKey       map[string]KeyStats
	Results     []Result
}

// Keys returns the extension keys of the summary in sorted order
func (s Summary) Keys() []string {
	keys := make([]string, 0, len(s.ByKey))
	for k := range s.ByKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Failures returns the failed results sorted by source path
func (s Summary) Failures() []Result {
	failed := make([]Result, 0, s.Failed)
	for _, r := range s.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].Source < failed[j].Source })
	return failed
}

// 🔧 Tracker collects results from concurrent copies and reports progress
type Tracker struct {
	logger    *zerolog.Logger
	formatter FileFormatter

	mu        sync.Mutex
	results   []Result
	total     int
	processed int
	started   time.Time
}

// 🏭 NewTracker creates a new tracker
func NewTracker(logger *zerolog.Logger, formatter FileFormatter) *Tracker {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Tracker{
		logger:    logger,
		formatter: formatter,
	}
}

// StartOperation resets the tracker for a batch of total files
func (t *Tracker) StartOperation(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	t.results = make([]Result, 0, total)
	t.started = time.Now()
	t.logger.Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

// Track records a result and logs one line for it
func (t *Tracker) Track(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.results = append(t.results, r)
	t.processed++

	if r.OK() {
		t.logger.Info().
			Str("file", r.Source).
			Str("folder", r.Key).
			Str("status", r.Status.String()).
			Int64("bytes", r.Bytes).
			Msg(t.formatter.FormatFileOperation(r))
	} else {
		t.logger.Error().
			Err(r.Err).
			Str("file", r.Source).
			Msg(t.formatter.FormatFileOperation(r))
	}

	t.logger.Debug().
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.processed, t.total))
}

// FinishOperation builds the summary of everything tracked since StartOperation
func (t *Tracker) FinishOperation() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := Summary{
		Total:   len(t.results),
		ByKey:   make(map[string]KeyStats),
		Results: append([]Result(nil), t.results...),
	}
	if !t.started.IsZero() {
		summary.Elapsed = time.Since(t.started)
	}

	for _, r := range t.results {
		stats := summary.ByKey[r.Key]
		if r.OK() {
			summary.Succeeded++
			summary.Bytes += r.Bytes
			stats.Files++
			stats.Bytes += r.Bytes
			if r.Status == StatusOverwritten {
				summary.Overwritten++
			}
		} else {
			summary.Failed++
			stats.Failed++
		}
		if r.Key != "" {
			summary.ByKey[r.Key] = stats
		}
	}

	return summary
}
