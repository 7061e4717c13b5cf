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

package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/extsort/pkg/classify"
	"gitlab.com/tozd/go/errors"
)

// 🔢 WorkersPerCPU sizes the default worker pool
const WorkersPerCPU = 4

// 📚 Config represents the complete configuration of a sort run
type Config struct {
	Source      string   // Directory tree to scan
	Destination string   // Directory receiving one folder per extension
	Workers     int      // Maximum concurrent copies
	Sentinel    string   // Folder name for files without an extension
	Exclude     []string // Doublestar patterns relative to Source
	FailOnError bool     // Report a failed run to the caller
	NoLock      bool     // Skip the destination lock
}

// 🏭 DefaultWorkers returns the worker count used when none is configured
func DefaultWorkers() int {
	return WorkersPerCPU * runtime.NumCPU()
}

// 🔍 Validate checks if the configuration is valid and applies defaults
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Source) == "" {
		return errors.Errorf("source is required")
	}
	if strings.TrimSpace(cfg.Destination) == "" {
		return errors.Errorf("destination is required")
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if strings.ContainsAny(cfg.Sentinel, `/\`) || cfg.Sentinel == "." || cfg.Sentinel == ".." {
		return errors.Errorf("sentinel %q is not a valid folder name", cfg.Sentinel)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	// Clean up paths
	cfg.Source = filepath.Clean(cfg.Source)
	cfg.Destination = filepath.Clean(cfg.Destination)

	// Set defaults
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers()
	}
	if cfg.Sentinel == "" {
		cfg.Sentinel = classify.NoExtension
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (workers=%d)", cfg.Source, cfg.Destination, cfg.Workers)
}
