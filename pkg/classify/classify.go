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

// Package classify maps file names to the destination folder they are sorted into.
package classify

import (
	"path/filepath"
	"strings"
)

// 🏷️ NoExtension is the folder used for files without a suffix
const NoExtension = "no_extension"

// 🗂️ Classifier derives extension keys from file names
type Classifier struct {
	// Sentinel replaces NoExtension when set
	Sentinel string
}

// 🏭 New creates a classifier with the given sentinel, falling back to NoExtension
func New(sentinel string) Classifier {
	if sentinel == "" {
		sentinel = NoExtension
	}
	return Classifier{Sentinel: sentinel}
}

// 🔍 Key returns the extension key for path
func (c Classifier) Key(path string) string {
	if ext := Suffix(filepath.Base(path)); ext != "" {
		return ext
	}
	if c.Sentinel == "" {
		return NoExtension
	}
	return c.Sentinel
}

// 🔍 ExtensionKey classifies path with the default sentinel
func ExtensionKey(path string) string {
	return Classifier{}.Key(path)
}

// Suffix returns the lowercased final suffix of name without its dot.
//
// A leading dot does not start a suffix (".bashrc" has none) and neither does a
// trailing one ("archive." has none).
func Suffix(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
