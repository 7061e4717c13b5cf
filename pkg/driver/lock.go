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

package driver

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// 🔒 LockFileName is created in the destination root while a run is in progress
const LockFileName = ".extsort.lock"

// 🔒 destLock holds the advisory lock on a destination root
type destLock struct {
	path string
	fl   *flock.Flock
}

// acquireLock takes the destination lock without blocking
func acquireLock(destination string) (*destLock, error) {
	path := filepath.Join(destination, LockFileName)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring lock %s: %w", path, err)
	}
	if !ok {
		return nil, errors.WithDetails(ErrLocked, "lock", path)
	}

	return &destLock{path: path, fl: fl}, nil
}

// release unlocks and removes the lock file
func (l *destLock) release() error {
	if err := l.fl.Unlock(); err != nil {
		return errors.Errorf("releasing lock %s: %w", l.path, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing lock %s: %w", l.path, err)
	}
	return nil
}
