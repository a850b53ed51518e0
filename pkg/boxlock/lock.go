/*
Copyright The Helm Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package boxlock serialises concurrent fetches of the same logical URL
// across processes with a non-blocking, advisory file lock.
package boxlock

import (
	"crypto/sha1" //nolint:gosec // used only to derive a stable lock filename, not for security
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrInProgress is returned, wrapped, when the lock for a URL is already
// held by another party. Acquire never blocks waiting for it to clear.
var ErrInProgress = errors.New("download already in progress")

// Lock represents an exclusively held mutex-file lock for one canonical
// URL. The zero value is not usable; obtain one from Acquire.
type Lock struct {
	flock *flock.Flock
	path  string

	mu       sync.Mutex
	released bool
}

// Path derives the deterministic lock-file path for a canonical URL inside
// tmpDir: <tmpDir>/box<sha1(url)>.lock.
func Path(tmpDir, canonicalURL string) string {
	sum := sha1.Sum([]byte(canonicalURL)) //nolint:gosec
	return filepath.Join(tmpDir, fmt.Sprintf("box%s.lock", hex.EncodeToString(sum[:])))
}

// Acquire attempts a non-blocking exclusive lock on the file derived from
// canonicalURL under tmpDir. It never waits: if the lock is already held,
// it returns immediately with an error wrapping ErrInProgress.
func Acquire(tmpDir, canonicalURL string) (*Lock, error) {
	path := Path(tmpDir, canonicalURL)

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "acquiring lock %s", path)
	}
	if !locked {
		return nil, errors.Wrapf(ErrInProgress, "lock %s held by another process", path)
	}

	return &Lock{flock: fl, path: path}, nil
}

// Release unlocks the file lock. It is safe to call multiple times and
// from a deferred call on every exit path (success, error, panic).
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	l.released = true
	return l.flock.Unlock()
}

// Path returns the filesystem path backing the lock.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}
