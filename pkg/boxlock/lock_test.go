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

package boxlock

import (
	"errors"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir, "http://example.com/foo.box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Path() == "" {
		t.Fatal("expected a non-empty lock path")
	}

	if err := l.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	// Releasing twice must be safe.
	if err := l.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}

func TestAcquireContention(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir, "http://example.com/foo.box")
	if err != nil {
		t.Fatalf("unexpected error acquiring first lock: %v", err)
	}
	defer first.Release()

	_, err = Acquire(dir, "http://example.com/foo.box")
	if err == nil {
		t.Fatal("expected second acquire to fail while first lock is held")
	}
	if !errors.Is(err, ErrInProgress) {
		t.Errorf("expected error to wrap ErrInProgress, got %v", err)
	}
}

func TestAcquireDifferentURLsDoNotCollide(t *testing.T) {
	dir := t.TempDir()

	a, err := Acquire(dir, "http://example.com/foo.box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Release()

	b, err := Acquire(dir, "http://example.com/bar.box")
	if err != nil {
		t.Fatalf("expected distinct URL to acquire its own lock, got: %v", err)
	}
	defer b.Release()

	if a.Path() == b.Path() {
		t.Fatal("expected distinct lock paths for distinct URLs")
	}
}

func TestPathIsDeterministic(t *testing.T) {
	p1 := Path("/tmp", "http://example.com/foo.box")
	p2 := Path("/tmp", "http://example.com/foo.box")
	if p1 != p2 {
		t.Fatalf("expected deterministic path, got %q and %q", p1, p2)
	}
	p3 := Path("/tmp", "http://example.com/bar.box")
	if p1 == p3 {
		t.Fatal("expected different URLs to hash to different paths")
	}
}

func TestReleaseOnNilLock(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("expected nil-safe release, got %v", err)
	}
}
