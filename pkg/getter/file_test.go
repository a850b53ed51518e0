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

package getter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileGetter(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "foo.box")
	if err := os.WriteFile(p, []byte("archive-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := NewFileGetter(Options{})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := g.Get(context.Background(), "file://"+p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body.String() != "archive-bytes" {
		t.Errorf("unexpected body: %s", resp.Body.String())
	}
}

func TestFileGetterMissing(t *testing.T) {
	g, err := NewFileGetter(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Get(context.Background(), "file:///bogus/missing.box", Options{}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
