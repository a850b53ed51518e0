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

package boxcollection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boxctl/boxadd/pkg/boxpath"
)

func newTestLocal(t *testing.T) (*Local, string) {
	t.Helper()
	home := boxpath.Home(t.TempDir())
	if err := boxpath.EnsureDirectories(home); err != nil {
		t.Fatal(err)
	}
	archive := filepath.Join(t.TempDir(), "precise64.box")
	if err := os.WriteFile(archive, []byte("archive-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return NewLocal(home), archive
}

func TestLocalAddThenFind(t *testing.T) {
	col, archive := newTestLocal(t)

	box, err := col.Add(archive, "acme/precise64", "1.0.0", AddOptions{
		Architecture: "amd64",
		Providers:    []string{"virtualbox"},
		MetadataURL:  "https://example.com/md.json",
	})
	if err != nil {
		t.Fatal(err)
	}
	if box.Provider != "virtualbox" || box.Version != "1.0.0" {
		t.Errorf("unexpected box: %+v", box)
	}
	if _, err := os.Stat(box.Path); err != nil {
		t.Errorf("expected archive to be stored at %s: %v", box.Path, err)
	}

	found, err := col.Find("acme/precise64", []string{"virtualbox"}, "1.0.0", "amd64")
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("expected to find the added box")
	}
	if found.MetadataURL != "https://example.com/md.json" {
		t.Errorf("unexpected metadata url: %s", found.MetadataURL)
	}
}

func TestLocalFindMissingReturnsNilNotError(t *testing.T) {
	col, _ := newTestLocal(t)
	found, err := col.Find("nobody/nothing", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Errorf("expected nil, got %+v", found)
	}
}

func TestLocalAddOverwritesSameTuple(t *testing.T) {
	col, archive := newTestLocal(t)

	if _, err := col.Add(archive, "acme/precise64", "1.0.0", AddOptions{Providers: []string{"virtualbox"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := col.Add(archive, "acme/precise64", "1.0.0", AddOptions{Providers: []string{"virtualbox"}, Force: true}); err != nil {
		t.Fatal(err)
	}

	idx, err := col.load()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, b := range idx.Boxes {
		if b.Name == "acme/precise64" && b.Version == "1.0.0" && b.Provider == "virtualbox" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one index entry after re-adding, got %d", count)
	}
}

func TestLocalListReturnsAllEntries(t *testing.T) {
	col, archive := newTestLocal(t)

	if _, err := col.Add(archive, "acme/precise64", "1.0.0", AddOptions{Providers: []string{"virtualbox"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := col.Add(archive, "acme/trusty64", "2.0.0", AddOptions{Providers: []string{"vmware"}}); err != nil {
		t.Fatal(err)
	}

	boxes, err := col.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(boxes))
	}
}

func TestLocalListEmpty(t *testing.T) {
	col, _ := newTestLocal(t)

	boxes, err := col.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 0 {
		t.Errorf("expected no boxes, got %d", len(boxes))
	}
}

func TestLocalPersistsAcrossInstances(t *testing.T) {
	home := boxpath.Home(t.TempDir())
	if err := boxpath.EnsureDirectories(home); err != nil {
		t.Fatal(err)
	}
	archive := filepath.Join(t.TempDir(), "precise64.box")
	if err := os.WriteFile(archive, []byte("bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	first := NewLocal(home)
	if _, err := first.Add(archive, "acme/precise64", "1.0.0", AddOptions{Providers: []string{"virtualbox"}}); err != nil {
		t.Fatal(err)
	}

	second := NewLocal(home)
	found, err := second.Find("acme/precise64", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("expected the second instance to see the first's write")
	}
}
