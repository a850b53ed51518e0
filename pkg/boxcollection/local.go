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
	"bytes"
	"os"
	"path/filepath"
	"sync"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/boxctl/boxadd/internal/fileutil"
	"github.com/boxctl/boxadd/pkg/boxpath"
)

// index is the on-disk shape of the local catalog's boxes.yaml, the same
// role helm's repositories.yaml plays for chart repositories.
type index struct {
	APIVersion string `json:"apiVersion"`
	Boxes      []Box  `json:"boxes"`
}

const apiVersion = "v1"

// Local is a minimal local-directory Collection: one boxes.yaml index plus
// one archive file per (name, version, provider) under the home's boxes
// directory. Catalog storage layout beyond this is out of scope.
type Local struct {
	home boxpath.Home
	mu   sync.Mutex
}

// NewLocal returns a Collection backed by home. The caller is responsible
// for having created home's directories (boxpath.EnsureDirectories).
func NewLocal(home boxpath.Home) *Local {
	return &Local{home: home}
}

func (l *Local) load() (*index, error) {
	idx := &index{APIVersion: apiVersion}
	data, err := os.ReadFile(l.home.Repository())
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading local box index")
	}
	if err := yaml.Unmarshal(data, idx); err != nil {
		return nil, errors.Wrap(err, "parsing local box index")
	}
	return idx, nil
}

func (l *Local) save(idx *index) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return errors.Wrap(err, "marshaling local box index")
	}
	return fileutil.AtomicWriteFile(l.home.Repository(), bytes.NewReader(data), 0644)
}

// Find implements Collection.
func (l *Local) Find(name string, providers []string, version, architecture string) (*Box, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.load()
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{}
	for _, p := range providers {
		allowed[p] = true
	}

	for i := range idx.Boxes {
		b := idx.Boxes[i]
		if b.Name != name {
			continue
		}
		if version != "" && b.Version != version {
			continue
		}
		if architecture != "" && b.Architecture != architecture {
			continue
		}
		if len(allowed) > 0 && !allowed[b.Provider] {
			continue
		}
		return &b, nil
	}
	return nil, nil
}

// List returns every box recorded in the local index, in no particular
// order. It backs "box update", which needs to re-check each box that
// carries a metadata url.
func (l *Local) List() ([]Box, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.load()
	if err != nil {
		return nil, err
	}
	return idx.Boxes, nil
}

// Add implements Collection. It copies the archive at path into the home's
// box directory and records the entry in the index, overwriting any
// existing entry for the same (name, version, provider, architecture)
// tuple when opts.Force is set.
func (l *Local) Add(path, name, version string, opts AddOptions) (*Box, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	provider := ""
	if len(opts.Providers) > 0 {
		provider = opts.Providers[0]
	}

	// name, version, and provider ultimately trace back to an untrusted
	// metadata document (pkg/boxadd validates them for path-hostile
	// characters before calling Add, but SecureJoin confines the result to
	// the boxes root regardless, the same belt-and-suspenders the teacher
	// applies when extracting chart archives).
	rel := filepath.Join(filepath.FromSlash(name), version, provider, filepath.Base(path))
	dest, err := securejoin.SecureJoin(l.home.Boxes(), rel)
	if err != nil {
		return nil, errors.Wrap(err, "resolving box destination path")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, errors.Wrap(err, "creating box directory")
	}
	src, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening downloaded archive")
	}
	defer src.Close()
	if err := fileutil.AtomicWriteFile(dest, src, 0644); err != nil {
		return nil, errors.Wrap(err, "storing box archive")
	}

	box := Box{
		Name:         name,
		Version:      version,
		Provider:     provider,
		Architecture: opts.Architecture,
		Path:         dest,
		MetadataURL:  opts.MetadataURL,
	}

	idx, err := l.load()
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range idx.Boxes {
		b := idx.Boxes[i]
		if b.Name == box.Name && b.Version == box.Version && b.Provider == box.Provider && b.Architecture == box.Architecture {
			idx.Boxes[i] = box
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Boxes = append(idx.Boxes, box)
	}
	if err := l.save(idx); err != nil {
		return nil, err
	}
	return &box, nil
}
