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

// Package boxcollection defines the downstream catalog contract that the
// add pipeline hands verified artifacts to, plus a minimal local-directory
// reference implementation.
package boxcollection

// Box is a single catalog entry: one (name, version, provider,
// architecture) combination with its on-disk path.
type Box struct {
	Name         string
	Version      string
	Provider     string
	Architecture string
	Path         string
	MetadataURL  string
}

// AddOptions carries the optional fields BoxCollection.Add accepts beyond
// the required (path, name, version) triple.
type AddOptions struct {
	Architecture string
	MetadataURL  string
	Force        bool
	Providers    []string
}

// Collection is the downstream catalog contract: find an existing box, or
// add a newly verified one. The add pipeline treats this as an external
// collaborator it never inspects beyond this interface.
type Collection interface {
	// Find returns the matching box, or nil if no box in the collection
	// satisfies name/providers/version/architecture.
	Find(name string, providers []string, version, architecture string) (*Box, error)
	// Add registers path as the archive for (name, version), applying
	// opts, and returns the catalog's resulting record.
	Add(path, name, version string, opts AddOptions) (*Box, error)
}

// Lister is implemented by collections that can enumerate their contents.
// It is a separate interface from Collection because the add pipeline
// itself never needs to list; only maintenance commands like "box update" do.
type Lister interface {
	List() ([]Box, error)
}
