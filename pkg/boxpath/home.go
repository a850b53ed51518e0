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

// Package boxpath describes the on-disk layout of a box home directory:
// where the local catalog index lives, where cached metadata documents are
// kept, and where in-flight downloads are staged.
package boxpath

import "path/filepath"

// Home is the root of a box home directory, analogous to $HELM_HOME.
type Home string

// Repository returns the path to the local catalog index file.
func (h Home) Repository() string {
	return filepath.Join(string(h), "boxes.yaml")
}

// Boxes returns the directory under which downloaded box archives and their
// realised metadata are stored, one subdirectory per box name.
func (h Home) Boxes() string {
	return filepath.Join(string(h), "boxes")
}

// Box returns the directory for a single named box.
func (h Home) Box(name string) string {
	return filepath.Join(h.Boxes(), filepath.FromSlash(name))
}

// Cache returns the directory used for cached metadata documents fetched by
// "box update".
func (h Home) Cache() string {
	return filepath.Join(string(h), "cache")
}

// TmpPath returns the directory used for lock files and in-flight download
// staging, matching the tmp_path environment key of the add pipeline.
func (h Home) TmpPath() string {
	return filepath.Join(string(h), "tmp")
}

// String satisfies fmt.Stringer.
func (h Home) String() string {
	return string(h)
}
