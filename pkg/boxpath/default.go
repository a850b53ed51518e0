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

package boxpath

import (
	"os"
	"path/filepath"
)

// envHome is the environment variable consulted by DefaultHome.
const envHome = "BOX_HOME"

// DefaultHome returns the BOX_HOME environment variable if set, otherwise
// "<user home>/.box".
func DefaultHome() Home {
	if h := os.Getenv(envHome); h != "" {
		return Home(h)
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return Home(".box")
	}
	return Home(filepath.Join(dir, ".box"))
}

// EnsureDirectories creates the directories a Home needs to operate,
// matching the permission scheme helmpath uses for its own home layout.
func EnsureDirectories(h Home) error {
	for _, dir := range []string{string(h), h.Boxes(), h.Cache(), h.TmpPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
