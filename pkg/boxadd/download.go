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

package boxadd

import (
	"bytes"
	"os"

	"github.com/pkg/errors"

	"github.com/boxctl/boxadd/internal/fileutil"
	"github.com/boxctl/boxadd/pkg/checksum"
	"github.com/boxctl/boxadd/pkg/getter"
)

// checksumVerify verifies resp's body against the declared digest.
// Verification strictly precedes the call to BoxCollection.Add (§5).
func checksumVerify(resp *getter.Response, algorithm, declared string) error {
	if err := checksum.Verify(bytes.NewReader(resp.Body.Bytes()), algorithm, declared); err != nil {
		if errors.Is(err, checksum.ErrMismatch) {
			return newError(KindBoxChecksumMismatch, err, "checksum mismatch")
		}
		return newError(KindDownloaderError, err, "verifying checksum")
	}
	return nil
}

// stageArchive writes resp's body to a temp file under the env's tmp path
// and returns its path. The caller owns the returned path; boxcollection.Add
// is responsible for moving it into permanent storage.
func stageArchive(env *Env, resp *getter.Response) (string, error) {
	dest, err := os.CreateTemp(env.TmpPath, "box-archive-*")
	if err != nil {
		return "", newError(KindDownloaderError, err, "staging downloaded archive")
	}
	path := dest.Name()
	dest.Close()

	if err := fileutil.AtomicWriteFile(path, bytes.NewReader(resp.Body.Bytes()), 0644); err != nil {
		os.Remove(path)
		return "", newError(KindDownloaderError, err, "staging downloaded archive")
	}
	return path, nil
}
