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

// Package checksum verifies downloaded box archives against a declared
// digest. Comparison is case-insensitive and a trimmed-empty digest
// disables verification entirely.
package checksum

import (
	"crypto/md5"  //nolint:gosec // supported for compatibility with declared checksum_type values, not for security
	"crypto/sha1" //nolint:gosec // same as above
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// ErrMismatch is wrapped by the error Verify returns when the computed
// digest disagrees with the declared one.
var ErrMismatch = errors.New("checksum mismatch")

// newHash returns a hash.Hash for the given algorithm identifier, matched
// case-insensitively. The set here is a documented lower bound (§4.6 of the
// box-add pipeline spec); blake2b is offered as an extra, ecosystem-backed
// option beyond that bound.
func newHash(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "md5":
		return md5.New(), nil //nolint:gosec
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	case "sha384":
		return sha512.New384(), nil
	case "sha512":
		return sha512.New(), nil
	case "blake2b", "blake2b-256":
		return blake2b.New256(nil)
	default:
		return nil, errors.Errorf("unsupported checksum algorithm %q", algorithm)
	}
}

// Verify reads r fully, computing its digest with the named algorithm, and
// compares it against declared. Comparison is case-insensitive and
// whitespace-tolerant on declared; if declared trims to empty, verification
// is a no-op and Verify returns nil without reading r.
func Verify(r io.Reader, algorithm, declared string) error {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return nil
	}

	h, err := newHash(algorithm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(h, r); err != nil {
		return errors.Wrap(err, "reading data to checksum")
	}

	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, declared) {
		return errors.Wrapf(ErrMismatch, "expected %s, got %s", declared, got)
	}
	return nil
}
