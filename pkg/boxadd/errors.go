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

import "fmt"

// Kind identifies a specific failure mode of the add pipeline. Every Kind
// is a distinct identity: none is recovered locally, all surface to the
// caller via errors.As.
type Kind string

const (
	KindDownloadAlreadyInProgress Kind = "download_already_in_progress"
	KindDownloaderError           Kind = "downloader_error"
	KindBoxMetadataDownloadError  Kind = "box_metadata_download_error"
	KindBoxAddNameRequired        Kind = "box_add_name_required"
	KindBoxAddDirectVersion       Kind = "box_add_direct_version"
	KindBoxAlreadyExists          Kind = "box_already_exists"
	KindBoxChecksumMismatch       Kind = "box_checksum_mismatch"
	KindBoxServerNotSet           Kind = "box_server_not_set"
	KindBoxAddShortNotFound       Kind = "box_add_short_not_found"
	KindBoxAddMetadataMultiURL    Kind = "box_add_metadata_multi_url"
	KindBoxAddNameMismatch        Kind = "box_add_name_mismatch"
	KindBoxAddNoMatchingVersion   Kind = "box_add_no_matching_version"
	KindBoxAddNoMatchingProvider  Kind = "box_add_no_matching_provider"
	KindBoxAddInvalidIdentity     Kind = "box_add_invalid_identity"
)

// Error is the result sum type the add pipeline returns: a Kind plus a
// human-readable message and, usually, the lower-level Cause it wraps.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, boxadd.KindBoxAlreadyExists)-shaped checks via Is
// on the Kind itself (see Kind.Is below) or errors.As on *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}
