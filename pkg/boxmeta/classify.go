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

package boxmeta

import (
	"bytes"
	"encoding/json"
	"mime"

	"github.com/klauspost/compress/gzip"
)

// Kind distinguishes a fetched payload that is the box archive itself from
// one that is a metadata document describing where to find it.
type Kind int

const (
	KindArchive Kind = iota
	KindMetadata
)

func (k Kind) String() string {
	if k == KindMetadata {
		return "metadata"
	}
	return "archive"
}

// Classify decides whether body is an archive or a metadata document.
//
// A transport-supplied media type whose essence is application/json is
// authoritative, parameters such as charset are ignored. Any other case
// (no media type, or a media type that isn't JSON but may simply be wrong,
// e.g. a static file server answering everything with
// application/octet-stream) falls back to sniffing: a body that parses as
// JSON is treated as metadata, anything else is treated as an archive.
func Classify(contentType string, body []byte) Kind {
	if contentType != "" {
		if essence, _, err := mime.ParseMediaType(contentType); err == nil && essence == "application/json" {
			return KindMetadata
		}
	}
	if isGzipArchive(body) {
		return KindArchive
	}
	var probe json.RawMessage
	if json.Unmarshal(body, &probe) == nil {
		return KindMetadata
	}
	return KindArchive
}

// isGzipArchive reports whether body opens as a valid gzip stream, the
// shape every real .box archive takes (a gzip-compressed tar). Checking
// this before attempting a JSON sniff avoids running the JSON decoder
// over a multi-hundred-megabyte binary body on the common path.
func isGzipArchive(body []byte) bool {
	r, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return false
	}
	r.Close()
	return true
}
