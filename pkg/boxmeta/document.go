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

// Package boxmeta classifies a fetched payload as an archive or a box
// metadata document, parses the document, and selects the version/provider/
// architecture tuple that best satisfies a caller's constraints.
package boxmeta

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrMalformedDocument is wrapped by ParseDocument when the payload parses
// as JSON but is missing a required field.
var ErrMalformedDocument = errors.New("malformed box metadata document")

// Provider describes one (name, architecture) download entry for a
// version. Architecture is a pointer so that "absent" (wildcard, per the
// selection rules) is distinguishable from the empty string.
type Provider struct {
	Name                string  `json:"name"`
	URL                 string  `json:"url"`
	Architecture        *string `json:"architecture,omitempty"`
	DefaultArchitecture bool    `json:"default_architecture,omitempty"`
	ChecksumType        string  `json:"checksum_type,omitempty"`
	Checksum            string  `json:"checksum,omitempty"`
}

// ArchString returns the provider's architecture, or "" if unset.
func (p Provider) ArchString() string {
	if p.Architecture == nil {
		return ""
	}
	return *p.Architecture
}

// VersionEntry is one entry of the document's "versions" array.
type VersionEntry struct {
	Version   string     `json:"version"`
	Providers []Provider `json:"providers"`
}

// Document is the parsed box metadata wire format (§3 of the box-add
// pipeline spec).
type Document struct {
	Name     string         `json:"name"`
	Versions []VersionEntry `json:"versions"`
}

// ParseDocument unmarshals body as a Document. A payload that is valid JSON
// but missing "name" or "versions" is still an error: both are required by
// the wire format.
func ParseDocument(body []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing box metadata document")
	}
	if doc.Name == "" {
		return nil, errors.Wrap(ErrMalformedDocument, `missing required field "name"`)
	}
	if len(doc.Versions) == 0 {
		return nil, errors.Wrap(ErrMalformedDocument, `missing required field "versions"`)
	}
	return &doc, nil
}
