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

// Package boxurl canonicalises user-supplied box references into URLs with
// an explicit scheme, and scrubs credentials out of anything destined for a
// log line or UI prompt.
package boxurl

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// supportedSchemes are the transports the rest of the pipeline knows how to
// fetch from. file is synthesised, never typed by a user.
var supportedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"file":  true,
}

// Normalize turns raw into a URL with an explicit scheme.
//
// If raw has no scheme and names an existing path on disk, it is rewritten
// as a file:// URL. If raw already carries one of the supported schemes it
// is parsed and returned unchanged. Short-hand references (owner/name) are
// intentionally left alone here; expanding them requires a configured
// server URL, which this package does not know about (see the orchestrator).
func Normalize(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("empty url")
	}

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		if !supportedSchemes[strings.ToLower(u.Scheme)] {
			return nil, errors.Errorf("unsupported url scheme %q", u.Scheme)
		}
		return u, nil
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q as a path", raw)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrapf(err, "%q is neither a URL with a supported scheme nor an existing file", raw)
	}

	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// IsShortHand reports whether raw looks like an owner/name short-hand
// reference rather than a URL: no scheme, no host, and exactly one path
// separator.
func IsShortHand(raw string) bool {
	if raw == "" {
		return false
	}
	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || u.Host != "") {
		return false
	}
	trimmed := strings.Trim(raw, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return false
	}
	return parts[0] != "" && parts[1] != ""
}

// LooksLikeURL reports whether s parses as an absolute URL with a scheme,
// used to detect a box name that is accidentally a URL (§4.6 "name that
// itself looks like a URL").
func LooksLikeURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
