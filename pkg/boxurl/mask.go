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

package boxurl

import "net/url"

// redaction is the fixed token substituted for both the username and the
// password of any embedded credential.
const redaction = "*****"

// Mask replaces any embedded userinfo on u with the redaction token, in
// place on a copy. It never mutates u.
func Mask(u *url.URL) *url.URL {
	if u == nil || u.User == nil {
		return u
	}
	masked := *u
	masked.User = url.UserPassword(redaction, redaction)
	return &masked
}

// MaskString parses raw, masks any embedded credentials, and returns the
// result as a string. If raw does not parse as a URL, or carries no
// credentials, raw is returned unchanged.
func MaskString(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return Mask(u).String()
}
