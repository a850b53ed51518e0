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

// Package boxui is the narrow seam through which the box-add pipeline talks
// to whatever is driving it, interactive or not. It is intentionally small:
// progress detail, warnings, and a single style of disambiguation prompt.
package boxui

import "github.com/pkg/errors"

// ErrNoUI is returned by Nop.Ask: there is nobody to answer the prompt.
var ErrNoUI = errors.New("no UI available to prompt for a choice")

// UI is implemented by callers that want to surface progress or be asked to
// resolve an ambiguity. It is deliberately not an io.Writer: callers decide
// how detail and warnings are rendered.
type UI interface {
	// Detail reports routine progress, e.g. "resolved https://...".
	Detail(format string, args ...interface{})
	// Warn reports a non-fatal anomaly, e.g. a skipped malformed version.
	Warn(format string, args ...interface{})
	// Ask presents options and returns the index of the one chosen.
	Ask(prompt string, options []string) (int, error)
}

// Nop is a UI that discards detail/warnings and refuses to disambiguate.
// It is the default when a caller doesn't supply one, which is correct for
// any non-interactive invocation: an unanswerable prompt must fail loudly
// rather than block.
type Nop struct{}

func (Nop) Detail(string, ...interface{}) {}
func (Nop) Warn(string, ...interface{})   {}
func (Nop) Ask(string, []string) (int, error) {
	return 0, ErrNoUI
}
