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

package getter

import (
	"bytes"
	"context"
	"net/url"
	"os"

	"github.com/pkg/errors"
)

// fileGetter reads file:// URLs off the local disk.
type fileGetter struct{}

// NewFileGetter builds a Getter for the file scheme. It ignores Options:
// local files carry no TLS or credential surface.
func NewFileGetter(Options) (Getter, error) {
	return fileGetter{}, nil
}

func (fileGetter) Get(_ context.Context, href string, _ Options) (*Response, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing file url %s", href)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", u.Path)
	}
	defer f.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, errors.Wrapf(err, "reading %s", u.Path)
	}

	return &Response{Body: buf}, nil
}
