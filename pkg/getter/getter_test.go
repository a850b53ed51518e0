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

import "testing"

func TestProvider(t *testing.T) {
	p := Provider{
		Schemes: []string{"one", "three"},
		New:     func(Options) (Getter, error) { return nil, nil },
	}

	if !p.Provides("three") {
		t.Error("expected provider to provide three")
	}
	if p.Provides("two") {
		t.Error("did not expect provider to provide two")
	}
}

func TestProviders(t *testing.T) {
	ps := Providers{
		{Schemes: []string{"one", "three"}, New: func(Options) (Getter, error) { return nil, nil }},
		{Schemes: []string{"two", "four"}, New: func(Options) (Getter, error) { return nil, nil }},
	}

	if _, err := ps.ByScheme("one"); err != nil {
		t.Error(err)
	}
	if _, err := ps.ByScheme("four"); err != nil {
		t.Error(err)
	}
	if _, err := ps.ByScheme("five"); err == nil {
		t.Error("did not expect a handler for five")
	}
}

func TestAll(t *testing.T) {
	all := All()
	for _, scheme := range []string{"http", "https", "ftp", "file"} {
		if _, err := all.ByScheme(scheme); err != nil {
			t.Errorf("expected a provider for %s: %v", scheme, err)
		}
	}
}

func TestByScheme(t *testing.T) {
	g, err := ByScheme("file", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if g == nil {
		t.Fatal("expected a non-nil getter")
	}
}
