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
	"errors"
	"testing"
)

func TestParseDocument(t *testing.T) {
	body := []byte(`{
		"name": "hashicorp/precise64",
		"versions": [
			{"version": "1.0.0", "providers": [{"name": "virtualbox", "url": "https://example.com/box.box"}]}
		]
	}`)
	doc, err := ParseDocument(body)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "hashicorp/precise64" {
		t.Errorf("unexpected name: %s", doc.Name)
	}
	if len(doc.Versions) != 1 || doc.Versions[0].Providers[0].Name != "virtualbox" {
		t.Errorf("unexpected versions: %+v", doc.Versions)
	}
}

func TestParseDocumentInvalidJSON(t *testing.T) {
	if _, err := ParseDocument([]byte("not json")); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestParseDocumentMissingName(t *testing.T) {
	_, err := ParseDocument([]byte(`{"versions": [{"version": "1.0.0", "providers": []}]}`))
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestParseDocumentMissingVersions(t *testing.T) {
	_, err := ParseDocument([]byte(`{"name": "foo/bar"}`))
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestProviderArchString(t *testing.T) {
	p := Provider{}
	if p.ArchString() != "" {
		t.Errorf("expected empty architecture, got %q", p.ArchString())
	}
	arch := "amd64"
	p.Architecture = &arch
	if p.ArchString() != "amd64" {
		t.Errorf("expected amd64, got %q", p.ArchString())
	}
}
