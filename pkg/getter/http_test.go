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
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPGetterFetchesBody(t *testing.T) {
	expect := "Call me Ishmael"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprint(w, expect)
	}))
	defer srv.Close()

	g, err := NewHTTPGetter(Options{})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := g.Get(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body.String() != expect {
		t.Errorf("expected %q, got %q", expect, resp.Body.String())
	}
	if resp.ContentType != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type: %s", resp.ContentType)
	}
}

func TestHTTPGetterBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "user" || password != "pass" {
			t.Errorf("expected basic auth user/pass, got ok=%v user=%q pass=%q", ok, username, password)
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	g, err := NewHTTPGetter(Options{Username: "user", Password: "pass"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Get(context.Background(), srv.URL, Options{}); err != nil {
		t.Fatal(err)
	}
}

func TestHTTPGetterNonTwoXX(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	g, err := NewHTTPGetter(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Get(context.Background(), srv.URL, Options{}); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}
