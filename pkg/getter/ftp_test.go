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

func TestParsePasvResponse(t *testing.T) {
	addr, err := parsePasvResponse("227 Entering Passive Mode (192,168,1,1,200,13).")
	if err != nil {
		t.Fatal(err)
	}
	want := "192.168.1.1:51213" // 200*256+13
	if addr != want {
		t.Errorf("got %q, want %q", addr, want)
	}
}

func TestParsePasvResponseMalformed(t *testing.T) {
	if _, err := parsePasvResponse("227 nonsense"); err == nil {
		t.Fatal("expected an error for malformed PASV response")
	}
}
