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

package boxadd

import (
	"fmt"
	"sync"

	"github.com/boxctl/boxadd/pkg/boxcollection"
)

// fakeCollection is an in-memory Collection used by orchestrator tests,
// modeled on the teacher's dependency-injected fake collaborators rather
// than a mocking framework.
type fakeCollection struct {
	mu        sync.Mutex
	boxes     []boxcollection.Box
	addCalls  int
	findErr   error
	addErr    error
	lastAdded boxcollection.AddOptions
}

func (f *fakeCollection) Find(name string, providers []string, version, architecture string) (*boxcollection.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	allowed := map[string]bool{}
	for _, p := range providers {
		allowed[p] = true
	}
	for i := range f.boxes {
		b := f.boxes[i]
		if b.Name != name {
			continue
		}
		if version != "" && b.Version != version {
			continue
		}
		if architecture != "" && b.Architecture != architecture {
			continue
		}
		if len(allowed) > 0 && !allowed[b.Provider] {
			continue
		}
		return &b, nil
	}
	return nil, nil
}

func (f *fakeCollection) Add(path, name, version string, opts boxcollection.AddOptions) (*boxcollection.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	f.lastAdded = opts
	if f.addErr != nil {
		return nil, f.addErr
	}
	provider := ""
	if len(opts.Providers) > 0 {
		provider = opts.Providers[0]
	}
	box := boxcollection.Box{
		Name:         name,
		Version:      version,
		Provider:     provider,
		Architecture: opts.Architecture,
		Path:         path,
		MetadataURL:  opts.MetadataURL,
	}
	f.boxes = append(f.boxes, box)
	return &box, nil
}

// fakeApp records whether the downstream stage was invoked.
type fakeApp struct {
	mu      sync.Mutex
	calls   int
	callErr error
	lastEnv *Env
}

func (f *fakeApp) Call(env *Env) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastEnv = env
	return f.callErr
}

// recordingUI captures every detail/warn line so tests can assert on
// credential scrubbing (invariant 4).
type recordingUI struct {
	mu      sync.Mutex
	details []string
	warns   []string
}

func (u *recordingUI) Detail(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.details = append(u.details, fmt.Sprintf(format, args...))
}

func (u *recordingUI) Warn(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.warns = append(u.warns, fmt.Sprintf(format, args...))
}

func (u *recordingUI) Ask(string, []string) (int, error) {
	return 0, nil
}

// rewriteHook rewrites every URL it's given by prefixing rewriteTo,
// exercising the "metadata_url stays original" invariant (§8 invariant 7).
// It also counts AuthenticateDownloader calls so tests can assert the
// downloader hook runs before every fetch, not just once per Add.
type rewriteHook struct {
	rewriteTo func(string) string

	mu                  sync.Mutex
	downloaderAuthCalls int
}

func (h *rewriteHook) AuthenticateDownloader(env *Env) (*Env, error) {
	h.mu.Lock()
	h.downloaderAuthCalls++
	h.mu.Unlock()
	return env, nil
}

func (h *rewriteHook) AuthenticateURLs(_ *Env, urls []string) ([]string, error) {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = h.rewriteTo(u)
	}
	return out, nil
}

func (h *rewriteHook) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.downloaderAuthCalls
}
