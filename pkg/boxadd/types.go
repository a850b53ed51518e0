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

// Package boxadd implements the add orchestrator: the state machine that
// resolves a box reference, downloads it under mutex-file locking,
// verifies its checksum, and hands the artifact to a downstream catalog.
package boxadd

import (
	"github.com/boxctl/boxadd/internal/log"
	"github.com/boxctl/boxadd/pkg/boxcollection"
	"github.com/boxctl/boxadd/pkg/boxui"
)

// Ref is the box reference data model (§3 BoxRef): either urls is
// non-empty, or the short-hand form is carried in URLs[0] with no scheme.
type Ref struct {
	Name              string
	URLs              []string
	Providers         []string
	VersionConstraint string
	Checksum          string
	ChecksumType      string
	Architecture      string
	Force             bool
}

// DownloadOptions mirrors the box_download_* environment keys, forwarded
// verbatim to the getter when present.
type DownloadOptions struct {
	CAFile                     string
	CAPath                     string
	Insecure                   bool
	ClientCertFile             string
	ClientKeyFile              string
	LocationTrusted            bool
	DisableSSLRevokeBestEffort bool
}

// App is the downstream pipeline stage invoked after a successful add.
type App interface {
	Call(env *Env) error
}

// Hook is the authentication hook protocol (§4.6, §6). Both methods may be
// called multiple times per invocation.
type Hook interface {
	// AuthenticateDownloader returns a (possibly unchanged) Env whose
	// DownloadOptions have been mutated for the current target.
	AuthenticateDownloader(env *Env) (*Env, error)
	// AuthenticateURLs returns a (possibly rewritten) copy of urls.
	AuthenticateURLs(env *Env, urls []string) ([]string, error)
}

// NopHook is the identity Hook: it returns its inputs unchanged.
type NopHook struct{}

func (NopHook) AuthenticateDownloader(env *Env) (*Env, error) { return env, nil }
func (NopHook) AuthenticateURLs(_ *Env, urls []string) ([]string, error) {
	return urls, nil
}

// Env is the typed environment bag driving one invocation of Add. The
// untyped map form described in §6 exists only at the CLI boundary.
type Env struct {
	// Read keys.
	Name              string
	URLs              []string
	Providers         []string
	VersionConstraint string
	Checksum          string
	ChecksumType      string
	Architecture      string
	Force             bool
	ServerURL         string
	Download          DownloadOptions
	TmpPath           string
	UI                boxui.UI
	Collection        boxcollection.Collection
	Hook              Hook
	Logger            log.Logger

	// App is called once, after BoxAdded is populated, iff Add succeeds.
	App App

	// Metrics is optional; a nil value disables instrumentation.
	Metrics *Metrics

	// Write key: populated by Add on success, read by App.Call.
	BoxAdded *boxcollection.Box
}

func (e *Env) ref() Ref {
	return Ref{
		Name:              e.Name,
		URLs:              e.URLs,
		Providers:         e.Providers,
		VersionConstraint: e.VersionConstraint,
		Checksum:          e.Checksum,
		ChecksumType:      e.ChecksumType,
		Architecture:      e.Architecture,
		Force:             e.Force,
	}
}

func (e *Env) logger() log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.DefaultLogger
}

func (e *Env) ui() boxui.UI {
	if e.UI != nil {
		return e.UI
	}
	return boxui.Nop{}
}

func (e *Env) hook() Hook {
	if e.Hook != nil {
		return e.Hook
	}
	return NopHook{}
}

// Artifact is the realised identity of a downloaded, verified archive.
type Artifact struct {
	Path         string
	Name         string
	Version      string
	Provider     string
	Architecture string
	MetadataURL  string
	Box          *boxcollection.Box
}
