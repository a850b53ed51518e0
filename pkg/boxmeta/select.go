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
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"

	"github.com/boxctl/boxadd/pkg/boxui"
)

// AutoArchitecture requests the AUTO architecture rule: match the host's
// architecture exactly, or fall back to a single unknown-style default.
const AutoArchitecture = "AUTO"

// ErrNoMatchingVersion is wrapped when no version in the document satisfies
// the requested constraint.
var ErrNoMatchingVersion = errors.New("no version satisfies the requested constraint")

// ErrNoMatchingProvider is wrapped when at least one version satisfied the
// constraint but none of its providers satisfied the provider/architecture
// rule.
var ErrNoMatchingProvider = errors.New("no provider satisfies the requested name and architecture")

// SelectionRequest carries the caller's constraints into Select.
type SelectionRequest struct {
	// VersionConstraint is a semver constraint string ("", "= 1.2.0",
	// ">= 1.0, < 2.0", ...). Empty means any version is acceptable.
	VersionConstraint string
	// Providers is an ordered list of acceptable provider names. A single
	// requested provider is Providers[0:1]. Empty means no preference.
	Providers []string
	// Architecture is an explicit architecture string, AutoArchitecture,
	// or "" (absent, meaning prefer the host architecture).
	Architecture string
	// HostArch overrides the detected host architecture; defaults to
	// HostArchitecture() when empty.
	HostArch string
}

// Selection is the resolved version/provider tuple.
type Selection struct {
	Version      string
	Provider     Provider
	Architecture string
}

// Select applies the three-stage policy (version filter, provider and
// architecture filter per version newest-first, disambiguation) to pick a
// single provider to download.
func Select(doc *Document, req SelectionRequest, ui boxui.UI) (Selection, error) {
	if ui == nil {
		ui = boxui.Nop{}
	}
	hostArch := req.HostArch
	if hostArch == "" {
		hostArch = HostArchitecture()
	}

	versions, err := filterAndSortVersions(doc.Versions, req.VersionConstraint, ui)
	if err != nil {
		return Selection{}, err
	}
	if len(versions) == 0 {
		return Selection{}, errors.Wrapf(ErrNoMatchingVersion, "constraint %q matched no version of %q", req.VersionConstraint, doc.Name)
	}

	for _, v := range versions {
		candidates := filterProviders(v.Providers, req.Providers)
		candidates = filterArchitecture(candidates, req.Architecture, hostArch)
		if len(candidates) == 0 {
			continue
		}

		chosen, err := disambiguate(candidates, req.Providers, ui)
		if err != nil {
			return Selection{}, err
		}

		arch := chosen.ArchString()
		if req.Architecture == AutoArchitecture && !isRecognisedArchitecture(arch) {
			arch = ""
		}
		return Selection{Version: v.Version, Provider: chosen, Architecture: arch}, nil
	}

	return Selection{}, errors.Wrapf(ErrNoMatchingProvider, "no provider of %q matched the requested provider/architecture", doc.Name)
}

// filterAndSortVersions keeps versions satisfying constraint and returns
// them newest first. Entries whose version string doesn't parse as semver
// are skipped with a warning rather than aborting the whole selection.
func filterAndSortVersions(entries []VersionEntry, constraint string, ui boxui.UI) ([]VersionEntry, error) {
	var c *semver.Constraints
	if constraint != "" {
		parsed, err := semver.NewConstraint(constraint)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid version constraint %q", constraint)
		}
		c = parsed
	}

	type parsed struct {
		entry VersionEntry
		ver   *semver.Version
	}
	var kept []parsed
	for _, e := range entries {
		v, err := semver.NewVersion(e.Version)
		if err != nil {
			ui.Warn("skipping unparsable version %q", e.Version)
			continue
		}
		if c != nil && !c.Check(v) {
			continue
		}
		kept = append(kept, parsed{entry: e, ver: v})
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].ver.GreaterThan(kept[j].ver) })

	out := make([]VersionEntry, len(kept))
	for i, k := range kept {
		out[i] = k.entry
	}
	return out, nil
}

// filterProviders keeps providers whose name is in want, preserving want's
// order isn't needed here: disambiguate applies ordering afterward. An
// empty want keeps every provider.
func filterProviders(providers []Provider, want []string) []Provider {
	if len(want) == 0 {
		return providers
	}
	allowed := make(map[string]bool, len(want))
	for _, name := range want {
		allowed[name] = true
	}
	var out []Provider
	for _, p := range providers {
		if allowed[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// filterArchitecture applies the match-rule table: explicit architecture
// requires an exact match, AUTO matches the host exactly or falls back to
// the sole unknown-style default, and absent prefers the host but falls
// back to whichever entries are marked default_architecture.
func filterArchitecture(providers []Provider, requested, hostArch string) []Provider {
	switch {
	case requested != "" && requested != AutoArchitecture:
		return matchArch(providers, requested)

	case requested == AutoArchitecture:
		if exact := matchArch(providers, hostArch); len(exact) > 0 {
			return exact
		}
		return soleUnknownDefault(providers)

	default:
		if exact := matchArch(providers, hostArch); len(exact) > 0 {
			return exact
		}
		var defaults []Provider
		for _, p := range providers {
			if p.DefaultArchitecture {
				defaults = append(defaults, p)
			}
		}
		return defaults
	}
}

func matchArch(providers []Provider, arch string) []Provider {
	var out []Provider
	for _, p := range providers {
		if p.ArchString() == arch {
			out = append(out, p)
		}
	}
	return out
}

// soleUnknownDefault returns the single default_architecture provider
// whose architecture is absent or unrecognised, or nil if there isn't
// exactly one.
func soleUnknownDefault(providers []Provider) []Provider {
	var out []Provider
	for _, p := range providers {
		if p.DefaultArchitecture && !isRecognisedArchitecture(p.ArchString()) {
			out = append(out, p)
		}
	}
	if len(out) != 1 {
		return nil
	}
	return out
}

// disambiguate resolves a version whose provider/architecture filter left
// more than one candidate. A requested provider list is resolved by list
// order; an unconstrained choice goes to the UI.
func disambiguate(candidates []Provider, requested []string, ui boxui.UI) (Provider, error) {
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if len(requested) > 0 {
		for _, name := range requested {
			for _, c := range candidates {
				if c.Name == name {
					return c, nil
				}
			}
		}
		// filterProviders already restricted to requested names, so this
		// is unreachable in practice; fall through to the prompt as a
		// defensive fallback.
	}

	options := make([]string, len(candidates))
	for i, c := range candidates {
		options[i] = fmt.Sprintf("%s (%s)", c.Name, archLabel(c))
	}
	choice, err := ui.Ask("Multiple providers match; choose one:", options)
	if err != nil {
		return Provider{}, errors.Wrap(err, "disambiguating provider")
	}
	if choice < 0 || choice >= len(candidates) {
		return Provider{}, errors.Errorf("invalid provider choice %d", choice)
	}
	return candidates[choice], nil
}

func archLabel(p Provider) string {
	if p.Architecture == nil {
		return "any"
	}
	return *p.Architecture
}
