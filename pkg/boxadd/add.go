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
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/boxctl/boxadd/pkg/boxcollection"
	"github.com/boxctl/boxadd/pkg/boxlock"
	"github.com/boxctl/boxadd/pkg/boxmeta"
	"github.com/boxctl/boxadd/pkg/boxurl"
	"github.com/boxctl/boxadd/pkg/getter"
)

// vagrantServerURLEnv is the one process-wide environment variable the
// orchestrator consults, per the REDESIGN FLAGS note that a process-wide
// singleton should become a read-only fallback rather than ambient global
// state threaded through every call.
const vagrantServerURLEnv = "VAGRANT_SERVER_URL"

// fetchResult bundles a fetched body with the URL it actually came from
// (post hook-rewrite) and the one the user originally supplied.
type fetchResult struct {
	resp        *getter.Response
	fetchedFrom string
	originalURL string
}

// Add drives the box-add state machine end to end: classify the input,
// resolve short-hand and metadata indirection, fetch the archive under a
// per-URL lock, verify its checksum, and hand the artifact to
// env.Collection before invoking env.App.
func Add(ctx context.Context, env *Env) (artifact *Artifact, err error) {
	start := time.Now()
	defer func() {
		if env.Metrics != nil {
			result := "success"
			if err != nil {
				result = "error"
			}
			env.Metrics.observe(time.Since(start).Seconds(), result)
		}
	}()

	log := env.logger()
	ui := env.ui()

	ref := env.ref()
	if len(ref.URLs) == 0 {
		return nil, newError(KindBoxAddNameRequired, nil, "no url supplied")
	}

	if len(ref.URLs) == 1 && boxurl.IsShortHand(ref.URLs[0]) {
		artifact, err = addShortHand(ctx, env, ref)
	} else {
		artifact, err = addFromURLs(ctx, env, ref)
	}
	if err != nil {
		log.Debug("box add failed", "error", err)
		return nil, err
	}

	ui.Detail("added box %s (%s)", artifact.Name, artifact.Version)
	return artifact, nil
}

// addShortHand expands an owner/name reference against the configured
// server URL and continues as a metadata-driven add.
func addShortHand(ctx context.Context, env *Env, ref Ref) (*Artifact, error) {
	serverURL := env.ServerURL
	if serverURL == "" {
		serverURL = os.Getenv(vagrantServerURLEnv)
	}
	if serverURL == "" {
		return nil, newError(KindBoxServerNotSet, nil, "short-hand box %q requires a configured server url", ref.URLs[0])
	}

	shortHand := strings.Trim(ref.URLs[0], "/")
	apiURL := strings.TrimRight(serverURL, "/") + "/api/v2/vagrant/" + shortHand
	plainURL := strings.TrimRight(serverURL, "/") + "/" + shortHand

	fr, err := fetchOnce(ctx, env, apiURL)
	if err != nil {
		fr, err = fetchOnce(ctx, env, plainURL)
		if err != nil {
			return nil, newError(KindBoxAddShortNotFound, err, "short-hand box %q not found on %s", shortHand, boxurl.MaskString(serverURL))
		}
	}

	doc, kind := classify(fr.resp)
	if kind != boxmeta.KindMetadata {
		return nil, newError(KindBoxMetadataDownloadError, nil, "short-hand box %q did not resolve to a metadata document", shortHand)
	}
	return addFromMetadata(ctx, env, ref, doc, fr)
}

// addFromURLs handles both the single-URL (metadata-or-archive,
// disambiguated by content) and multi-URL (archive mirror list) cases.
func addFromURLs(ctx context.Context, env *Env, ref Ref) (*Artifact, error) {
	urls, err := env.hook().AuthenticateURLs(env, ref.URLs)
	if err != nil {
		return nil, newError(KindDownloaderError, err, "authenticating box urls")
	}

	fr, err := fetchFirstReachable(ctx, env, urls, ref.URLs)
	if err != nil {
		return nil, err
	}

	doc, kind := classify(fr.resp)
	if kind == boxmeta.KindMetadata {
		if len(ref.URLs) > 1 {
			return nil, newError(KindBoxAddMetadataMultiURL, nil, "metadata document is not permitted alongside other urls")
		}
		return addFromMetadata(ctx, env, ref, doc, fr)
	}
	return addDirect(env, ref, fr)
}

// addDirect implements the DIRECT path: the fetched body is the archive
// itself.
func addDirect(env *Env, ref Ref, fr *fetchResult) (*Artifact, error) {
	if ref.Name == "" {
		return nil, newError(KindBoxAddNameRequired, nil, "name is required when adding a box directly from a url")
	}
	if ref.VersionConstraint != "" {
		return nil, newError(KindBoxAddDirectVersion, nil, "a version may not be specified for a direct box add")
	}
	if boxurl.LooksLikeURL(ref.Name) {
		env.ui().Warn("box name %q looks like a url", ref.Name)
	}

	const version = "0"
	if err := validateCatalogTuple(ref.Name, version, ""); err != nil {
		return nil, err
	}
	if existing, err := findExisting(env, ref.Name, ref.Providers, version, ref.Architecture); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, newError(KindBoxAlreadyExists, nil, "box %q version %q already exists", ref.Name, version)
	}

	if err := checksumVerify(fr.resp, ref.ChecksumType, ref.Checksum); err != nil {
		return nil, err
	}

	path, err := stageArchive(env, fr.resp)
	if err != nil {
		return nil, err
	}

	box, err := env.Collection.Add(path, ref.Name, version, boxcollection.AddOptions{
		Architecture: ref.Architecture,
		Force:        ref.Force,
		Providers:    ref.Providers,
	})
	if err != nil {
		return nil, newError(KindDownloaderError, err, "registering box in collection")
	}
	env.BoxAdded = box

	return finish(env, &Artifact{
		Path:         path,
		Name:         ref.Name,
		Version:      version,
		Architecture: ref.Architecture,
		Box:          box,
	})
}

// addFromMetadata implements the METADATA/SHORTHAND tail: select a
// candidate from doc, fetch its archive, verify, and hand off.
func addFromMetadata(ctx context.Context, env *Env, ref Ref, doc *boxmeta.Document, metaFetch *fetchResult) (*Artifact, error) {
	if ref.Name != "" && ref.Name != doc.Name {
		return nil, newError(KindBoxAddNameMismatch, nil, "metadata name %q does not match requested name %q", doc.Name, ref.Name)
	}
	name := doc.Name
	if err := validateCatalogTuple(name, "", ""); err != nil {
		return nil, err
	}

	sel, err := boxmeta.Select(doc, boxmeta.SelectionRequest{
		VersionConstraint: ref.VersionConstraint,
		Providers:         ref.Providers,
		Architecture:      ref.Architecture,
	}, env.ui())
	if err != nil {
		return nil, mapSelectError(err)
	}
	if err := validateCatalogTuple("", sel.Version, sel.Provider.Name); err != nil {
		return nil, err
	}

	if existing, err := findExisting(env, name, ref.Providers, sel.Version, sel.Architecture); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, newError(KindBoxAlreadyExists, nil, "box %q version %q already exists", name, sel.Version)
	}

	urls, err := env.hook().AuthenticateURLs(env, []string{sel.Provider.URL})
	if err != nil {
		return nil, newError(KindDownloaderError, err, "authenticating provider url")
	}

	fr, err := fetchFirstReachable(ctx, env, urls, []string{sel.Provider.URL})
	if err != nil {
		return nil, err
	}

	checksumType := sel.Provider.ChecksumType
	checksum := sel.Provider.Checksum
	if ref.Checksum != "" {
		checksumType = ref.ChecksumType
		checksum = ref.Checksum
	}
	if err := checksumVerify(fr.resp, checksumType, checksum); err != nil {
		return nil, err
	}

	path, err := stageArchive(env, fr.resp)
	if err != nil {
		return nil, err
	}

	box, err := env.Collection.Add(path, name, sel.Version, boxcollection.AddOptions{
		Architecture: sel.Architecture,
		MetadataURL:  metaFetch.originalURL,
		Force:        ref.Force,
		Providers:    []string{sel.Provider.Name},
	})
	if err != nil {
		return nil, newError(KindDownloaderError, err, "registering box in collection")
	}
	env.BoxAdded = box

	return finish(env, &Artifact{
		Path:         path,
		Name:         name,
		Version:      sel.Version,
		Provider:     sel.Provider.Name,
		Architecture: sel.Architecture,
		MetadataURL:  metaFetch.originalURL,
		Box:          box,
	})
}

// validateCatalogTuple rejects name/version/provider values that would
// escape the box home directory once joined into a filesystem path by
// boxcollection.Local.Add. name is expected in "owner/name" form and may
// contain exactly one internal separator; version and provider are single
// path segments and must not contain one at all. An empty version or
// provider is treated as "not supplied yet" and skipped, so this can be
// called once for name alone and again for version/provider once selected.
func validateCatalogTuple(name, version, provider string) error {
	if name != "" {
		for _, seg := range strings.Split(name, "/") {
			if !validPathSegment(seg) {
				return newError(KindBoxAddInvalidIdentity, nil, "invalid box name %q", name)
			}
		}
	}
	if version != "" && !validPathSegment(version) {
		return newError(KindBoxAddInvalidIdentity, nil, "invalid box version %q", version)
	}
	if provider != "" && !validPathSegment(provider) {
		return newError(KindBoxAddInvalidIdentity, nil, "invalid box provider %q", provider)
	}
	return nil
}

// validPathSegment reports whether seg is safe to use as a single path
// component: non-empty, not a "." or ".." traversal token, and free of
// path separators of either flavor.
func validPathSegment(seg string) bool {
	if seg == "" || seg == "." || seg == ".." {
		return false
	}
	return !strings.ContainsAny(seg, `/\`)
}

func mapSelectError(err error) error {
	switch {
	case errors.Is(err, boxmeta.ErrNoMatchingVersion):
		return newError(KindBoxAddNoMatchingVersion, err, "no matching version")
	case errors.Is(err, boxmeta.ErrNoMatchingProvider):
		return newError(KindBoxAddNoMatchingProvider, err, "no matching provider")
	default:
		return newError(KindBoxAddNoMatchingProvider, err, "selecting a candidate")
	}
}

func findExisting(env *Env, name string, providers []string, version, architecture string) (*boxcollection.Box, error) {
	b, err := env.Collection.Find(name, providers, version, architecture)
	if err != nil {
		return nil, newError(KindDownloaderError, err, "querying box collection")
	}
	if b != nil && !env.Force {
		return b, nil
	}
	return nil, nil
}

func finish(env *Env, artifact *Artifact) (*Artifact, error) {
	if env.App != nil {
		if err := env.App.Call(env); err != nil {
			return nil, newError(KindDownloaderError, err, "invoking downstream stage")
		}
	}
	return artifact, nil
}

// classify peeks at a fetched response and decides whether it is a
// metadata document or an archive. A document is parsed only when
// classification says metadata.
func classify(resp *getter.Response) (*boxmeta.Document, boxmeta.Kind) {
	kind := boxmeta.Classify(resp.ContentType, resp.Body.Bytes())
	if kind != boxmeta.KindMetadata {
		return nil, boxmeta.KindArchive
	}
	doc, err := boxmeta.ParseDocument(resp.Body.Bytes())
	if err != nil {
		return nil, boxmeta.KindArchive
	}
	return doc, boxmeta.KindMetadata
}

// fetchOnce acquires the per-URL lock, downloads rawURL, and releases the
// lock on every exit path. The downloader hook runs here, immediately
// before the download it authorizes, rather than once at the top of Add:
// a single Add call may fetch metadata and then an archive, and a hook
// that mints a short-lived credential needs a fresh one for each.
func fetchOnce(ctx context.Context, env *Env, rawURL string) (*fetchResult, error) {
	normalized, err := boxurl.Normalize(rawURL)
	if err != nil {
		return nil, newError(KindDownloaderError, err, "resolving %s", boxurl.MaskString(rawURL))
	}

	env, derr := env.hook().AuthenticateDownloader(env)
	if derr != nil {
		return nil, newError(KindDownloaderError, derr, "authenticating downloader for %s", boxurl.MaskString(rawURL))
	}

	lock, err := boxlock.Acquire(env.TmpPath, normalized.String())
	if err != nil {
		if errors.Is(err, boxlock.ErrInProgress) {
			return nil, newError(KindDownloadAlreadyInProgress, err, "download already in progress for %s", boxurl.MaskString(rawURL))
		}
		return nil, newError(KindDownloaderError, err, "acquiring lock for %s", boxurl.MaskString(rawURL))
	}
	defer lock.Release()

	env.ui().Detail("downloading %s", boxurl.MaskString(rawURL))

	g, err := getter.ByScheme(normalized.Scheme, downloaderOptions(env, normalized))
	if err != nil {
		return nil, newError(KindDownloaderError, err, "unsupported scheme for %s", boxurl.MaskString(rawURL))
	}

	resp, err := g.Get(ctx, normalized.String(), downloaderOptions(env, normalized))
	if err != nil {
		return nil, newError(KindDownloaderError, err, "fetching %s", boxurl.MaskString(rawURL))
	}

	return &fetchResult{resp: resp, fetchedFrom: rawURL}, nil
}

// fetchFirstReachable tries each rewritten URL in order, only advancing
// past a DownloaderError (§7 fallback semantics). originals is the
// pre-authentication-rewrite URL list, used to stamp the original URL on
// the winning result.
func fetchFirstReachable(ctx context.Context, env *Env, urls, originals []string) (*fetchResult, error) {
	var lastErr error
	for i, u := range urls {
		fr, err := fetchOnce(ctx, env, u)
		if err == nil {
			original := u
			if i < len(originals) {
				original = originals[i]
			}
			fr.originalURL = original
			return fr, nil
		}
		var boxErr *Error
		if errors.As(err, &boxErr) && boxErr.Kind != KindDownloaderError {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func downloaderOptions(env *Env, u *url.URL) getter.Options {
	opts := getter.Options{
		CAFile:                     env.Download.CAFile,
		CAPath:                     env.Download.CAPath,
		Insecure:                   env.Download.Insecure,
		ClientCertFile:             env.Download.ClientCertFile,
		ClientKeyFile:              env.Download.ClientKeyFile,
		LocationTrusted:            env.Download.LocationTrusted,
		DisableSSLRevokeBestEffort: env.Download.DisableSSLRevokeBestEffort,
	}
	if u.User != nil {
		opts.Username = u.User.Username()
		opts.Password, _ = u.User.Password()
	}
	return opts
}
