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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boxctl/boxadd/pkg/boxadd"
	"github.com/boxctl/boxadd/pkg/boxcollection"
)

const addDesc = `
Add a box to the local catalog.

BOX_URL may be a local path, an http(s) or ftp url to a box archive, a url
to a box metadata document, or a short-hand "owner/name" reference resolved
against --server-url (or $VAGRANT_SERVER_URL).

Multiple urls may be given; they are tried in order and the first one that
can be fetched wins. A short-hand reference and a metadata url may not be
combined with other urls.
`

type addCmd struct {
	deps *rootDeps

	name              string
	providers         []string
	versionConstraint string
	checksum          string
	checksumType      string
	architecture      string
	force             bool
}

func newAddCmd(deps *rootDeps) *cobra.Command {
	ac := &addCmd{deps: deps}

	cmd := &cobra.Command{
		Use:   "add BOX_URL [BOX_URL...]",
		Short: "add a box to the local catalog",
		Long:  addDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ac.run(cmd, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ac.name, "name", "", "name to register the box under (required for a direct archive add)")
	f.StringSliceVar(&ac.providers, "provider", nil, "acceptable provider name(s), tried in the order given")
	f.StringVar(&ac.versionConstraint, "box-version", "", "semver constraint restricting which metadata version is selected")
	f.StringVar(&ac.checksum, "checksum", "", "expected digest of the downloaded archive")
	f.StringVar(&ac.checksumType, "checksum-type", "", "digest algorithm for --checksum (md5, sha1, sha256, sha384, sha512, blake2b)")
	f.StringVar(&ac.architecture, "architecture", "", "requested architecture, or AUTO to accept a single unlabelled default")
	f.BoolVarP(&ac.force, "force", "f", false, "overwrite an existing box with the same name, version, provider and architecture")

	return cmd
}

func (ac *addCmd) run(cmd *cobra.Command, args []string) error {
	env := &boxadd.Env{
		Name:              ac.name,
		URLs:              args,
		Providers:         ac.providers,
		VersionConstraint: ac.versionConstraint,
		Checksum:          ac.checksum,
		ChecksumType:      ac.checksumType,
		Architecture:      ac.architecture,
		Force:             ac.force,
		ServerURL:         settings.ServerURL,
		TmpPath:           settings.Home.TmpPath(),
		UI:                newCLIUI(cmd.OutOrStdout(), os.Stdin),
		Collection:        boxcollection.NewLocal(settings.Home),
		Logger:            ac.deps.logger,
		Metrics:           ac.deps.metrics,
		Download: boxadd.DownloadOptions{
			Insecure:       settings.Insecure,
			CAFile:         settings.CAFile,
			CAPath:         settings.CAPath,
			ClientCertFile: settings.ClientCert,
			ClientKeyFile:  settings.ClientKey,
		},
	}

	artifact, err := boxadd.Add(cmd.Context(), env)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "box added: %s (version %s, provider %s)\n", artifact.Name, artifact.Version, artifact.Provider)
	return nil
}
