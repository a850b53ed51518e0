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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/boxctl/boxadd/pkg/boxadd"
	"github.com/boxctl/boxadd/pkg/boxcollection"
)

const updateDesc = `
Update re-checks every locally cached box that was added from a metadata
url and fetches the newest version that still satisfies its original
version constraint and provider selection, if a newer one is available.

Boxes added directly from an archive, with no metadata url on record,
are left untouched: there is nothing to check them against.
`

func newUpdateCmd(deps *rootDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "refresh locally cached boxes from their metadata urls",
		Long:  updateDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, deps)
		},
	}
	return cmd
}

func runUpdate(cmd *cobra.Command, deps *rootDeps) error {
	col := boxcollection.NewLocal(settings.Home)
	boxes, err := col.List()
	if err != nil {
		return err
	}

	var tracked []boxcollection.Box
	for _, b := range boxes {
		if b.MetadataURL != "" {
			tracked = append(tracked, b)
		}
	}
	if len(tracked) == 0 {
		return errors.New("no boxes with a recorded metadata url found; nothing to update")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "checking for newer versions of your cached boxes...")
	updateBoxes(tracked, cmd.OutOrStdout(), deps)
	return nil
}

// updateBoxes fans out one goroutine per tracked box, mirroring the
// teacher's repository-update fan-out: each box is independent, a failure
// on one must not block the others, and results are reported as they land
// rather than batched at the end.
func updateBoxes(boxes []boxcollection.Box, out io.Writer, deps *rootDeps) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, b := range boxes {
		wg.Add(1)
		go func(b boxcollection.Box) {
			defer wg.Done()

			env := &boxadd.Env{
				Name:       b.Name,
				URLs:       []string{b.MetadataURL},
				Providers:  []string{b.Provider},
				ServerURL:  settings.ServerURL,
				TmpPath:    settings.Home.TmpPath(),
				UI:         newCLIUI(out, strings.NewReader("")),
				Collection: boxcollection.NewLocal(settings.Home),
				Logger:     deps.logger,
				Metrics:    deps.metrics,
			}

			_, err := boxadd.Add(context.Background(), env)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var boxErr *boxadd.Error
				if errors.As(err, &boxErr) && boxErr.Kind == boxadd.KindBoxAlreadyExists {
					fmt.Fprintf(out, "...%s is already up to date\n", b.Name)
					return
				}
				fmt.Fprintf(out, "...unable to update %s: %s\n", b.Name, err)
				return
			}
			fmt.Fprintf(out, "...successfully updated %s\n", b.Name)
		}(b)
	}
	wg.Wait()
}
