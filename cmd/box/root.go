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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/boxctl/boxadd/internal/log"
	"github.com/boxctl/boxadd/internal/logging"
	"github.com/boxctl/boxadd/pkg/boxadd"
	"github.com/boxctl/boxadd/pkg/boxpath"
)

var globalUsage = `box manages a local cache of Vagrant-style virtual machine box images.

Environment:
  $BOX_HOME            set an alternative location for box files. By default, these are stored in ~/.box
  $VAGRANT_SERVER_URL  base url used to resolve short-hand box references (owner/name)
  $BOX_DEBUG           set to a truthy value to enable verbose debug logging
`

// rootDeps bundles the long-lived collaborators built once at process
// startup and threaded into every subcommand.
type rootDeps struct {
	metrics *boxadd.Metrics
	logger  log.Logger
}

func newRootCmd(args []string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "box",
		Short:         "manage a local cache of virtual machine box images",
		Long:          globalUsage,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	settings.AddFlags(flags)
	flags.Parse(args)

	deps := &rootDeps{
		metrics: boxadd.NewMetrics(prometheus.DefaultRegisterer),
		logger:  log.NewSlogAdapter(logging.NewLogger(func() bool { return settings.Debug })),
	}

	if settings.MetricsListen != "" {
		go serveMetrics(settings.MetricsListen, deps.logger)
	}

	if err := boxpath.EnsureDirectories(settings.Home); err != nil {
		return nil, err
	}

	cmd.AddCommand(
		newAddCmd(deps),
		newUpdateCmd(deps),
	)

	return cmd, nil
}

// serveMetrics runs a bare promhttp handler until the process exits; a
// failure here is logged, not fatal, since metrics are an operational
// nicety and must never block box operations.
func serveMetrics(addr string, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", "error", err)
	}
}
