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
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/boxctl/boxadd/pkg/boxpath"
)

// envSettings mirrors the old helmpath.Home-driven cmd/helm settings: a
// small bag of process-wide knobs populated from flags and then from
// environment variables, never the other way around.
type envSettings struct {
	Home          boxpath.Home
	ServerURL     string
	Debug         bool
	MetricsListen string
	Insecure      bool
	CAFile        string
	CAPath        string
	ClientCert    string
	ClientKey     string
}

var settings = &envSettings{}

// AddFlags registers the persistent flags shared by every subcommand.
func (s *envSettings) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar((*string)(&s.Home), "home", boxpath.DefaultHome().String(), "location of your box files")
	fs.StringVar(&s.ServerURL, "server-url", os.Getenv("VAGRANT_SERVER_URL"), "base url used to resolve short-hand box references")
	fs.BoolVar(&s.Debug, "debug", envBool("BOX_DEBUG"), "enable verbose debug logging")
	fs.StringVar(&s.MetricsListen, "metrics-listen", "", "address to serve Prometheus metrics on, e.g. :9102 (disabled when empty)")
	fs.BoolVar(&s.Insecure, "insecure", false, "do not verify TLS certificates when downloading")
	fs.StringVar(&s.CAFile, "cacert", "", "path to a CA certificate file for verifying the download server")
	fs.StringVar(&s.CAPath, "capath", "", "path to a directory of CA certificates for verifying the download server")
	fs.StringVar(&s.ClientCert, "cert", "", "path to a client certificate to present to the download server")
	fs.StringVar(&s.ClientKey, "key", "", "path to the client certificate's private key")
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
