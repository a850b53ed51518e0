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
	"runtime"
	"strings"
)

// recognisedArchitectures is the set of architecture identifiers the
// selector treats as well-known. A provider whose declared architecture
// isn't in this set is "unknown style" for the purposes of the AUTO
// fallback rule: it can still be chosen as the sole default_architecture
// provider, but it never participates in an exact architecture match.
var recognisedArchitectures = map[string]bool{
	"i386":     true,
	"i686":     true,
	"x86_64":   true,
	"amd64":    true,
	"arm":      true,
	"arm64":    true,
	"aarch64":  true,
	"ppc64":    true,
	"ppc64le":  true,
	"s390x":    true,
	"mips64":   true,
	"mips64le": true,
}

// HostArchitecture reports the running host's architecture using the
// naming convention box providers commonly publish.
func HostArchitecture() string {
	switch runtime.GOARCH {
	case "386":
		return "i386"
	default:
		return runtime.GOARCH
	}
}

func isRecognisedArchitecture(arch string) bool {
	return recognisedArchitectures[strings.ToLower(arch)]
}
