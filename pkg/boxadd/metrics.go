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
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an optional observability surface for Add. A nil *Metrics on
// Env disables instrumentation entirely; Add is fully functional without
// one.
type Metrics struct {
	duration prometheus.Histogram
	total    *prometheus.CounterVec
}

// NewMetrics registers the add pipeline's metrics on reg and returns a
// Metrics ready to pass on an Env.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "box_add_duration_seconds",
			Help:    "Time spent resolving, downloading, and verifying a box across one Add invocation.",
			Buckets: prometheus.DefBuckets,
		}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "box_add_total",
			Help: "Count of Add invocations by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.duration, m.total)
	return m
}

func (m *Metrics) observe(seconds float64, result string) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
	m.total.WithLabelValues(result).Inc()
}
