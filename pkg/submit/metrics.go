// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package submit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ambient observability instruments the orchestrator
// updates as it moves through the provisioning protocol. Submission
// clients run once per process invocation, so these are mostly useful
// when the CLI is wrapped by a long-running supervisor that scrapes
// between runs.
type Metrics struct {
	PhaseDuration   *prometheus.HistogramVec
	SubmissionTotal *prometheus.CounterVec
}

// NewMetrics registers the submission client's instruments with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "spark_submit_phase_duration_seconds",
			Help: "Duration of each orchestrator phase, by state reached.",
		}, []string{"state"}),
		SubmissionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spark_submit_submissions_total",
			Help: "Count of submission attempts by terminal outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.PhaseDuration, m.SubmissionTotal)
	return m
}
