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

import "time"

// Config holds every recognized configuration input (spec.md §6). CLI
// parsing and defaulting of these fields is the caller's responsibility;
// the orchestrator only consumes an already-populated Config.
type Config struct {
	Namespace         string
	Master            string
	DriverDockerImage string
	ServiceAccount    string
	DriverLabels      string

	UIPort           int
	DriverPort       int
	BlockManagerPort int
	SubmissionServerPort int

	CACertFile     string
	ClientKeyFile  string
	ClientCertFile string

	DriverSubmitTimeout time.Duration
	ExposeIngress       bool
	IngressBasePath     string

	WaitForAppCompletion bool
	ReportInterval       time.Duration

	// Properties carries arbitrary user key/value pairs forwarded verbatim
	// into the SubmissionRequest.
	Properties map[string]string
}

// DefaultConfig returns a Config with every documented default applied
// (spec.md §6); callers overlay CLI-provided values on top of it.
func DefaultConfig() Config {
	return Config{
		UIPort:               DefaultUIPort,
		DriverPort:           DefaultDriverPort,
		BlockManagerPort:     DefaultBlockManagerPort,
		SubmissionServerPort: DefaultSubmissionServerPort,
		DriverSubmitTimeout:  DefaultDriverSubmitTimeout,
		ReportInterval:       DefaultReportInterval,
		Properties:           map[string]string{},
	}
}
