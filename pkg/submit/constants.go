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

const (
	// DriverContainerName is the name of the container in the driver Pod
	// that runs the submission server and, later, the user application.
	DriverContainerName = "spark-kubernetes-driver"

	// SubmissionSecretNamePrefix prefixes the name of the one-time
	// submission secret; the suffix is the AppId.
	SubmissionSecretNamePrefix = "submission-app-secret-"

	// SubmissionAppSecretKey is the data key under which the random
	// submission token is stored in the submission secret.
	SubmissionAppSecretKey = "SUBMISSION_APP_SECRET_NAME"

	// SubmissionServerPortName names the driver's submission-server port
	// on both the Pod and the Service/Ingress that front it.
	SubmissionServerPortName = "submit-server"
	// UIPortName names the driver's UI port.
	UIPortName = "spark-ui"

	// DriverContainerSecretsBaseDir is the base directory under which
	// per-app secret volumes are mounted in the driver container.
	DriverContainerSecretsBaseDir = "/mnt/secrets"

	// Env var names set on the driver container.
	EnvSubmissionSecretLocation = "SUBMISSION_SECRET_LOCATION"
	EnvSubmissionServerPort     = "SUBMISSION_SERVER_PORT"
	EnvSubmissionServerBasePath = "SUBMISSION_SERVER_BASE_PATH"

	// SubmissionServerPathComponent and UIPathComponent are the path
	// segments used to build the submission server's and UI's external
	// paths: /<AppId>/<component>.
	SubmissionServerPathComponent = "submit"
	UIPathComponent               = "ui"

	// DefaultUIPort is used when the configuration omits ui-port.
	DefaultUIPort = 4040

	// DefaultSubmissionServerPort is the in-pod port the submission
	// server listens on.
	DefaultSubmissionServerPort = 9090

	// DefaultDriverPort and DefaultBlockManagerPort are the driver's
	// RPC and block-manager ports.
	DefaultDriverPort       = 7078
	DefaultBlockManagerPort = 7079

	// ReservedAppIDLabelKey is the reserved selector key identifying the
	// app id; custom labels may not set it.
	ReservedAppIDLabelKey = "spark-app-selector"
	// SelectorKeyRole and RoleDriver identify the driver Pod/Service/Ingress.
	SelectorKeyRole = "spark-role"
	RoleDriver      = "driver"
	// SelectorKeyAppName identifies the submitted application by name.
	SelectorKeyAppName = "spark-app-name"

	// SubmissionClientRetriesIngress and SubmissionClientRetriesNodePort
	// bound the number of retries the RPC client performs against each
	// candidate endpoint, depending on exposure mode.
	SubmissionClientRetriesIngress  = 10
	SubmissionClientRetriesNodePort = 3

	// DefaultConnectTimeout is the RPC client's TLS handshake timeout and
	// its overall per-request timeout; the dial timeout is left at the
	// pooled transport's own default.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultDriverSubmitTimeout bounds each readiness await.
	DefaultDriverSubmitTimeout = 5 * time.Minute

	// DefaultReportInterval is how often the pod-phase watcher logs the
	// driver Pod's phase while waiting for completion.
	DefaultReportInterval = 1 * time.Second
)
