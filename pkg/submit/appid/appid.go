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

// Package appid generates the log-correlation identifier attached to
// every structured log line emitted by one submission-client
// invocation. It has nothing to do with the Kubernetes AppId used to
// name resources (selectors.DeriveAppID); it exists purely so that
// concurrent invocations of the CLI against the same cluster can be
// told apart in aggregated logs.
package appid

import "github.com/google/uuid"

// NewCorrelationID returns a fresh random identifier for one
// submission-client invocation.
func NewCorrelationID() string {
	return uuid.NewString()
}
