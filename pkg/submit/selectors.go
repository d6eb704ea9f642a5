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
	"strconv"
	"strings"
	"time"
)

// Selectors is the mapping from label key to label value applied to
// every Kubernetes object the core creates (spec.md §3, Invariant 1).
type Selectors map[string]string

// NewSelectors builds the driver selectors: the three reserved labels
// (role, app id, app name) plus the caller's parsed custom labels.
// Custom label keys never include the reserved app-id key; ParseLabels
// already enforces that.
func NewSelectors(appName, appID string, custom map[string]string) Selectors {
	sel := make(Selectors, len(custom)+3)
	for k, v := range custom {
		sel[k] = v
	}
	sel[SelectorKeyRole] = RoleDriver
	sel[ReservedAppIDLabelKey] = appID
	sel[SelectorKeyAppName] = appName
	return sel
}

// DeriveAppID computes the unique per-submission identifier (spec.md §3):
// lowercase(appName + "-" + launchTimeMillis) with "." replaced by "-".
// Uniqueness is guaranteed by the time component.
func DeriveAppID(appName string, launchTime time.Time) string {
	id := strings.ToLower(appName + "-" + strconv.FormatInt(launchTime.UnixMilli(), 10))
	return strings.ReplaceAll(id, ".", "-")
}
