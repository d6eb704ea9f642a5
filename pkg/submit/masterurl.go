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
	"strings"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

const masterURLPrefix = "k8s://"

// ResolveMasterURL normalizes the cluster API URL from the user-supplied
// master string (spec.md §4.1). The master must begin with "k8s://"; the
// remainder is returned as-is if it already names a scheme, otherwise
// "https://" is prepended.
func ResolveMasterURL(raw string) (string, error) {
	if !strings.HasPrefix(raw, masterURLPrefix) {
		return "", errs.New(errs.InvalidMasterURL, "Validate", "master must start with \"k8s://\": "+raw, nil)
	}
	rest := strings.TrimPrefix(raw, masterURLPrefix)
	if strings.HasPrefix(rest, "http://") || strings.HasPrefix(rest, "https://") {
		return rest, nil
	}
	return "https://" + rest, nil
}
