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

// ParseLabels parses a CSV "k=v,k2=v2" custom-label string (spec.md
// §4.2). An empty or absent string yields an empty map. Tokens are
// trimmed; empty tokens are dropped; a token without "=" or with an
// empty key is malformed; the reserved app-id label key is forbidden.
// Duplicate keys: last one wins.
func ParseLabels(raw string) (map[string]string, error) {
	result := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return result, nil
	}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts := strings.SplitN(tok, "=", 2)
		if len(parts) != 2 {
			return nil, errs.New(errs.MalformedLabel, "Validate", "label token missing \"=\": "+tok, nil)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, errs.New(errs.MalformedLabel, "Validate", "label token has empty key: "+tok, nil)
		}
		if key == ReservedAppIDLabelKey {
			return nil, errs.New(errs.ReservedLabel, "Validate", "label key is reserved: "+key, nil)
		}
		result[key] = value
	}
	return result, nil
}
