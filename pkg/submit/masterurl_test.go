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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

func TestResolveMasterURL(t *testing.T) {
	cases := []struct {
		doc  string
		in   string
		want string
	}{
		{"bare host gets https", "k8s://cluster.example:6443", "https://cluster.example:6443"},
		{"http scheme preserved", "k8s://http://h:8080", "http://h:8080"},
		{"https scheme preserved", "k8s://https://h:8080", "https://h:8080"},
	}
	for _, c := range cases {
		t.Run(c.doc, func(t *testing.T) {
			got, err := ResolveMasterURL(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestResolveMasterURL_InvalidPrefix(t *testing.T) {
	_, err := ResolveMasterURL("cluster")
	require.Error(t, err)
	assert.Equal(t, errs.InvalidMasterURL, errs.KindOf(err))
}
