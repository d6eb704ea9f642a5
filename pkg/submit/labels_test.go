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

func TestParseLabels_Valid(t *testing.T) {
	got, err := ParseLabels("team=ads,tier=gold")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"team": "ads", "tier": "gold"}, got)
}

func TestParseLabels_Empty(t *testing.T) {
	got, err := ParseLabels("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseLabels_Malformed(t *testing.T) {
	_, err := ParseLabels("team=ads, tier=gold ,=,bad")
	require.Error(t, err)
	assert.Equal(t, errs.MalformedLabel, errs.KindOf(err))
}

func TestParseLabels_ReservedKey(t *testing.T) {
	_, err := ParseLabels("spark-app-selector=x")
	require.Error(t, err)
	assert.Equal(t, errs.ReservedLabel, errs.KindOf(err))
}

func TestParseLabels_RoundTrip(t *testing.T) {
	got, err := ParseLabels("a=1,b=2,c=3")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, got)
}
