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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAppID(t *testing.T) {
	launch := time.UnixMilli(1700000000123).UTC()
	id := DeriveAppID("My.App", launch)
	assert.Equal(t, "my-app-1700000000123", id)
}

func TestNewSelectors(t *testing.T) {
	sel := NewSelectors("myapp", "myapp-123", map[string]string{"team": "ads"})
	assert.Equal(t, "driver", sel[SelectorKeyRole])
	assert.Equal(t, "myapp-123", sel[ReservedAppIDLabelKey])
	assert.Equal(t, "myapp", sel[SelectorKeyAppName])
	assert.Equal(t, "ads", sel["team"])
}
