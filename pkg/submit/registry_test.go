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
	"context"
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
)

func TestResourceRegistry_IdempotentRegister(t *testing.T) {
	r := NewResourceRegistry(log.NewNopLogger())
	calls := 0
	del := func(context.Context) error { calls++; return nil }

	r.RegisterOrUpdate(KindSecret, "s1", del)
	r.RegisterOrUpdate(KindSecret, "s1", del)

	assert.Equal(t, 1, r.Len())
}

func TestResourceRegistry_DeleteAll_SwallowsErrors(t *testing.T) {
	r := NewResourceRegistry(log.NewNopLogger())
	var deleted []string
	r.RegisterOrUpdate(KindSecret, "ok", func(context.Context) error {
		deleted = append(deleted, "ok")
		return nil
	})
	r.RegisterOrUpdate(KindPod, "bad", func(context.Context) error {
		return errors.New("boom")
	})

	assert.NotPanics(t, func() {
		r.DeleteAll(context.Background())
	})
	assert.Contains(t, deleted, "ok")
	assert.Equal(t, 0, r.Len())
}

func TestResourceRegistry_Unregister(t *testing.T) {
	r := NewResourceRegistry(log.NewNopLogger())
	r.RegisterOrUpdate(KindService, "svc", func(context.Context) error { return nil })
	r.Unregister(KindService, "svc")
	assert.Equal(t, 0, r.Len())
}
