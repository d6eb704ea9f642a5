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
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ResourceKind identifies one of the Kubernetes object kinds the
// orchestrator provisions.
type ResourceKind string

const (
	KindSecret  ResourceKind = "Secret"
	KindService ResourceKind = "Service"
	KindPod     ResourceKind = "Pod"
	KindIngress ResourceKind = "Ingress"
)

// DeleteFunc issues a best-effort delete of one registered resource.
type DeleteFunc func(ctx context.Context) error

type resourceKey struct {
	kind ResourceKind
	name string
}

type registryEntry struct {
	kind   ResourceKind
	name   string
	delete DeleteFunc
}

// ResourceRegistry is the orchestrator's in-memory, thread-safe record
// of every resource it has created, scoped to a single invocation
// (spec.md §4.3). RegisterOrUpdate is idempotent; DeleteAll never
// returns an error, logging and swallowing individual delete failures.
type ResourceRegistry struct {
	logger log.Logger

	mu      sync.Mutex
	entries map[resourceKey]registryEntry
}

// NewResourceRegistry constructs an empty registry.
func NewResourceRegistry(logger log.Logger) *ResourceRegistry {
	return &ResourceRegistry{
		logger:  logger,
		entries: make(map[resourceKey]registryEntry),
	}
}

// RegisterOrUpdate records (or re-records) the resource identified by
// (kind, name), along with the function used to delete it.
func (r *ResourceRegistry) RegisterOrUpdate(kind ResourceKind, name string, del DeleteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[resourceKey{kind, name}] = registryEntry{kind: kind, name: name, delete: del}
}

// Unregister removes the entry for (kind, name) without deleting the
// underlying Kubernetes object; used to keep long-lived resources alive
// past a successful submission (spec.md Invariant 6).
func (r *ResourceRegistry) Unregister(kind ResourceKind, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, resourceKey{kind, name})
}

// Len reports the number of currently registered entries.
func (r *ResourceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// DeleteAll issues a best-effort delete for every entry still
// registered, clearing the registry first so a concurrent register
// cannot race with cleanup. Individual delete errors are logged and
// swallowed; DeleteAll itself never returns an error.
func (r *ResourceRegistry) DeleteAll(ctx context.Context) {
	r.mu.Lock()
	entries := make([]registryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.entries = make(map[resourceKey]registryEntry)
	r.mu.Unlock()

	for _, e := range entries {
		if err := e.delete(ctx); err != nil {
			_ = level.Warn(r.logger).Log("msg", "failed to delete resource during cleanup", "kind", e.kind, "name", e.name, "err", err)
		}
	}
}
