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
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
)

// Predicate decides whether an observed watch event on an object of
// type T satisfies readiness (spec.md §4.4).
type Predicate[T any] func(eventType watch.EventType, obj T) bool

// ReadinessWatcher is a generic one-shot readiness detector driven by a
// cluster watch stream: it resolves a single-assignment promise on the
// first event that satisfies its predicate, and never resolves again
// afterward (spec.md Testable Property 4, readiness monotonicity).
//
// The same shape as pkg/secrets/watch.go's secretWatcher: a mutex
// guards the resolved flag so at most one writer wins, regardless of
// which goroutine delivered the winning event.
type ReadinessWatcher[T any] struct {
	predicate Predicate[T]

	mu       sync.Mutex
	resolved bool
	value    T
	closeErr error
	done     chan struct{}
}

// NewReadinessWatcher constructs a watcher for the given predicate.
func NewReadinessWatcher[T any](p Predicate[T]) *ReadinessWatcher[T] {
	return &ReadinessWatcher[T]{
		predicate: p,
		done:      make(chan struct{}),
	}
}

// OnEvent delivers one watch event. If the promise is still unresolved
// and the predicate holds, the promise resolves with obj; subsequent
// calls are no-ops.
func (w *ReadinessWatcher[T]) OnEvent(eventType watch.EventType, obj T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resolved {
		return
	}
	if w.predicate(eventType, obj) {
		w.value = obj
		w.resolved = true
		close(w.done)
	}
}

// OnClose records the cause of the watch stream closing. It never
// resolves the promise.
func (w *ReadinessWatcher[T]) OnClose(cause error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resolved {
		return
	}
	w.closeErr = cause
}

// Await blocks until the promise resolves, the timeout elapses, or ctx
// is cancelled, whichever happens first. A timeout of zero or less
// disables the timeout entirely, leaving only ctx cancellation as the
// bound (spec.md §5: "the completion wait is unbounded by design").
func (w *ReadinessWatcher[T]) Await(ctx context.Context, timeout time.Duration) (T, error) {
	var zero T
	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}
	select {
	case <-w.done:
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.value, nil
	case <-timeoutC:
		return zero, fmt.Errorf("timed out after %s waiting for readiness", timeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// PumpWatch drains w's event stream into watcher for as long as ctx is
// live, converting each watch.Event's runtime.Object via convert.
// Objects convert rejects (ok == false, e.g. a Status from an Error
// event) are skipped. The underlying watch.Interface is stopped when
// the pump exits, on every path.
func PumpWatch[T any](ctx context.Context, w watch.Interface, watcher *ReadinessWatcher[T], convert func(runtime.Object) (T, bool), logger log.Logger) {
	go func() {
		defer w.Stop()
		for {
			select {
			case ev, ok := <-w.ResultChan():
				if !ok {
					watcher.OnClose(fmt.Errorf("watch channel closed"))
					return
				}
				if ev.Type == watch.Error {
					_ = level.Warn(logger).Log("msg", "watch error event", "object", fmt.Sprintf("%v", ev.Object))
					continue
				}
				obj, ok := convert(ev.Object)
				if !ok {
					continue
				}
				watcher.OnEvent(ev.Type, obj)
			case <-ctx.Done():
				watcher.OnClose(ctx.Err())
				return
			}
		}
	}()
}
