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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/watch"
)

func runningReadyPod() *corev1.Pod {
	return &corev1.Pod{
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: DriverContainerName, Ready: true},
			},
		},
	}
}

func TestReadinessWatcher_ResolvesOnce(t *testing.T) {
	w := NewReadinessWatcher(PodReadyPredicate())

	notReady := &corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodPending}}
	w.OnEvent(watch.Modified, notReady)

	ready := runningReadyPod()
	w.OnEvent(watch.Modified, ready)

	// A later event must not change the resolved value (Testable
	// Property 4: readiness monotonicity).
	other := runningReadyPod()
	other.Status.ContainerStatuses[0].Ready = false
	w.OnEvent(watch.Modified, other)

	got, err := w.Await(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Same(t, ready, got)
}

func TestReadinessWatcher_TimesOut(t *testing.T) {
	w := NewReadinessWatcher(PodReadyPredicate())
	_, err := w.Await(context.Background(), 10*time.Millisecond)
	assert.Error(t, err)
}

func TestReadinessWatcher_UnboundedWhenTimeoutZero(t *testing.T) {
	w := NewReadinessWatcher(PodTerminalPredicate())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_, _ = w.Await(ctx, 0)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Await returned before cancellation or resolution")
	case <-time.After(30 * time.Millisecond):
	}
	cancel()
	<-done
}

func TestPodReadyPredicate(t *testing.T) {
	p := PodReadyPredicate()

	notReady := &corev1.Pod{
		Status: corev1.PodStatus{
			Phase:             corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{{Name: DriverContainerName, Ready: false}},
		},
	}
	assert.False(t, p(watch.Modified, notReady))

	ready := runningReadyPod()
	assert.True(t, p(watch.Modified, ready))
	assert.False(t, p(watch.Deleted, ready))
}

func TestEndpointsReadyPredicate(t *testing.T) {
	p := EndpointsReadyPredicate()

	empty := &corev1.Endpoints{Subsets: []corev1.EndpointSubset{{Addresses: nil}}}
	assert.False(t, p(watch.Added, empty))

	nonEmpty := &corev1.Endpoints{Subsets: []corev1.EndpointSubset{{Addresses: []corev1.EndpointAddress{{IP: "10.0.0.1"}}}}}
	assert.True(t, p(watch.Added, nonEmpty))
	assert.False(t, p(watch.Deleted, nonEmpty))
}
