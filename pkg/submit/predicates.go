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
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
)

func isAddOrModify(t watch.EventType) bool {
	return t == watch.Added || t == watch.Modified
}

// PodReadyPredicate implements spec.md §4.4's Pod row: Added/Modified,
// phase Running, and the driver container reporting ready.
func PodReadyPredicate() Predicate[*corev1.Pod] {
	return func(t watch.EventType, pod *corev1.Pod) bool {
		if !isAddOrModify(t) {
			return false
		}
		if pod.Status.Phase != corev1.PodRunning {
			return false
		}
		for _, cs := range pod.Status.ContainerStatuses {
			if cs.Name == DriverContainerName && cs.Ready {
				return true
			}
		}
		return false
	}
}

// PodTerminalPredicate resolves once the Pod reaches a terminal phase,
// driving the pod-completed latch (spec.md §4.8.1 phase 5).
func PodTerminalPredicate() Predicate[*corev1.Pod] {
	return func(_ watch.EventType, pod *corev1.Pod) bool {
		return pod.Status.Phase == corev1.PodSucceeded || pod.Status.Phase == corev1.PodFailed
	}
}

// ServiceReadyPredicate implements spec.md §4.4's Service row: any
// Added or Modified event.
func ServiceReadyPredicate() Predicate[*corev1.Service] {
	return func(t watch.EventType, _ *corev1.Service) bool {
		return isAddOrModify(t)
	}
}

// EndpointsReadyPredicate implements the corrected form of spec.md
// §4.4's Endpoints row, resolving the operator-precedence ambiguity
// flagged in §9: resolve iff the event is Added or Modified AND at
// least one subset carries a non-empty address list.
func EndpointsReadyPredicate() Predicate[*corev1.Endpoints] {
	return func(t watch.EventType, ep *corev1.Endpoints) bool {
		if !isAddOrModify(t) {
			return false
		}
		for _, subset := range ep.Subsets {
			if len(subset.Addresses) > 0 {
				return true
			}
		}
		return false
	}
}

// IngressReadyPredicate implements spec.md §4.4's Ingress row:
// Added/Modified with a non-empty load-balancer ingress list.
func IngressReadyPredicate() Predicate[*networkingv1.Ingress] {
	return func(t watch.EventType, ing *networkingv1.Ingress) bool {
		if !isAddOrModify(t) {
			return false
		}
		return len(ing.Status.LoadBalancer.Ingress) > 0
	}
}

func asPod(obj runtime.Object) (*corev1.Pod, bool) {
	p, ok := obj.(*corev1.Pod)
	return p, ok
}

func asService(obj runtime.Object) (*corev1.Service, bool) {
	s, ok := obj.(*corev1.Service)
	return s, ok
}

func asEndpoints(obj runtime.Object) (*corev1.Endpoints, bool) {
	e, ok := obj.(*corev1.Endpoints)
	return e, ok
}

func asIngress(obj runtime.Object) (*networkingv1.Ingress, bool) {
	i, ok := obj.(*networkingv1.Ingress)
	return i, ok
}
