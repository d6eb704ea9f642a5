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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

func TestDiscoverEndpoints_NodePort(t *testing.T) {
	client := fake.NewSimpleClientset(
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "schedulable"},
			Status: corev1.NodeStatus{
				Addresses: []corev1.NodeAddress{{Type: corev1.NodeExternalIP, Address: "203.0.113.7"}},
			},
		},
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "unschedulable"},
			Spec:       corev1.NodeSpec{Unschedulable: true},
			Status: corev1.NodeStatus{
				Addresses: []corev1.NodeAddress{{Type: corev1.NodeExternalIP, Address: "203.0.113.99"}},
			},
		},
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "internal-only"},
			Status: corev1.NodeStatus{
				Addresses: []corev1.NodeAddress{{Type: corev1.NodeInternalIP, Address: "10.0.0.5"}},
			},
		},
	)

	urls, err := DiscoverEndpoints(context.Background(), client, Config{}, "myapp-1", false, 31000)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://203.0.113.7:31000/myapp-1/submit"}, urls)
}

func TestDiscoverEndpoints_Ingress(t *testing.T) {
	cfg := Config{IngressBasePath: "edge.example/spark"}
	urls, err := DiscoverEndpoints(context.Background(), fake.NewSimpleClientset(), cfg, "myapp-1", true, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://edge.example/spark/myapp-1/submit"}, urls)
}

func TestDiscoverEndpoints_NoReachableNodes(t *testing.T) {
	_, err := DiscoverEndpoints(context.Background(), fake.NewSimpleClientset(), Config{}, "myapp-1", false, 31000)
	require.Error(t, err)
	assert.Equal(t, errs.NoReachableNodes, errs.KindOf(err))
}
