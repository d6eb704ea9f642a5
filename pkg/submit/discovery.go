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

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

// DiscoverEndpoints builds the non-empty set of candidate driver base
// URLs for the submission RPC (spec.md §4.6). In ingress mode it
// returns the single ingress-fronted URL. Otherwise it lists cluster
// nodes, drops unschedulable ones, and builds one URL per
// ExternalIP/LegacyHostIP address using the submission port's assigned
// NodePort.
func DiscoverEndpoints(ctx context.Context, client kubernetes.Interface, cfg Config, appID string, sslEnabled bool, submissionNodePort int32) ([]string, error) {
	scheme := "http"
	if sslEnabled {
		scheme = "https"
	}

	if cfg.IngressBasePath != "" {
		return []string{
			fmt.Sprintf("%s://%s/%s/%s", scheme, cfg.IngressBasePath, appID, SubmissionServerPathComponent),
		}, nil
	}

	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "DiscoverEndpoints", "list nodes", err)
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, node := range nodes.Items {
		if node.Spec.Unschedulable {
			continue
		}
		for _, addr := range node.Status.Addresses {
			if addr.Type != corev1.NodeExternalIP && addr.Type != corev1.NodeLegacyHostIP {
				continue
			}
			url := fmt.Sprintf("%s://%s:%d/%s/%s", scheme, addr.Address, submissionNodePort, appID, SubmissionServerPathComponent)
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}
	if len(urls) == 0 {
		return nil, errs.New(errs.NoReachableNodes, "DiscoverEndpoints", "no schedulable node exposed an external or legacy host address", nil)
	}
	return urls, nil
}
