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

// Package k8sclient builds the Kubernetes API clients the submission
// client drives against the resolved master URL.
package k8sclient

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"

	// Register auth plugins so kubeconfigs using exec/OIDC/cloud
	// provider credential plugins keep working.
	_ "k8s.io/client-go/plugin/pkg/client/auth"
)

// Options configures how the REST config is built: either the resolved
// master URL alone (in-cluster-style, relying on the default service
// account token) or a full kubeconfig with optional mTLS material.
type Options struct {
	MasterURL      string
	KubeconfigPath string
	Namespace      string

	CAFile   string
	CertFile string
	KeyFile  string
}

// Clients bundles the typed clientset and the controller-runtime
// client the rest of the submission client is built against (spec.md
// §1 names both "the Kubernetes API" and typed resource helpers).
type Clients struct {
	Typed   kubernetes.Interface
	Runtime client.Client
	Config  *rest.Config
}

// New builds a Clients from opts. When KubeconfigPath is empty it
// tries the in-cluster config first, falling back to the default
// client-cmd loading rules, matching the resolution order clusters
// expect from a workload running both inside and outside the cluster.
func New(opts Options) (*Clients, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}

	typed, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build typed clientset: %w", err)
	}

	mapper, err := apiutil.NewDynamicRESTMapper(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("build REST mapper: %w", err)
	}
	rtClient, err := client.New(cfg, client.Options{Mapper: mapper})
	if err != nil {
		return nil, fmt.Errorf("build controller-runtime client: %w", err)
	}

	return &Clients{Typed: typed, Runtime: rtClient, Config: cfg}, nil
}

func loadConfig(opts Options) (*rest.Config, error) {
	if opts.KubeconfigPath == "" {
		cfg, err := rest.InClusterConfig()
		if err == nil {
			applyOverrides(cfg, opts)
			return cfg, nil
		}
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = opts.KubeconfigPath

	overrides := &clientcmd.ConfigOverrides{}
	if opts.MasterURL != "" {
		overrides.ClusterInfo.Server = opts.MasterURL
	}

	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, opts)
	return cfg, nil
}

func applyOverrides(cfg *rest.Config, opts Options) {
	if opts.MasterURL != "" {
		cfg.Host = opts.MasterURL
	}
	if opts.CAFile != "" {
		cfg.TLSClientConfig.CAFile = opts.CAFile
	}
	if opts.CertFile != "" {
		cfg.TLSClientConfig.CertFile = opts.CertFile
	}
	if opts.KeyFile != "" {
		cfg.TLSClientConfig.KeyFile = opts.KeyFile
	}
}
