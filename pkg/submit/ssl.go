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
	"crypto/tls"
	"crypto/x509"

	corev1 "k8s.io/api/core/v1"
)

// SslOptions reports whether TLS is enabled between the submission
// client and the driver, and which URL scheme follows from that.
type SslOptions struct {
	Enabled bool
	Scheme  string
}

// SslBundle is the opaque record supplied by the SSL collaborator
// (spec.md §3). The core never inspects its contents beyond Options;
// Secrets/Volumes/VolumeMounts/Env are spliced verbatim into the
// provisioned objects, and the client contexts are handed to the RPC
// HttpClientFactory.
type SslBundle struct {
	Options SslOptions

	Secrets      []*corev1.Secret
	Volumes      []corev1.Volume
	VolumeMounts []corev1.VolumeMount
	Env          []corev1.EnvVar

	ClientSocketCtx *tls.Config
	ClientTrustCtx  *x509.CertPool
}

// SslConfigurationProvider is the external collaborator referenced by
// spec.md §1: it supplies cert/key/trust-store material, produces the
// driver-side pod additions, and the client-side socket/trust contexts.
// The core treats it as an opaque producer and never generates TLS
// material itself.
type SslConfigurationProvider interface {
	Provide(ctx context.Context, appID string, namespace string) (*SslBundle, error)
}

// DisabledSslProvider is the default SslConfigurationProvider: it
// produces no driver-side SSL material and reports SSL as disabled,
// matching an unauthenticated-channel deployment. Real deployments
// supply their own provider (spec.md's SslConfigurationProvider
// collaborator) that generates certificates the way
// pkg/operator/certificate.go drives a Kubernetes CSR.
type DisabledSslProvider struct{}

func (DisabledSslProvider) Provide(context.Context, string, string) (*SslBundle, error) {
	return &SslBundle{Options: SslOptions{Enabled: false, Scheme: "http"}}, nil
}
