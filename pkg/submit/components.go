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
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"path"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// ComponentFactory builds Pod/Service/Ingress/Secret specs from inputs.
// Every builder here is a pure function: no I/O, no cluster calls
// (spec.md §4.5).
type ComponentFactory struct {
	cfg Config
}

// NewComponentFactory returns a factory bound to the given Config
// (image, service account, ports).
func NewComponentFactory(cfg Config) *ComponentFactory {
	return &ComponentFactory{cfg: cfg}
}

// CreateSecret builds the one-time submission secret: 128 random bytes,
// base64-encoded, stored under SubmissionAppSecretKey (spec.md
// Invariant 2). It returns the Secret and the raw token value so the
// orchestrator can hand the same token to the SubmissionRequestBuilder.
func (f *ComponentFactory) CreateSecret(selectors Selectors, appID string) (*corev1.Secret, string, error) {
	raw := make([]byte, 128)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("generate submission secret: %w", err)
	}
	token := base64.StdEncoding.EncodeToString(raw)

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:   SubmissionSecretNamePrefix + appID,
			Labels: selectors,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			SubmissionAppSecretKey: []byte(token),
		},
	}
	return secret, token, nil
}

// CreateService builds the driver Service: NodePort in NodePort mode,
// ClusterIP in ingress mode, fronting the single submission-server port
// (spec.md §4.5).
func (f *ComponentFactory) CreateService(selectors Selectors, appID string, ingressMode bool) *corev1.Service {
	svcType := corev1.ServiceTypeNodePort
	if ingressMode {
		svcType = corev1.ServiceTypeClusterIP
	}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appID,
			Labels: selectors,
		},
		Spec: corev1.ServiceSpec{
			Type:     svcType,
			Selector: selectors,
			Ports: []corev1.ServicePort{
				{
					Name:       SubmissionServerPortName,
					Port:       int32(f.cfg.SubmissionServerPort),
					TargetPort: intstr.FromInt(f.cfg.SubmissionServerPort),
				},
			},
		},
	}
}

// RewriteServiceToClusterIP transforms svc into its post-submission
// ClusterIP/UI-only form (spec.md §4.5), discarding the submission
// port. The input is not mutated.
func (f *ComponentFactory) RewriteServiceToClusterIP(svc *corev1.Service) *corev1.Service {
	out := svc.DeepCopy()
	out.Spec.Type = corev1.ServiceTypeClusterIP
	out.Spec.Ports = []corev1.ServicePort{
		{
			Name:       UIPortName,
			Port:       int32(f.cfg.UIPort),
			TargetPort: intstr.FromInt(f.cfg.UIPort),
		},
	}
	return out
}

// CreatePod builds the driver Pod: submission-secret volume mounted
// read-only under DriverContainerSecretsBaseDir/<AppId>, plus every
// SSL volume/mount/env the SSL collaborator supplied, and an HTTP(S)
// readiness probe against the submission server's ping endpoint
// (spec.md §4.5).
func (f *ComponentFactory) CreatePod(selectors Selectors, appID, secretName string, ssl *SslBundle) *corev1.Pod {
	scheme := corev1.URISchemeHTTP
	if ssl != nil && ssl.Options.Enabled {
		scheme = corev1.URISchemeHTTPS
	}

	volumes := []corev1.Volume{
		{
			Name: "submission-secret",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: secretName},
			},
		},
	}
	mounts := []corev1.VolumeMount{
		{
			Name:      "submission-secret",
			MountPath: path.Join(DriverContainerSecretsBaseDir, appID),
			ReadOnly:  true,
		},
	}
	env := []corev1.EnvVar{
		{Name: EnvSubmissionSecretLocation, Value: path.Join(DriverContainerSecretsBaseDir, appID)},
		{Name: EnvSubmissionServerPort, Value: fmt.Sprintf("%d", f.cfg.SubmissionServerPort)},
		{Name: EnvSubmissionServerBasePath, Value: "/" + appID},
	}
	if ssl != nil {
		volumes = append(volumes, ssl.Volumes...)
		mounts = append(mounts, ssl.VolumeMounts...)
		env = append(env, ssl.Env...)
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appID,
			Labels: selectors,
		},
		Spec: corev1.PodSpec{
			RestartPolicy:      corev1.RestartPolicyOnFailure,
			ServiceAccountName: f.cfg.ServiceAccount,
			Volumes:            volumes,
			Containers: []corev1.Container{
				{
					Name:            DriverContainerName,
					Image:           f.cfg.DriverDockerImage,
					ImagePullPolicy: corev1.PullIfNotPresent,
					VolumeMounts:    mounts,
					Env:             env,
					Ports: []corev1.ContainerPort{
						{Name: "driver-rpc-port", ContainerPort: int32(f.cfg.DriverPort)},
						{Name: "blockmanager", ContainerPort: int32(f.cfg.BlockManagerPort)},
						{Name: SubmissionServerPortName, ContainerPort: int32(f.cfg.SubmissionServerPort)},
						{Name: UIPortName, ContainerPort: int32(f.cfg.UIPort)},
					},
					ReadinessProbe: &corev1.Probe{
						ProbeHandler: corev1.ProbeHandler{
							HTTPGet: &corev1.HTTPGetAction{
								Path:   fmt.Sprintf("/%s/%s/v1/submissions/ping", appID, SubmissionServerPathComponent),
								Port:   intstr.FromString(SubmissionServerPortName),
								Scheme: scheme,
							},
						},
					},
				},
			},
		},
	}
}

// CreateIngress builds the optional Ingress routing external HTTP to
// the submission and UI ports (spec.md §4.5). Callers must only call
// this when ingress mode is enabled (spec.md Invariant 4).
func (f *ComponentFactory) CreateIngress(selectors Selectors, appID string) *networkingv1.Ingress {
	pathType := networkingv1.PathTypeImplementationSpecific
	return &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appID,
			Labels: selectors,
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{
				{
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     fmt.Sprintf("/%s/%s", appID, SubmissionServerPathComponent),
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: appID,
											Port: networkingv1.ServiceBackendPort{Name: SubmissionServerPortName},
										},
									},
								},
								{
									Path:     fmt.Sprintf("/%s/%s", appID, UIPathComponent),
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: appID,
											Port: networkingv1.ServiceBackendPort{Name: UIPortName},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
