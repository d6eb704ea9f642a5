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
	"os"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

// State names the orchestrator's position in the provisioning protocol
// (spec.md §4.8.4). It is used for structured logging and as the
// phase-duration metric label; no code branches on it directly.
type State string

const (
	StateInit              State = "Init"
	StateValidated         State = "Validated"
	StateClientReady       State = "ClientReady"
	StateSecretCreated     State = "SecretCreated"
	StateSslReady          State = "SslReady"
	StateWatchersArmed     State = "WatchersArmed"
	StateComponentsCreated State = "ComponentsCreated"
	StateComponentsReady   State = "ComponentsReady"
	StateAdopted           State = "Adopted"
	StateSubmitted         State = "Submitted"
	StateServiceRewritten  State = "ServiceRewritten"
	StatePersisted         State = "Persisted"
	StateWaiting           State = "Waiting"
	StateDone              State = "Done"
	StateAborting          State = "Aborting"
	StateTerminated        State = "Terminated"
)

// TerminalPhase is the outcome handed back to the CLI layer for exit
// code mapping (spec.md §6): Succeeded maps to 0, anything else to
// non-zero.
type TerminalPhase string

const (
	TerminalSucceeded TerminalPhase = "Succeeded"
	TerminalFailed    TerminalPhase = "Failed"
	TerminalNone      TerminalPhase = ""
)

// Result is what Orchestrator.Run returns on success: whether the app
// was awaited to completion, and if so, its terminal phase.
type Result struct {
	AppID    string
	Waited   bool
	Terminal TerminalPhase
}

// SubmitInput bundles the per-invocation arguments the CLI layer
// collects (spec.md §6's positional CLI contract).
type SubmitInput struct {
	AppName           string
	MainAppResource   string
	MainClass         string
	AppArgs           []string
	LocalFiles        []string
	LocalJars         []string
	LaunchTime        time.Time
}

// Orchestrator drives the full provisioning protocol (spec.md §4.8):
// the C8 component and the dominant piece of this system.
type Orchestrator struct {
	cfg     Config
	client  kubernetes.Interface
	ssl     SslConfigurationProvider
	rpc     func(clientFactory *HttpClientFactory, ssl *SslBundle, retries int, logger log.Logger) SubmissionRpc
	encoder PayloadEncoder
	logger  log.Logger
	metrics *Metrics

	phaseStart time.Time
}

// NewOrchestrator builds an Orchestrator bound to an already-constructed
// Kubernetes client, config, and SSL collaborator. The SubmissionRpc
// it drives is always an HttpSubmissionRpc; tests in this package
// substitute a fake by replacing the unexported rpc field.
func NewOrchestrator(cfg Config, client kubernetes.Interface, ssl SslConfigurationProvider, encoder PayloadEncoder, logger log.Logger) *Orchestrator {
	if ssl == nil {
		ssl = DisabledSslProvider{}
	}
	if encoder == nil {
		encoder = TarGzPayloadEncoder{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Orchestrator{
		cfg:     cfg,
		client:  client,
		ssl:     ssl,
		encoder: encoder,
		logger:  logger,
		rpc: func(cf *HttpClientFactory, bundle *SslBundle, retries int, l log.Logger) SubmissionRpc {
			return NewHttpSubmissionRpc(cf, bundle, retries, l)
		},
	}
}

// WithMetrics attaches the Prometheus instruments Run updates as it
// moves through the provisioning protocol. A nil Orchestrator.metrics
// (the default) simply skips observation.
func (o *Orchestrator) WithMetrics(m *Metrics) *Orchestrator {
	o.metrics = m
	return o
}

func (o *Orchestrator) logState(s State, kv ...interface{}) {
	args := append([]interface{}{"msg", "orchestrator state transition", "state", s}, kv...)
	level.Info(o.logger).Log(args...)

	if o.metrics != nil && !o.phaseStart.IsZero() {
		o.metrics.PhaseDuration.WithLabelValues(string(s)).Observe(time.Since(o.phaseStart).Seconds())
	}
	o.phaseStart = time.Now()
}

// Run executes the full 17-phase protocol for one submission (spec.md
// §4.8.1) and guarantees registry.DeleteAll on every exit path.
func (o *Orchestrator) Run(ctx context.Context, in SubmitInput) (*Result, error) {
	o.logState(StateInit)

	// Phase 1: Validate.
	masterURL, err := ResolveMasterURL(o.cfg.Master)
	if err != nil {
		return nil, err
	}
	labels, err := ParseLabels(o.cfg.DriverLabels)
	if err != nil {
		return nil, err
	}
	if o.cfg.ExposeIngress && strings.TrimSpace(o.cfg.IngressBasePath) == "" {
		return nil, errs.New(errs.MissingIngressPath, "Validate", "expose-ingress is set but ingress-base-path is empty", nil)
	}
	if err := validateLocalFiles(in); err != nil {
		return nil, err
	}
	appID := DeriveAppID(in.AppName, in.LaunchTime)
	selectors := NewSelectors(in.AppName, appID, labels)
	o.logState(StateValidated, "app_id", appID, "master", masterURL)

	// Phase 2: Bootstrap client & registry. The client itself is
	// injected by the caller (spec.md §4.8.1 phase 2's "create API
	// client" is the k8sclient package's concern); here we only build
	// the per-invocation registry.
	registry := NewResourceRegistry(o.logger)
	o.logState(StateClientReady)

	// Every exit path runs DeleteAll; success paths unregister
	// long-lived resources first (phase 15) so only the secrets
	// remain to be cleaned here.
	defer registry.DeleteAll(ctx)

	factory := NewComponentFactory(o.cfg)

	// Phase 3: Create submission secret.
	secret, token, err := factory.CreateSecret(selectors, appID)
	if err != nil {
		return nil, err
	}
	created, err := o.client.CoreV1().Secrets(o.cfg.Namespace).Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "CreateSecret", "create submission secret", err)
	}
	secret = created
	registry.RegisterOrUpdate(KindSecret, secret.Name, o.deleteSecretFunc(secret.Name))
	o.logState(StateSecretCreated, "secret", secret.Name)

	// Phase 4: Request SSL bundle.
	sslBundle, err := o.ssl.Provide(ctx, appID, o.cfg.Namespace)
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "SslBundle", "request ssl bundle", err)
	}
	for _, s := range sslBundle.Secrets {
		createdSSL, err := o.client.CoreV1().Secrets(o.cfg.Namespace).Create(ctx, s, metav1.CreateOptions{})
		if err != nil {
			return nil, errs.New(errs.ClusterAPIError, "SslBundle", fmt.Sprintf("create ssl secret %s", s.Name), err)
		}
		registry.RegisterOrUpdate(KindSecret, createdSSL.Name, o.deleteSecretFunc(createdSSL.Name))
	}
	o.logState(StateSslReady, "ssl_enabled", sslBundle.Options.Enabled)

	// Phase 5: Start pod-phase logging watcher + podCompletedLatch.
	podCompleted := NewReadinessWatcher(PodTerminalPredicate())
	podPhaseWatch, err := o.client.CoreV1().Pods(o.cfg.Namespace).Watch(ctx, singleObjectListOptions(appID))
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "WatchPod", "start pod-phase watcher", err)
	}
	PumpWatch(ctx, podPhaseWatch, podCompleted, asPodObj, o.logger)
	if o.cfg.WaitForAppCompletion {
		go o.logPodPhasePeriodically(ctx, appID)
	}

	// Phase 6: Start readiness watchers.
	podReady := NewReadinessWatcher(PodReadyPredicate())
	podReadyWatch, err := o.client.CoreV1().Pods(o.cfg.Namespace).Watch(ctx, singleObjectListOptions(appID))
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "WatchPod", "start pod readiness watcher", err)
	}
	PumpWatch(ctx, podReadyWatch, podReady, asPodObj, o.logger)

	svcReady := NewReadinessWatcher(ServiceReadyPredicate())
	svcWatch, err := o.client.CoreV1().Services(o.cfg.Namespace).Watch(ctx, singleObjectListOptions(appID))
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "WatchService", "start service readiness watcher", err)
	}
	PumpWatch(ctx, svcWatch, svcReady, asServiceObj, o.logger)

	epReady := NewReadinessWatcher(EndpointsReadyPredicate())
	epWatch, err := o.client.CoreV1().Endpoints(o.cfg.Namespace).Watch(ctx, singleObjectListOptions(appID))
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "WatchEndpoints", "start endpoints readiness watcher", err)
	}
	PumpWatch(ctx, epWatch, epReady, asEndpointsObj, o.logger)

	var ingReady *ReadinessWatcher[*networkingv1.Ingress]
	if o.cfg.ExposeIngress {
		ingReady = NewReadinessWatcher(IngressReadyPredicate())
		ingWatch, err := o.client.NetworkingV1().Ingresses(o.cfg.Namespace).Watch(ctx, singleObjectListOptions(appID))
		if err != nil {
			return nil, errs.New(errs.ClusterAPIError, "WatchIngress", "start ingress readiness watcher", err)
		}
		PumpWatch(ctx, ingWatch, ingReady, asIngressObj, o.logger)
	}
	o.logState(StateWatchersArmed)

	// Phase 7: Create resources in order: Service -> Pod -> Ingress.
	svc := factory.CreateService(selectors, appID, o.cfg.ExposeIngress)
	createdSvc, err := o.client.CoreV1().Services(o.cfg.Namespace).Create(ctx, svc, metav1.CreateOptions{})
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "CreateService", "create driver service", err)
	}
	registry.RegisterOrUpdate(KindService, createdSvc.Name, o.deleteServiceFunc(createdSvc.Name))

	pod := factory.CreatePod(selectors, appID, secret.Name, sslBundle)
	createdPod, err := o.client.CoreV1().Pods(o.cfg.Namespace).Create(ctx, pod, metav1.CreateOptions{})
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "CreatePod", "create driver pod", err)
	}
	registry.RegisterOrUpdate(KindPod, createdPod.Name, o.deletePodFunc(createdPod.Name))

	var createdIngress *networkingv1.Ingress
	if o.cfg.ExposeIngress {
		ing := factory.CreateIngress(selectors, appID)
		createdIngress, err = o.client.NetworkingV1().Ingresses(o.cfg.Namespace).Create(ctx, ing, metav1.CreateOptions{})
		if err != nil {
			return nil, errs.New(errs.ClusterAPIError, "CreateIngress", "create driver ingress", err)
		}
		registry.RegisterOrUpdate(KindIngress, createdIngress.Name, o.deleteIngressFunc(createdIngress.Name))
	}
	o.logState(StateComponentsCreated, "pod", createdPod.Name, "service", createdSvc.Name)

	// Phase 8: Await readiness sequentially: Pod, Service, Endpoints, Ingress.
	readyPod, err := podReady.Await(ctx, o.cfg.DriverSubmitTimeout)
	if err != nil {
		return nil, o.diagnosePodTimeout(ctx, appID, o.cfg.DriverSubmitTimeout, err)
	}
	if _, err := svcReady.Await(ctx, o.cfg.DriverSubmitTimeout); err != nil {
		return nil, errs.New(errs.ServiceNotReady, "AwaitService", fmt.Sprintf("service %s was not ready in %s", createdSvc.Name, o.cfg.DriverSubmitTimeout), err)
	}
	if _, err := epReady.Await(ctx, o.cfg.DriverSubmitTimeout); err != nil {
		return nil, errs.New(errs.EndpointsNotReady, "AwaitEndpoints", fmt.Sprintf("endpoints for %s were not ready in %s", appID, o.cfg.DriverSubmitTimeout), err)
	}
	if ingReady != nil {
		if _, err := ingReady.Await(ctx, o.cfg.DriverSubmitTimeout); err != nil {
			return nil, errs.New(errs.IngressNotReady, "AwaitIngress", fmt.Sprintf("ingress %s was not ready in %s", createdIngress.Name, o.cfg.DriverSubmitTimeout), err)
		}
	}
	o.logState(StateComponentsReady, "pod_uid", readyPod.UID)

	// Phase 9: Owner adoption.
	owner := metav1.NewControllerRef(readyPod, corev1.SchemeGroupVersion.WithKind("Pod"))
	if err := o.adoptSecret(ctx, secret.Name, *owner, registry); err != nil {
		return nil, err
	}
	for _, s := range sslBundle.Secrets {
		if err := o.adoptSecret(ctx, s.Name, *owner, registry); err != nil {
			return nil, err
		}
	}
	if err := o.adoptService(ctx, createdSvc.Name, *owner, registry); err != nil {
		return nil, err
	}
	if createdIngress != nil {
		if err := o.adoptIngress(ctx, createdIngress.Name, *owner, registry); err != nil {
			return nil, err
		}
	}
	o.logState(StateAdopted)

	// Phase 10: Discover endpoints.
	urls, err := DiscoverEndpoints(ctx, o.client, o.cfg, appID, sslBundle.Options.Enabled, submissionNodePort(createdSvc))
	if err != nil {
		return nil, err
	}

	// Phase 11: Build RPC client.
	clientFactory := NewHttpClientFactory(DefaultConnectTimeout)
	retries := RetriesForExposure(o.cfg.ExposeIngress)
	rpc := o.rpc(clientFactory, sslBundle, retries, o.logger)

	// Phase 12: Sanity check.
	var pingErr error
	for _, u := range urls {
		if pingErr = rpc.Ping(ctx, u); pingErr == nil {
			break
		}
	}
	if pingErr != nil {
		return nil, errs.New(errs.SubmissionRPCError, "Ping", "no endpoint answered ping", pingErr)
	}

	// Phase 13: Submit.
	builder := NewSubmissionRequestBuilder(o.encoder)
	req, err := builder.Build(in.MainAppResource, in.MainClass, in.AppArgs, token, o.cfg.Properties, in.LocalFiles, in.LocalJars)
	if err != nil {
		return nil, err
	}
	var submitErr error
	for _, u := range urls {
		if submitErr = rpc.SubmitApplication(ctx, u, req); submitErr == nil {
			break
		}
	}
	if submitErr != nil {
		return nil, errs.New(errs.SubmissionRPCError, "SubmitApplication", "no endpoint accepted submission", submitErr)
	}
	o.logState(StateSubmitted, "app_id", appID)

	// Phase 14: Rewrite Service to ClusterIP/UI-only.
	current, err := o.client.CoreV1().Services(o.cfg.Namespace).Get(ctx, createdSvc.Name, metav1.GetOptions{})
	if err != nil {
		return nil, errs.New(errs.ClusterAPIError, "RewriteService", "fetch service before rewrite", err)
	}
	rewritten := factory.RewriteServiceToClusterIP(current)
	if _, err := o.client.CoreV1().Services(o.cfg.Namespace).Update(ctx, rewritten, metav1.UpdateOptions{}); err != nil {
		return nil, errs.New(errs.ClusterAPIError, "RewriteService", "update service to clusterIP form", err)
	}
	o.logState(StateServiceRewritten)

	// Phase 15: Persist long-lived resources.
	registry.Unregister(KindPod, createdPod.Name)
	registry.Unregister(KindService, createdSvc.Name)
	if createdIngress != nil {
		registry.Unregister(KindIngress, createdIngress.Name)
	}
	o.logState(StatePersisted, "app_id", appID)

	result := &Result{AppID: appID}

	// Phase 16: Optionally wait for completion.
	if o.cfg.WaitForAppCompletion {
		o.logState(StateWaiting)
		finalPod, err := podCompleted.Await(ctx, 0)
		if err != nil {
			// An unbounded wait passed timeout=0; treat as
			// cooperative cancellation only.
			return nil, errs.New(errs.ClusterAPIError, "AwaitCompletion", "wait for pod completion", err)
		}
		result.Waited = true
		if finalPod.Status.Phase == corev1.PodSucceeded {
			result.Terminal = TerminalSucceeded
		} else {
			result.Terminal = TerminalFailed
		}
	}

	o.logState(StateDone, "app_id", appID)
	// Phase 17 (Finalize / registry.deleteAll) runs via the deferred
	// call above on every path, including this one.
	return result, nil
}

func validateLocalFiles(in SubmitInput) error {
	check := func(p string) error {
		info, err := os.Stat(p)
		if err != nil {
			return errs.New(errs.LocalFileMissing, "Validate", fmt.Sprintf("local file %q does not exist", p), err)
		}
		if !info.Mode().IsRegular() {
			return errs.New(errs.LocalFileMissing, "Validate", fmt.Sprintf("local file %q is not a regular file", p), nil)
		}
		return nil
	}
	for _, f := range in.LocalFiles {
		if err := check(f); err != nil {
			return err
		}
	}
	for _, j := range in.LocalJars {
		if err := check(j); err != nil {
			return err
		}
	}
	if strings.HasPrefix(in.MainAppResource, "file://") || !strings.Contains(in.MainAppResource, "://") {
		p := strings.TrimPrefix(in.MainAppResource, "file://")
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}

func singleObjectListOptions(name string) metav1.ListOptions {
	return metav1.ListOptions{
		FieldSelector: "metadata.name=" + name,
	}
}

func submissionNodePort(svc *corev1.Service) int32 {
	for _, p := range svc.Spec.Ports {
		if p.Name == SubmissionServerPortName {
			return p.NodePort
		}
	}
	return 0
}

func asPodObj(obj runtime.Object) (*corev1.Pod, bool)       { return asPod(obj) }
func asServiceObj(obj runtime.Object) (*corev1.Service, bool) { return asService(obj) }
func asEndpointsObj(obj runtime.Object) (*corev1.Endpoints, bool) { return asEndpoints(obj) }
func asIngressObj(obj runtime.Object) (*networkingv1.Ingress, bool) { return asIngress(obj) }

func (o *Orchestrator) logPodPhasePeriodically(ctx context.Context, name string) {
	interval := o.cfg.ReportInterval
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pod, err := o.client.CoreV1().Pods(o.cfg.Namespace).Get(ctx, name, metav1.GetOptions{})
			if err != nil {
				continue
			}
			level.Info(o.logger).Log("msg", "driver pod phase", "pod", name, "phase", pod.Status.Phase)
			if pod.Status.Phase == corev1.PodSucceeded || pod.Status.Phase == corev1.PodFailed {
				return
			}
		}
	}
}

// diagnosePodTimeout implements spec.md §4.8.3: on Pod readiness
// timeout, fetch the Pod's current state and report phase, message,
// and the driver container's last state.
func (o *Orchestrator) diagnosePodTimeout(ctx context.Context, appID string, timeout time.Duration, cause error) error {
	pod, err := o.client.CoreV1().Pods(o.cfg.Namespace).Get(ctx, appID, metav1.GetOptions{})
	if err != nil {
		return errs.New(errs.DiagnosticFetchFailed, "DiagnosePodTimeout", "fetch pod state for diagnostics", cause)
	}

	phase := "The pod had no final phase."
	if pod.Status.Phase != "" {
		phase = string(pod.Status.Phase)
	}
	message := "no final message"
	if pod.Status.Message != "" {
		message = pod.Status.Message
	}
	containerState := "container wasn't found in pod"
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Name != DriverContainerName {
			continue
		}
		containerState = describeContainerState(cs.State)
	}

	msg := fmt.Sprintf(
		"pod %s in namespace %s was not ready in %d seconds\nlatest phase: %s\nlatest message: %s\ndriver container state: %s",
		appID, o.cfg.Namespace, int(timeout.Seconds()), phase, message, containerState,
	)
	return errs.New(errs.PodNotReady, "AwaitPod", msg, cause)
}

func describeContainerState(s corev1.ContainerState) string {
	switch {
	case s.Running != nil:
		return fmt.Sprintf("Running(startedAt=%s)", s.Running.StartedAt)
	case s.Waiting != nil:
		return fmt.Sprintf("Waiting(reason=%s, message=%s)", s.Waiting.Reason, s.Waiting.Message)
	case s.Terminated != nil:
		return fmt.Sprintf("Terminated(reason=%s, message=%s, exitCode=%d, finishedAt=%s)",
			s.Terminated.Reason, s.Terminated.Message, s.Terminated.ExitCode, s.Terminated.FinishedAt)
	default:
		return "container wasn't found in pod"
	}
}

func (o *Orchestrator) deleteSecretFunc(name string) DeleteFunc {
	return func(ctx context.Context) error {
		return ignoreNotFound(o.client.CoreV1().Secrets(o.cfg.Namespace).Delete(ctx, name, metav1.DeleteOptions{}))
	}
}

func (o *Orchestrator) deleteServiceFunc(name string) DeleteFunc {
	return func(ctx context.Context) error {
		return ignoreNotFound(o.client.CoreV1().Services(o.cfg.Namespace).Delete(ctx, name, metav1.DeleteOptions{}))
	}
}

func (o *Orchestrator) deletePodFunc(name string) DeleteFunc {
	return func(ctx context.Context) error {
		return ignoreNotFound(o.client.CoreV1().Pods(o.cfg.Namespace).Delete(ctx, name, metav1.DeleteOptions{}))
	}
}

func (o *Orchestrator) deleteIngressFunc(name string) DeleteFunc {
	return func(ctx context.Context) error {
		return ignoreNotFound(o.client.NetworkingV1().Ingresses(o.cfg.Namespace).Delete(ctx, name, metav1.DeleteOptions{}))
	}
}

func ignoreNotFound(err error) error {
	if apierrors.IsNotFound(err) {
		return nil
	}
	return err
}

func (o *Orchestrator) adoptSecret(ctx context.Context, name string, owner metav1.OwnerReference, registry *ResourceRegistry) error {
	s, err := o.client.CoreV1().Secrets(o.cfg.Namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return errs.New(errs.ClusterAPIError, "AdoptSecret", fmt.Sprintf("fetch secret %s for adoption", name), err)
	}
	s.OwnerReferences = append(s.OwnerReferences, owner)
	if _, err := o.client.CoreV1().Secrets(o.cfg.Namespace).Update(ctx, s, metav1.UpdateOptions{}); err != nil {
		return errs.New(errs.ClusterAPIError, "AdoptSecret", fmt.Sprintf("patch owner reference onto secret %s", name), err)
	}
	registry.RegisterOrUpdate(KindSecret, name, o.deleteSecretFunc(name))
	return nil
}

func (o *Orchestrator) adoptService(ctx context.Context, name string, owner metav1.OwnerReference, registry *ResourceRegistry) error {
	s, err := o.client.CoreV1().Services(o.cfg.Namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return errs.New(errs.ClusterAPIError, "AdoptService", fmt.Sprintf("fetch service %s for adoption", name), err)
	}
	s.OwnerReferences = append(s.OwnerReferences, owner)
	if _, err := o.client.CoreV1().Services(o.cfg.Namespace).Update(ctx, s, metav1.UpdateOptions{}); err != nil {
		return errs.New(errs.ClusterAPIError, "AdoptService", fmt.Sprintf("patch owner reference onto service %s", name), err)
	}
	registry.RegisterOrUpdate(KindService, name, o.deleteServiceFunc(name))
	return nil
}

func (o *Orchestrator) adoptIngress(ctx context.Context, name string, owner metav1.OwnerReference, registry *ResourceRegistry) error {
	i, err := o.client.NetworkingV1().Ingresses(o.cfg.Namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return errs.New(errs.ClusterAPIError, "AdoptIngress", fmt.Sprintf("fetch ingress %s for adoption", name), err)
	}
	i.OwnerReferences = append(i.OwnerReferences, owner)
	if _, err := o.client.NetworkingV1().Ingresses(o.cfg.Namespace).Update(ctx, i, metav1.UpdateOptions{}); err != nil {
		return errs.New(errs.ClusterAPIError, "AdoptIngress", fmt.Sprintf("patch owner reference onto ingress %s", name), err)
	}
	registry.RegisterOrUpdate(KindIngress, name, o.deleteIngressFunc(name))
	return nil
}

// ExitCode maps a Result to the process exit code per spec.md §6: 0 on
// success or on launch without waiting; when waited, Succeeded maps to
// 0 and any other terminal phase to 1.
func ExitCode(res *Result, err error) int {
	if err != nil {
		return 1
	}
	if res == nil || !res.Waited {
		return 0
	}
	if res.Terminal == TerminalSucceeded {
		return 0
	}
	return 1
}
