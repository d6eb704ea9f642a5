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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spark-on-k8s/submit-client/pkg/submit"
	"github.com/spark-on-k8s/submit-client/pkg/submit/appid"
	"github.com/spark-on-k8s/submit-client/pkg/submit/k8sclient"
)

type options struct {
	cfg            submit.Config
	logLevel       string
	kubeconfig     string
	metricsAddr    string
	mainAppResource string
	mainClass      string
	appArgs        []string
	localFiles     string
	localJars      string
	conf           []string
}

func main() {
	opts := &options{cfg: submit.DefaultConfig()}

	a := kingpin.New("spark-submit", "Submits a Spark application to a Kubernetes cluster.")
	a.HelpFlag.Short('h')
	setupFlags(a, opts)

	kingpin.MustParse(a.Parse(os.Args[1:]))
	for _, kv := range opts.conf {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "ignoring malformed --conf value %q, expected key=value\n", kv)
			continue
		}
		opts.cfg.Properties[k] = v
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	logger = level.NewFilter(logger, levelOption(opts.logLevel))

	correlationID := appid.NewCorrelationID()
	logger = log.With(logger, "correlation_id", correlationID)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := submit.NewMetrics(reg)

	masterURL, err := submit.ResolveMasterURL(opts.cfg.Master)
	if err != nil {
		level.Error(logger).Log("msg", "resolve master URL", "err", err)
		os.Exit(1)
	}

	clients, err := k8sclient.New(k8sclient.Options{
		MasterURL:      masterURL,
		KubeconfigPath: opts.kubeconfig,
		Namespace:      opts.cfg.Namespace,
		CAFile:         opts.cfg.CACertFile,
		CertFile:       opts.cfg.ClientCertFile,
		KeyFile:        opts.cfg.ClientKeyFile,
	})
	if err != nil {
		level.Error(logger).Log("msg", "build kubernetes client", "err", err)
		os.Exit(1)
	}

	orch := submit.NewOrchestrator(opts.cfg, clients.Typed, submit.DisabledSslProvider{}, submit.TarGzPayloadEncoder{}, logger).WithMetrics(metrics)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		term := make(chan os.Signal, 1)
		cancelCh := make(chan struct{})
		signal.Notify(term, os.Interrupt, syscall.SIGTERM)
		g.Add(func() error {
			select {
			case <-term:
				level.Info(logger).Log("msg", "received termination signal, cancelling submission")
			case <-cancelCh:
			}
			return nil
		}, func(err error) {
			cancel()
			close(cancelCh)
		})
	}
	if opts.metricsAddr != "" {
		server := &http.Server{Addr: opts.metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		g.Add(func() error {
			return server.ListenAndServe()
		}, func(err error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		})
	}

	var result *submit.Result
	var runErr error
	g.Add(func() error {
		result, runErr = orch.Run(ctx, submit.SubmitInput{
			AppName:         deriveAppName(opts.mainClass),
			MainAppResource: opts.mainAppResource,
			MainClass:       opts.mainClass,
			AppArgs:         opts.appArgs,
			LocalFiles:      splitCSV(opts.localFiles),
			LocalJars:       splitCSV(opts.localJars),
			LaunchTime:      time.Now(),
		})
		return runErr
	}, func(err error) {
		cancel()
	})

	if err := g.Run(); err != nil {
		level.Error(logger).Log("msg", "submission run group exited with error", "err", err)
	}

	code := submit.ExitCode(result, runErr)
	if runErr != nil {
		metrics.SubmissionTotal.WithLabelValues("error").Inc()
		level.Error(logger).Log("msg", "submission failed", "err", runErr)
	} else {
		metrics.SubmissionTotal.WithLabelValues(strings.ToLower(string(result.Terminal))).Inc()
		level.Info(logger).Log("msg", "submission finished", "app_id", result.AppID, "waited", result.Waited, "terminal", result.Terminal)
	}
	os.Exit(code)
}

func setupFlags(a *kingpin.Application, opts *options) {
	a.Flag("log.level", "The level of logging. One of 'debug', 'info', 'warn', 'error'.").
		Default("info").EnumVar(&opts.logLevel, "debug", "info", "warn", "error")

	a.Flag("kubeconfig", "Path to a kubeconfig file; when empty, the in-cluster config is used.").
		StringVar(&opts.kubeconfig)

	a.Flag("metrics.listen-address", "Address to serve Prometheus metrics on; empty disables the server.").
		StringVar(&opts.metricsAddr)

	a.Flag("namespace", "Kubernetes namespace to provision the driver into.").
		Default(opts.cfg.Namespace).StringVar(&opts.cfg.Namespace)

	a.Flag("master", "Kubernetes API master URL, prefixed with k8s://.").
		Required().StringVar(&opts.cfg.Master)

	a.Flag("driver-docker-image", "Container image to run as the driver.").
		Required().StringVar(&opts.cfg.DriverDockerImage)

	a.Flag("service-account", "Service account the driver pod runs as.").
		StringVar(&opts.cfg.ServiceAccount)

	a.Flag("driver-labels", "Comma-separated k=v custom labels applied to every created object.").
		StringVar(&opts.cfg.DriverLabels)

	a.Flag("ui-port", "Driver Spark UI port.").
		Default(fmt.Sprintf("%d", opts.cfg.UIPort)).IntVar(&opts.cfg.UIPort)

	a.Flag("driver-port", "Driver RPC port.").
		Default(fmt.Sprintf("%d", opts.cfg.DriverPort)).IntVar(&opts.cfg.DriverPort)

	a.Flag("blockmanager-port", "Driver block-manager port.").
		Default(fmt.Sprintf("%d", opts.cfg.BlockManagerPort)).IntVar(&opts.cfg.BlockManagerPort)

	a.Flag("ca-cert-file", "CA certificate file for the Kubernetes API client.").
		StringVar(&opts.cfg.CACertFile)

	a.Flag("client-key-file", "Client key file for the Kubernetes API client.").
		StringVar(&opts.cfg.ClientKeyFile)

	a.Flag("client-cert-file", "Client certificate file for the Kubernetes API client.").
		StringVar(&opts.cfg.ClientCertFile)

	var submitTimeoutSecs int
	a.Flag("driver-submit-timeout-secs", "Timeout, in seconds, for each readiness wait.").
		Default(fmt.Sprintf("%d", int(opts.cfg.DriverSubmitTimeout/time.Second))).
		Action(func(*kingpin.ParseContext) error {
			opts.cfg.DriverSubmitTimeout = time.Duration(submitTimeoutSecs) * time.Second
			return nil
		}).
		IntVar(&submitTimeoutSecs)

	a.Flag("expose-ingress", "Expose the driver through an Ingress instead of NodePort.").
		BoolVar(&opts.cfg.ExposeIngress)

	a.Flag("ingress-base-path", "Base host/path the Ingress is reachable at; required when --expose-ingress is set.").
		StringVar(&opts.cfg.IngressBasePath)

	a.Flag("wait-for-app-completion", "Block until the driver pod reaches a terminal phase.").
		BoolVar(&opts.cfg.WaitForAppCompletion)

	a.Flag("report-interval", "How often to log the driver pod's phase while waiting for completion.").
		Default(opts.cfg.ReportInterval.String()).DurationVar(&opts.cfg.ReportInterval)

	a.Flag("files", "Comma-separated list of local files to ship alongside the application.").
		StringVar(&opts.localFiles)

	a.Flag("jars", "Comma-separated list of local jars to ship alongside the application.").
		StringVar(&opts.localJars)

	a.Flag("conf", "Arbitrary key=value properties forwarded verbatim; may be repeated.").
		StringsVar(&opts.conf)

	a.Arg("main-app-resource", "Path or URI to the application's main resource (jar/py file).").
		Required().StringVar(&opts.mainAppResource)
	a.Arg("main-class", "Fully qualified name of the application's main class.").
		Required().StringVar(&opts.mainClass)
	a.Arg("app-arg", "Arguments passed through to the application.").
		StringsVar(&opts.appArgs)
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func deriveAppName(mainClass string) string {
	idx := strings.LastIndex(mainClass, ".")
	if idx < 0 {
		return strings.ToLower(mainClass)
	}
	return strings.ToLower(mainClass[idx+1:])
}
