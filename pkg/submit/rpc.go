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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

// SubmissionRpc is the wire-level collaborator the orchestrator drives
// to reach the driver's submission server: a liveness probe and the
// actual submission call (spec.md §4.6/§4.8.1 phases 12-13).
type SubmissionRpc interface {
	Ping(ctx context.Context, baseURL string) error
	SubmitApplication(ctx context.Context, baseURL string, req *SubmissionRequest) error
}

// HttpClientFactory builds the *http.Client used to reach a driver
// endpoint, splicing in the SSL client contexts when SSL is enabled
// (spec.md §1's HttpClientFactory collaborator).
type HttpClientFactory struct {
	ConnectTimeout time.Duration
}

// NewHttpClientFactory returns a factory using DefaultConnectTimeout
// when timeout is zero.
func NewHttpClientFactory(timeout time.Duration) *HttpClientFactory {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &HttpClientFactory{ConnectTimeout: timeout}
}

// Create returns an *http.Client built on go-cleanhttp's pooled
// transport, optionally wrapped with the SSL bundle's client socket
// and trust contexts.
func (f *HttpClientFactory) Create(ssl *SslBundle) *http.Client {
	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSHandshakeTimeout = f.ConnectTimeout

	if ssl != nil && ssl.Options.Enabled {
		tlsCfg := &tls.Config{}
		if ssl.ClientSocketCtx != nil {
			tlsCfg = ssl.ClientSocketCtx.Clone()
		}
		if ssl.ClientTrustCtx != nil {
			tlsCfg.RootCAs = ssl.ClientTrustCtx
		}
		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.ConnectTimeout,
	}
}

// HttpSubmissionRpc implements SubmissionRpc over plain HTTP(S),
// retrying each candidate base URL a bounded number of times per
// spec.md §4.6 (SubmissionClientRetriesIngress/NodePort).
type HttpSubmissionRpc struct {
	clientFactory *HttpClientFactory
	ssl           *SslBundle
	retries       int
	logger        log.Logger
}

// NewHttpSubmissionRpc returns an HttpSubmissionRpc that performs
// retries attempts per call against the driver's submission server,
// using clientFactory to build the underlying transport.
func NewHttpSubmissionRpc(clientFactory *HttpClientFactory, ssl *SslBundle, retries int, logger log.Logger) *HttpSubmissionRpc {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &HttpSubmissionRpc{clientFactory: clientFactory, ssl: ssl, retries: retries, logger: logger}
}

// Ping issues a GET against the submission server's ping endpoint,
// retrying on failure up to the configured retry budget.
func (r *HttpSubmissionRpc) Ping(ctx context.Context, baseURL string) error {
	client := r.clientFactory.Create(r.ssl)
	url := fmt.Sprintf("%s/v1/submissions/ping", baseURL)

	return r.withRetries(ctx, "Ping", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ping %s: unexpected status %d", url, resp.StatusCode)
		}
		return nil
	})
}

// SubmitApplication POSTs the SubmissionRequest as JSON to the
// driver's submission server, retrying on failure up to the configured
// retry budget.
func (r *HttpSubmissionRpc) SubmitApplication(ctx context.Context, baseURL string, req *SubmissionRequest) error {
	client := r.clientFactory.Create(r.ssl)
	url := fmt.Sprintf("%s/v1/submissions/create", baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return errs.New(errs.ValidationError, "SubmitApplication", "marshal submission request", err)
	}

	return r.withRetries(ctx, "SubmitApplication", func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("submit %s: unexpected status %d", url, resp.StatusCode)
		}
		return nil
	})
}

func (r *HttpSubmissionRpc) withRetries(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	attempts := r.retries
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return errs.New(errs.SubmissionRPCError, op, "context cancelled", err)
		}
		if err := fn(); err != nil {
			lastErr = err
			level.Debug(r.logger).Log("msg", "submission rpc attempt failed", "op", op, "attempt", i+1, "err", err)
			continue
		}
		return nil
	}
	return errs.New(errs.SubmissionRPCError, op, fmt.Sprintf("exhausted %d attempts", attempts), lastErr)
}

// RetriesForExposure returns the retry budget for the given exposure
// mode, per spec.md §4.6: ingress endpoints get more retries than
// NodePort endpoints since ingress-fronted DNS/LB may need to converge.
func RetriesForExposure(ingressMode bool) int {
	if ingressMode {
		return SubmissionClientRetriesIngress
	}
	return SubmissionClientRetriesNodePort
}
