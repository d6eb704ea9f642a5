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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

func TestHttpSubmissionRpc_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/submissions/ping", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rpc := NewHttpSubmissionRpc(NewHttpClientFactory(0), nil, 3, log.NewNopLogger())
	err := rpc.Ping(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestHttpSubmissionRpc_Ping_RetriesThenFails(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	rpc := NewHttpSubmissionRpc(NewHttpClientFactory(0), nil, 3, log.NewNopLogger())
	err := rpc.Ping(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, errs.SubmissionRPCError, errs.KindOf(err))
	assert.Equal(t, 3, attempts)
}

func TestHttpSubmissionRpc_SubmitApplication(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/submissions/create", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rpc := NewHttpSubmissionRpc(NewHttpClientFactory(0), nil, 1, log.NewNopLogger())
	err := rpc.SubmitApplication(context.Background(), server.URL, &SubmissionRequest{MainClass: "com.example.Main"})
	require.NoError(t, err)
}

func TestRetriesForExposure(t *testing.T) {
	assert.Equal(t, SubmissionClientRetriesIngress, RetriesForExposure(true))
	assert.Equal(t, SubmissionClientRetriesNodePort, RetriesForExposure(false))
}
