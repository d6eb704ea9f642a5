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

// Package errs defines the typed error kinds the submission client raises,
// each carrying the phase it occurred in and the original cause.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the error categories the orchestrator can surface.
type Kind string

const (
	InvalidMasterURL     Kind = "InvalidMasterUrl"
	MalformedLabel       Kind = "MalformedLabel"
	ReservedLabel        Kind = "ReservedLabel"
	MissingIngressPath   Kind = "MissingIngressBasePath"
	LocalFileMissing     Kind = "LocalFileMissing"
	PodNotReady          Kind = "PodNotReady"
	ServiceNotReady      Kind = "ServiceNotReady"
	EndpointsNotReady    Kind = "EndpointsNotReady"
	IngressNotReady      Kind = "IngressNotReady"
	DiagnosticFetchFailed Kind = "DiagnosticFetchFailed"
	NoReachableNodes     Kind = "NoReachableNodes"
	SubmissionRPCError   Kind = "SubmissionRpcError"
	ClusterAPIError      Kind = "ClusterApiError"
	ValidationError      Kind = "ValidationError"
)

// Error is the error type raised by every component of the submission
// client. Phase records where in the provisioning protocol the failure
// occurred; Cause is the original error, if any.
type Error struct {
	Kind    Kind
	Phase   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (phase=%s): %s: %v", e.Kind, e.Phase, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (phase=%s): %s", e.Kind, e.Phase, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error for the given kind and phase. A non-nil cause is
// wrapped with errors.WithStack so the original call site survives in
// the error chain even when the cause itself carries no stack trace.
func New(kind Kind, phase, message string, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Phase: phase, Message: message, Cause: cause}
}

// Is allows errors.Is(err, errs.New(kind, "", "", nil)) style matching by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, and the
// empty Kind otherwise.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if v, ok := err.(*Error); ok {
			e = v
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return ""
	}
	return e.Kind
}
