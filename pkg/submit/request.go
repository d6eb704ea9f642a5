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
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spark-on-k8s/submit-client/pkg/submit/errs"
)

// AppResourceKind distinguishes the three shapes a main app resource
// URI can take (spec.md §4.7).
type AppResourceKind int

const (
	// AppResourceUploaded means the main resource lives on the
	// submitter's filesystem and must travel in the request payload.
	AppResourceUploaded AppResourceKind = iota
	// AppResourceContainerLocal means the main resource already exists
	// inside the driver container image; only the path is sent.
	AppResourceContainerLocal
	// AppResourceRemote means the main resource is fetched by the
	// driver itself from a remote URI (e.g. hdfs://, http://).
	AppResourceRemote
)

// AppResource is the resolved form of the user-supplied main app
// resource string (spec.md §4.7 step 1).
type AppResource struct {
	Kind AppResourceKind
	// Name is the base file name, set for AppResourceUploaded.
	Name string
	// BlobBase64 is the base64-encoded file content, set for
	// AppResourceUploaded.
	BlobBase64 string
	// Path is the in-container path, set for AppResourceContainerLocal.
	Path string
	// URI is the original URI, set for AppResourceRemote.
	URI string
}

// SubmissionRequest is the JSON record sent to the driver's submission
// RPC (spec.md §4.7 step 6).
type SubmissionRequest struct {
	AppResource AppResource       `json:"appResource"`
	MainClass   string            `json:"mainClass"`
	AppArgs     []string          `json:"appArgs"`
	Secret      string            `json:"secret"`
	SparkProperties map[string]string `json:"sparkProperties"`
	FilesBlob   string            `json:"uploadedFiles,omitempty"`
	JarsBlob    string            `json:"uploadedJars,omitempty"`
}

// ResolveAppResource classifies the main app resource URI per spec.md
// §4.7 step 1: a bare "file:" scheme (or no scheme, an absolute/relative
// local path) is Uploaded, "local:" is ContainerLocal, anything else
// with a recognized scheme is Remote. Per step 2, the Uploaded case
// reads the file bytes and base64-encodes them into the resource itself
// so the main app resource actually ships to the driver.
func ResolveAppResource(mainAppResource string) (AppResource, error) {
	u, err := url.Parse(mainAppResource)
	if err != nil {
		return AppResource{}, errs.New(errs.ValidationError, "ResolveAppResource", "parse main app resource URI", err)
	}

	switch u.Scheme {
	case "", "file":
		p := mainAppResource
		if u.Scheme == "file" {
			p = u.Path
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return AppResource{}, errs.New(errs.LocalFileMissing, "ResolveAppResource", fmt.Sprintf("main app resource %q does not exist", p), err)
		}
		return AppResource{
			Kind:       AppResourceUploaded,
			Name:       filepath.Base(p),
			BlobBase64: base64.StdEncoding.EncodeToString(data),
		}, nil
	case "local":
		return AppResource{Kind: AppResourceContainerLocal, Path: u.Path}, nil
	default:
		return AppResource{Kind: AppResourceRemote, URI: mainAppResource}, nil
	}
}

// SubmissionRequestBuilder assembles the SubmissionRequest payload,
// encoding local files/jars through a PayloadEncoder (spec.md §4.7
// steps 2-6). It is the C7 collaborator.
type SubmissionRequestBuilder struct {
	encoder PayloadEncoder
}

// NewSubmissionRequestBuilder returns a builder using enc to encode
// local file/jar blobs.
func NewSubmissionRequestBuilder(enc PayloadEncoder) *SubmissionRequestBuilder {
	return &SubmissionRequestBuilder{encoder: enc}
}

// Build resolves mainAppResource and produces the SubmissionRequest.
// Entries of localFiles/localJars that are local paths (no scheme or
// "file:") are tar+gzip+base64 encoded into FilesBlob/JarsBlob per
// spec.md §4.7 steps 2-5; entries with any other scheme are left out
// of the request.
func (b *SubmissionRequestBuilder) Build(mainAppResource, mainClass string, appArgs []string, secret string, sparkProperties map[string]string, localFiles, localJars []string) (*SubmissionRequest, error) {
	appResource, err := ResolveAppResource(mainAppResource)
	if err != nil {
		return nil, err
	}

	uploadedFiles, err := b.collectLocal(localFiles)
	if err != nil {
		return nil, err
	}
	uploadedJars, err := b.collectLocal(localJars)
	if err != nil {
		return nil, err
	}

	filesBlob, err := b.encoder.Encode(uploadedFiles)
	if err != nil {
		return nil, errs.New(errs.ValidationError, "SubmissionRequestBuilder.Build", "encode files payload", err)
	}
	jarsBlob, err := b.encoder.Encode(uploadedJars)
	if err != nil {
		return nil, errs.New(errs.ValidationError, "SubmissionRequestBuilder.Build", "encode jars payload", err)
	}

	return &SubmissionRequest{
		AppResource:     appResource,
		MainClass:       mainClass,
		AppArgs:         appArgs,
		Secret:          secret,
		SparkProperties: sparkProperties,
		FilesBlob:       filesBlob,
		JarsBlob:        jarsBlob,
	}, nil
}

// collectLocal returns the subset of the given paths/URIs that is local
// to the submitter's filesystem, skipping blank entries and entries
// with a non-"file" scheme (spec.md §4.7 step 5: only local entries are
// encoded into the payload).
func (b *SubmissionRequestBuilder) collectLocal(entries []string) ([]string, error) {
	var local []string
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, errs.New(errs.ValidationError, "SubmissionRequestBuilder.collectLocal", fmt.Sprintf("parse entry %q", raw), err)
		}
		if u.Scheme != "" && u.Scheme != "file" {
			continue
		}
		p := raw
		if u.Scheme == "file" {
			p = u.Path
		}
		if _, err := os.Stat(p); err != nil {
			return nil, errs.New(errs.LocalFileMissing, "SubmissionRequestBuilder.collectLocal", fmt.Sprintf("local file %q does not exist", p), err)
		}
		local = append(local, p)
	}
	return local, nil
}
