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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAppResource_ContainerLocal(t *testing.T) {
	r, err := ResolveAppResource("local:///opt/spark/examples/app.jar")
	require.NoError(t, err)
	assert.Equal(t, AppResourceContainerLocal, r.Kind)
	assert.Equal(t, "/opt/spark/examples/app.jar", r.Path)
}

func TestResolveAppResource_Remote(t *testing.T) {
	r, err := ResolveAppResource("hdfs://namenode/app.jar")
	require.NoError(t, err)
	assert.Equal(t, AppResourceRemote, r.Kind)
	assert.Equal(t, "hdfs://namenode/app.jar", r.URI)
}

func TestResolveAppResource_Uploaded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.jar")
	require.NoError(t, os.WriteFile(path, []byte("jar bytes"), 0o600))

	r, err := ResolveAppResource(path)
	require.NoError(t, err)
	assert.Equal(t, AppResourceUploaded, r.Kind)
	assert.Equal(t, "app.jar", r.Name)

	require.NotEmpty(t, r.BlobBase64)
	decoded, err := base64.StdEncoding.DecodeString(r.BlobBase64)
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", string(decoded))
}

func TestResolveAppResource_MissingFile(t *testing.T) {
	_, err := ResolveAppResource("/does/not/exist.jar")
	require.Error(t, err)
}

func TestSubmissionRequestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	mainJar := filepath.Join(dir, "main.jar")
	extraFile := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(mainJar, []byte("main"), 0o600))
	require.NoError(t, os.WriteFile(extraFile, []byte("a,b,c"), 0o600))

	builder := NewSubmissionRequestBuilder(TarGzPayloadEncoder{})
	req, err := builder.Build(mainJar, "com.example.Main", []string{"--x", "1"}, "token123",
		map[string]string{"spark.executor.memory": "2g"}, []string{extraFile}, nil)
	require.NoError(t, err)

	assert.Equal(t, AppResourceUploaded, req.AppResource.Kind)
	assert.Equal(t, "main.jar", req.AppResource.Name)
	assert.NotEmpty(t, req.AppResource.BlobBase64)
	assert.Equal(t, "token123", req.Secret)
	assert.Equal(t, []string{"--x", "1"}, req.AppArgs)
	assert.Equal(t, "2g", req.SparkProperties["spark.executor.memory"])
	assert.NotEmpty(t, req.FilesBlob)
	assert.Empty(t, req.JarsBlob)
}
