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
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PayloadEncoder compresses a set of local file paths into an opaque
// blob (spec.md §1: "a pure function paths -> blob"). The core treats
// it as an external collaborator; TarGzPayloadEncoder is the concrete
// implementation this repo ships.
type PayloadEncoder interface {
	Encode(paths []string) (string, error)
}

// TarGzPayloadEncoder implements PayloadEncoder as a tar+gzip archive,
// base64-encoded, matching the blob shape spec.md §4.7 names
// ("two tar+gzip base64 blobs").
type TarGzPayloadEncoder struct{}

func (TarGzPayloadEncoder) Encode(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, p := range paths {
		if err := addFileToTar(tw, p); err != nil {
			return "", fmt.Errorf("encode payload file %s: %w", p, err)
		}
	}
	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("close tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("close gzip writer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func addFileToTar(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(path)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
