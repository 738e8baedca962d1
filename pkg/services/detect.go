// Copyright 2026 The processing-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
)

// fallbackMimetype is returned when neither sniffing nor the analysis
// service can name the content.
const fallbackMimetype = "application/octet-stream"

// magic signatures for container and mail formats, checked in order before
// the generic sniffer. http.DetectContentType knows neither mbox nor the
// empty-archive ZIP signature, and names gzip application/x-gzip.
var magicSignatures = []struct {
	prefix   []byte
	mimetype string
}{
	{[]byte("PK\x03\x04"), "application/zip"},
	{[]byte("PK\x05\x06"), "application/zip"},
	{[]byte("From "), "application/mbox"},
	{[]byte("%PDF-"), "application/pdf"},
	{[]byte("\x1f\x8b"), "application/gzip"},
}

// DetectFile identifies the MIME type of a file, preferring magic-byte
// sniffing and falling back to the analysis service's detector when the
// sniff is inconclusive. When the service is unreachable the xdg-mime
// helper is the detector of last resort. It only errors when every
// detector fails.
func DetectFile(ctx context.Context, path string) (string, error) {
	if mimetype, ok := sniffFile(path); ok {
		return mimetype, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for detection: %w", path, err)
	}
	defer file.Close()

	mimetype, tikaErr := GetTika().Detect(ctx, file)
	if tikaErr == nil {
		return mimetype, nil
	}

	mimetype, xdgErr := GetXdgMime().QueryFiletype(ctx, path)
	if xdgErr == nil {
		return mimetype, nil
	}
	return "", fmt.Errorf("detecting mimetype of %s: %w (xdg-mime: %v)", path, tikaErr, xdgErr)
}

// sniffFile inspects the file's leading bytes. ok is false when the sniff is
// inconclusive (generic octet-stream) and a smarter detector should decide.
func sniffFile(path string) (string, bool) {
	file, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if n == 0 && err != nil {
		return "", false
	}
	head = head[:n]

	for _, sig := range magicSignatures {
		if bytes.HasPrefix(head, sig.prefix) {
			return sig.mimetype, true
		}
	}

	sniffed := http.DetectContentType(head)
	mimetype, _, err := mime.ParseMediaType(sniffed)
	if err != nil || mimetype == fallbackMimetype {
		return "", false
	}
	return mimetype, true
}
