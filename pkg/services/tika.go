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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/everyday-items/toolkit/lang/syncx"

	"github.com/biewers2/processing-go/pkg/streaming"
)

// Tika is the client for the content-analysis service. It speaks the Tika
// server protocol: bare HTTP PUTs with the file bytes as the request body.
//
// Every request sets X-Tika-Skip-Embedded, because embedded-file discovery
// is this pipeline's own job.
type Tika struct {
	base   string
	client *http.Client
}

var tikaInstance = syncx.NewLazy(func() *Tika {
	return NewTika(GetConfig().TikaURL())
})

// GetTika returns the process-wide analysis service client.
func GetTika() *Tika {
	return tikaInstance.Get()
}

// NewTika returns a client against the given base URL. Used directly by
// tests; production code goes through GetTika.
func NewTika(base string) *Tika {
	return &Tika{
		base:   strings.TrimSuffix(base, "/"),
		client: &http.Client{},
	}
}

// Text extracts the plain text of the content.
//
// The response body streams back as a ByteStream; the returned pump drives
// the HTTP exchange and completes when the response has been fully consumed.
func (t *Tika) Text(ctx context.Context, content io.Reader) (streaming.ByteStream, streaming.Pump, error) {
	resp, err := t.put(ctx, "/tika", "text/plain", content)
	if err != nil {
		return nil, nil, err
	}

	stream, pump := streaming.ReadToStream(resp.Body)
	pumping := func(ctx context.Context) error {
		defer resp.Body.Close()
		return pump(ctx)
	}
	return stream, pumping, nil
}

// Metadata extracts the content's metadata as a JSON document.
func (t *Tika) Metadata(ctx context.Context, content io.Reader) (string, error) {
	resp, err := t.put(ctx, "/meta", "application/json", content)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading metadata response: %w", err)
	}
	return string(body), nil
}

// Detect asks the service for the content's MIME type.
func (t *Tika) Detect(ctx context.Context, content io.Reader) (string, error) {
	resp, err := t.put(ctx, "/meta/Content-Type", "application/json", content)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var fields map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return "", fmt.Errorf("decoding detect response: %w", err)
	}
	mimetype, ok := fields["Content-Type"]
	if !ok {
		return "", fmt.Errorf("unexpected detect response: no Content-Type")
	}
	return mimetype, nil
}

func (t *Tika) put(ctx context.Context, path, accept string, content io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.base+path, content)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Tika-Skip-Embedded", "true")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling analysis service %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("analysis service %s returned status %d", path, resp.StatusCode)
	}
	return resp, nil
}
