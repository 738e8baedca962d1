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
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestSniffFile_MagicSignatures(t *testing.T) {
	cases := []struct {
		name     string
		content  []byte
		expected string
	}{
		{"zip", []byte("PK\x03\x04rest-of-archive"), "application/zip"},
		{"mbox", []byte("From sender@example.com Thu Jan  1 00:00:00 1970\n"), "application/mbox"},
		{"pdf", []byte("%PDF-1.7 content"), "application/pdf"},
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, "application/gzip"},
		{"html", []byte("<html><body>hi</body></html>"), "text/html"},
	}

	for _, tc := range cases {
		path := writeTemp(t, tc.name, tc.content)
		got, ok := sniffFile(path)
		if !ok {
			t.Fatalf("%s: sniff was inconclusive", tc.name)
		}
		if got != tc.expected {
			t.Fatalf("%s: unexpected mimetype: got %q want %q", tc.name, got, tc.expected)
		}
	}
}

func TestSniffFile_InconclusiveOnOpaqueBytes(t *testing.T) {
	path := writeTemp(t, "opaque", []byte{0x01, 0x02, 0x03, 0x04, 0x05})
	if mimetype, ok := sniffFile(path); ok {
		t.Fatalf("opaque bytes should be inconclusive, got %q", mimetype)
	}
}
