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

package workspace

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSpool_RoundTrip(t *testing.T) {
	content := "spooled content"

	tp, err := Spool(strings.NewReader(content))
	if err != nil {
		t.Fatalf("spool failed: %v", err)
	}
	defer tp.Remove()

	got, err := os.ReadFile(tp.Path())
	if err != nil {
		t.Fatalf("reading spooled file: %v", err)
	}
	if !bytes.Equal([]byte(content), got) {
		t.Fatalf("unexpected spooled content: %q", got)
	}
}

func TestTempPath_RemoveIsIdempotent(t *testing.T) {
	tp, err := Spool(strings.NewReader("x"))
	if err != nil {
		t.Fatalf("spool failed: %v", err)
	}

	tp.Remove()
	tp.Remove()

	if _, err := os.Stat(tp.Path()); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err: %v", err)
	}
}

func TestTempPath_RemoveUnmaterialized(t *testing.T) {
	tp := NewTempPath()
	// The file was never created; Remove must not blow up.
	tp.Remove()
}

func TestWorkspace_AllocatesPerKind(t *testing.T) {
	w := New(true, false, true)
	defer w.Close()

	if w.TextPath == nil {
		t.Fatal("text path should be allocated")
	}
	if w.MetadataPath != nil {
		t.Fatal("metadata path should not be allocated")
	}
	if w.PdfPath == nil {
		t.Fatal("pdf path should be allocated")
	}
	if w.TextPath.Path() == w.PdfPath.Path() {
		t.Fatal("paths must be distinct")
	}
}

func TestWorkspace_TakeTransfersOwnership(t *testing.T) {
	w := New(true, true, true)

	text := w.TakeText()
	if text == nil {
		t.Fatal("take should return the allocated path")
	}
	if w.TextPath != nil {
		t.Fatal("take should detach the path from the workspace")
	}
	if err := os.WriteFile(text.Path(), []byte("artifact"), 0o644); err != nil {
		t.Fatalf("materializing taken path: %v", err)
	}

	// Closing the workspace must not touch the taken path.
	w.Close()
	if _, err := os.Stat(text.Path()); err != nil {
		t.Fatalf("taken path should survive workspace close: %v", err)
	}
	text.Remove()
}
