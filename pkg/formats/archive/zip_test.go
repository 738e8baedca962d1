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

package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/biewers2/processing-go/pkg/fingerprint"
	"github.com/biewers2/processing-go/pkg/process"
)

func writeFixture(t *testing.T, build func(w *zip.Writer)) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.zip")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer file.Close()

	w := zip.NewWriter(file)
	build(w)
	if err := w.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}
	return path
}

func runProcessor(t *testing.T, path string) []process.Result {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, outputs := process.NewSink()
	sink.Acquire()
	sink.CloseWhenIdle()

	pctx := process.NewContext("application/zip", nil, sink)

	errs := make(chan error, 1)
	go func() {
		defer sink.Release()
		errs <- New().Process(ctx, pctx, process.FileInput(path))
	}()

	var results []process.Result
	for res := range outputs {
		if res.Err == nil {
			if embedded, ok := res.Output.(process.Embedded); ok {
				embedded.Sink.Release()
				t.Cleanup(embedded.Data.Path.Remove)
			}
		}
		results = append(results, res)
	}
	if err := <-errs; err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	return results
}

func TestProcess_EmitsEachMember(t *testing.T) {
	path := writeFixture(t, func(w *zip.Writer) {
		a, _ := w.Create("docs/a.txt")
		a.Write([]byte("alpha"))
		b, _ := w.Create("b.txt")
		b.Write([]byte("bravo"))
	})

	results := runProcessor(t, path)
	if len(results) != 2 {
		t.Fatalf("unexpected output count: %d", len(results))
	}

	byName := map[string]process.Embedded{}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected error result: %v", res.Err)
		}
		embedded := res.Output.(process.Embedded)
		byName[embedded.Data.Name] = embedded
	}

	// Member names are flattened to their basename; the chain keeps
	// entries apart.
	a, ok := byName["a.txt"]
	if !ok {
		t.Fatalf("member a.txt missing: %v", byName)
	}
	wantFp, err := fingerprint.FromBytes([]byte("alpha"), a.Data.Mimetype)
	if err != nil {
		t.Fatal(err)
	}
	if a.Data.Fingerprint != wantFp {
		t.Fatalf("fingerprint must be recomputable from member bytes: got %s want %s", a.Data.Fingerprint, wantFp)
	}
	if len(a.State.IDChain) != 0 {
		t.Fatalf("first-level members carry the parent chain: %v", a.State.IDChain)
	}
}

func TestProcess_SkipsDirectories(t *testing.T) {
	path := writeFixture(t, func(w *zip.Writer) {
		w.Create("nested/")
		f, _ := w.Create("nested/file.txt")
		f.Write([]byte("content"))
	})

	results := runProcessor(t, path)
	if len(results) != 1 {
		t.Fatalf("directories must not be emitted: %d outputs", len(results))
	}
	embedded := results[0].Output.(process.Embedded)
	if embedded.Data.Name != "file.txt" {
		t.Fatalf("unexpected member name: %q", embedded.Data.Name)
	}
}

func TestProcess_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a.zip")
	if err := os.WriteFile(path, []byte("plain bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink, _ := process.NewSink()
	pctx := process.NewContext("application/zip", nil, sink)

	err := New().Process(ctx, pctx, process.FileInput(path))
	if err == nil {
		t.Fatal("a non-zip input must fail to open")
	}
}
