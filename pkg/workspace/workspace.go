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

// Package workspace allocates scoped temp paths for the artifacts a
// processor is asked to produce.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// TempPath is a single-owner temp file path. The backing file (if any) is
// unlinked by Remove; ownership moves with the value, and whoever consumes
// the path last is responsible for removing it.
type TempPath struct {
	path string
	once sync.Once
}

// NewTempPath allocates a fresh path under the system temp directory.
// The file itself is not created; the owner materializes it.
func NewTempPath() *TempPath {
	return &TempPath{path: filepath.Join(os.TempDir(), uuid.NewString())}
}

// Spool copies the reader into a fresh temp file and returns its path.
func Spool(r io.Reader) (*TempPath, error) {
	tp := NewTempPath()
	file, err := os.Create(tp.path)
	if err != nil {
		return nil, fmt.Errorf("creating spool file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 1<<20)
	if _, err := io.CopyBuffer(file, r, buf); err != nil {
		tp.Remove()
		return nil, fmt.Errorf("spooling: %w", err)
	}
	return tp, nil
}

// Path returns the filesystem path.
func (p *TempPath) Path() string { return p.path }

func (p *TempPath) String() string { return p.path }

// Remove unlinks the backing file. Safe to call more than once and on paths
// that were never materialized.
func (p *TempPath) Remove() {
	p.once.Do(func() {
		os.Remove(p.path)
	})
}

// Workspace holds one artifact path per requested kind. Paths for kinds that
// were not requested are nil.
type Workspace struct {
	TextPath     *TempPath
	MetadataPath *TempPath
	PdfPath      *TempPath
}

// New allocates one temp path per requested artifact kind. Each flag reports
// whether that kind was requested; the workspace itself stays ignorant of
// the kind enum so it can live below the processing packages.
func New(text, metadata, pdf bool) *Workspace {
	w := &Workspace{}
	if text {
		w.TextPath = NewTempPath()
	}
	if metadata {
		w.MetadataPath = NewTempPath()
	}
	if pdf {
		w.PdfPath = NewTempPath()
	}
	return w
}

// Close removes every path still owned by the workspace. Paths handed off to
// outputs should be detached first via the corresponding Take method.
func (w *Workspace) Close() {
	for _, p := range []*TempPath{w.TextPath, w.MetadataPath, w.PdfPath} {
		if p != nil {
			p.Remove()
		}
	}
}

// TakeText detaches the text path from the workspace, transferring ownership
// to the caller. Returns nil if text was not requested or already taken.
func (w *Workspace) TakeText() *TempPath {
	p := w.TextPath
	w.TextPath = nil
	return p
}

// TakeMetadata detaches the metadata path from the workspace.
func (w *Workspace) TakeMetadata() *TempPath {
	p := w.MetadataPath
	w.MetadataPath = nil
	return p
}

// TakePdf detaches the pdf path from the workspace.
func (w *Workspace) TakePdf() *TempPath {
	p := w.PdfPath
	w.PdfPath = nil
	return p
}
