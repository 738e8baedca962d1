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

// Package archivebuild serializes the output forest into a single ZIP
// archive whose paths encode the containment chain.
package archivebuild

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/biewers2/processing-go/pkg/workspace"
)

// EntryChannelCapacity bounds the number of archive entries in flight.
const EntryChannelCapacity = 100

// Entry is one file to serialize. Its archive path is join(IDChain)/Name.
type Entry struct {
	Name    string
	Path    *workspace.TempPath
	IDChain []string
}

// ArchivePath returns the path of the entry inside the archive.
func (e Entry) ArchivePath() string {
	parts := make([]string, 0, len(e.IDChain)+1)
	parts = append(parts, e.IDChain...)
	parts = append(parts, e.Name)
	return strings.Join(parts, "/")
}

// Builder writes entries into an anonymous temp file as a ZIP stream.
//
// Entries are appended in the order received; directory components are
// implicit. Two entries colliding on the same archive path resolve
// first-write-wins, with a warning for the loser.
type Builder struct {
	file   *os.File
	zipper *zip.Writer
	seen   map[string]struct{}
}

// NewBuilder opens an anonymous temp file as a ZIP writer.
func NewBuilder() (*Builder, error) {
	file, err := os.CreateTemp("", "archive-*.zip")
	if err != nil {
		return nil, fmt.Errorf("creating archive file: %w", err)
	}
	// Unlink immediately; the handle keeps the archive alive until the
	// caller is done with it.
	os.Remove(file.Name())

	return &Builder{
		file:   file,
		zipper: zip.NewWriter(file),
		seen:   make(map[string]struct{}),
	}, nil
}

// Append streams one entry's temp file into the archive and removes it.
func (b *Builder) Append(entry Entry) error {
	defer entry.Path.Remove()

	path := entry.ArchivePath()
	if _, dup := b.seen[path]; dup {
		slog.Warn("skipping duplicate archive entry", "path", path)
		return nil
	}
	b.seen[path] = struct{}{}

	w, err := b.zipper.Create(path)
	if err != nil {
		return fmt.Errorf("starting archive entry %s: %w", path, err)
	}

	file, err := os.Open(entry.Path.Path())
	if err != nil {
		return fmt.Errorf("opening entry file for %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 1<<20)
	if _, err := io.CopyBuffer(w, file, buf); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", path, err)
	}
	return nil
}

// Build finalizes the ZIP and rewinds the file for reading.
func (b *Builder) Build() (*os.File, error) {
	if err := b.zipper.Close(); err != nil {
		b.file.Close()
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		b.file.Close()
		return nil, fmt.Errorf("rewinding archive: %w", err)
	}
	return b.file, nil
}

// BuildFrom drains the entry channel into a fresh archive and returns the
// finalized file. The channel closing is the termination signal.
//
// On an append failure the remaining entries are still drained so their
// temp files are reclaimed and producers are never blocked.
func BuildFrom(entries <-chan Entry) (*os.File, error) {
	builder, err := NewBuilder()
	if err != nil {
		for entry := range entries {
			entry.Path.Remove()
		}
		return nil, err
	}

	var appendErr error
	for entry := range entries {
		if appendErr != nil {
			entry.Path.Remove()
			continue
		}
		appendErr = builder.Append(entry)
	}
	if appendErr != nil {
		builder.file.Close()
		return nil, appendErr
	}
	return builder.Build()
}
