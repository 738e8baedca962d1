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

// Package archive discovers the members of a ZIP container and emits each
// one as an embedded file.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/biewers2/processing-go/pkg/fingerprint"
	"github.com/biewers2/processing-go/pkg/process"
	"github.com/biewers2/processing-go/pkg/services"
	"github.com/biewers2/processing-go/pkg/workspace"
)

const fallbackMimetype = "application/octet-stream"

// Processor walks a ZIP archive in member-index order. Each regular member
// is spooled to a temp file, MIME-sniffed, fingerprinted, and emitted as an
// embedded output; directories are skipped. A failure on one member is
// logged and does not abort the rest of the archive.
type Processor struct{}

// New returns the ZIP processor.
func New() *Processor {
	return &Processor{}
}

// Name implements process.Processor.
func (p *Processor) Name() string { return "zip" }

// Process implements process.Processor. The input must be adaptable to a
// file path because ZIP reading is random access.
func (p *Processor) Process(ctx context.Context, pctx process.Context, input process.Input) error {
	inputPath, cleanup, err := input.Path(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	reader, err := zip.OpenReader(inputPath)
	if err != nil {
		return &process.ParseError{Format: "zip", Err: err}
	}
	defer reader.Close()

	slog.Info("processing zip archive", "members", len(reader.File), "id_chain", pctx.State.IDChain)

	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			slog.Debug("skipping directory member", "name", member.Name)
			continue
		}

		data, err := p.extractMember(ctx, pctx, member)
		if err != nil {
			slog.Warn("failed to read zip member", "name", member.Name, "err", err)
			continue
		}
		if err := pctx.EmitEmbedded(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

// extractMember spools one member and identifies it.
func (p *Processor) extractMember(ctx context.Context, pctx process.Context, member *zip.File) (process.OutputData, error) {
	name := path.Base(member.Name)

	rc, err := member.Open()
	if err != nil {
		return process.OutputData{}, &process.ParseError{Format: "zip entry", Err: err}
	}
	defer rc.Close()

	spooled, err := workspace.Spool(rc)
	if err != nil {
		return process.OutputData{}, err
	}

	mimetype, err := services.DetectFile(ctx, spooled.Path())
	if err != nil {
		slog.Warn("mimetype detection failed for zip member", "name", name, "err", err)
		mimetype = fallbackMimetype
	}

	fp, err := fingerprint.FromFile(spooled.Path(), mimetype)
	if err != nil {
		spooled.Remove()
		return process.OutputData{}, fmt.Errorf("fingerprinting member %s: %w", name, err)
	}

	return process.OutputData{
		Name:        name,
		Path:        spooled,
		Mimetype:    mimetype,
		Kinds:       pctx.Kinds.Clone(),
		Fingerprint: fp,
	}, nil
}
