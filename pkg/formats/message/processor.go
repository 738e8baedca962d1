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

package message

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/everyday-items/toolkit/lang/errorx"

	"github.com/biewers2/processing-go/pkg/fingerprint"
	"github.com/biewers2/processing-go/pkg/process"
	"github.com/biewers2/processing-go/pkg/services"
	"github.com/biewers2/processing-go/pkg/workspace"
)

const (
	mimetypeMessage = "message/rfc822"
	attachmentName  = "message-attachment.dat"
)

// Processor handles message/rfc822 inputs. It fans out four sub-tasks —
// text extraction, metadata extraction, PDF rendering, and attachment
// discovery — and joins them. A sub-task failure is reported through the
// output channel; the siblings keep running.
type Processor struct {
	tika      *services.Tika
	htmlToPdf *services.HtmlToPdf
}

// New returns the message processor bound to the process-wide service
// adapters.
func New() *Processor {
	return &Processor{
		tika:      services.GetTika(),
		htmlToPdf: services.GetHtmlToPdf(),
	}
}

// NewWithServices returns a processor with explicit adapters; used by tests
// to point at a local stand-in service.
func NewWithServices(tika *services.Tika, htmlToPdf *services.HtmlToPdf) *Processor {
	return &Processor{tika: tika, htmlToPdf: htmlToPdf}
}

// Name implements process.Processor.
func (p *Processor) Name() string { return "rfc822" }

// Process implements process.Processor.
func (p *Processor) Process(ctx context.Context, pctx process.Context, input process.Input) error {
	raw, err := input.Bytes(ctx)
	if err != nil {
		return err
	}

	msg, err := Parse(raw)
	if err != nil {
		return &process.ParseError{Format: "rfc822", Err: err}
	}

	fp, err := fingerprint.FromBytes(raw, mimetypeMessage)
	if err != nil {
		return err
	}

	wkspace := workspace.New(
		pctx.Kinds.Contains(process.KindText),
		pctx.Kinds.Contains(process.KindMetadata),
		pctx.Kinds.Contains(process.KindPdf),
	)
	defer wkspace.Close()

	// Each sub-task reports its own failure into the output channel; only
	// failures to deliver through the channel are fatal here.
	me := errorx.Go(
		func() error { return p.processText(ctx, pctx, msg, wkspace, fp) },
		func() error { return p.processMetadata(ctx, pctx, msg, wkspace, fp) },
		func() error { return p.processPdf(ctx, pctx, msg, wkspace, fp) },
		func() error { return p.processAttachments(ctx, pctx, msg) },
	)
	return me.ErrorOrNil()
}

// processText asks the analysis service for the plain text of the message
// and emits it as a processed artifact.
func (p *Processor) processText(ctx context.Context, pctx process.Context, msg *Message, wkspace *workspace.Workspace, fp string) error {
	if wkspace.TextPath == nil {
		return nil
	}

	path := wkspace.TakeText()
	if err := p.extractText(ctx, msg, path.Path()); err != nil {
		path.Remove()
		return pctx.EmitError(ctx, fmt.Errorf("extracting text: %w", err))
	}

	return pctx.EmitProcessed(ctx, process.OutputData{
		Name:        "extracted.txt",
		Path:        path,
		Mimetype:    "text/plain",
		Kinds:       pctx.Kinds.Clone(),
		Fingerprint: fp,
	})
}

func (p *Processor) extractText(ctx context.Context, msg *Message, destination string) error {
	stream, pump, err := p.tika.Text(ctx, bytes.NewReader(msg.Raw))
	if err != nil {
		return err
	}

	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	me := errorx.Go(
		func() error { return pump(ctx) },
		func() error {
			for chunk := range stream {
				if _, err := file.Write(chunk); err != nil {
					return err
				}
			}
			return nil
		},
	)
	return me.ErrorOrNil()
}

// processMetadata asks the analysis service for the message's metadata and
// emits the JSON document as a processed artifact.
func (p *Processor) processMetadata(ctx context.Context, pctx process.Context, msg *Message, wkspace *workspace.Workspace, fp string) error {
	if wkspace.MetadataPath == nil {
		return nil
	}

	path := wkspace.TakeMetadata()
	metadata, err := p.tika.Metadata(ctx, bytes.NewReader(msg.Raw))
	if err == nil {
		err = os.WriteFile(path.Path(), []byte(metadata), 0o644)
	}
	if err != nil {
		path.Remove()
		return pctx.EmitError(ctx, fmt.Errorf("extracting metadata: %w", err))
	}

	return pctx.EmitProcessed(ctx, process.OutputData{
		Name:        "metadata.json",
		Path:        path,
		Mimetype:    "application/json",
		Kinds:       pctx.Kinds.Clone(),
		Fingerprint: fp,
	})
}

// processPdf renders the message to HTML through the HTML visitor and pipes
// it through the PDF renderer.
func (p *Processor) processPdf(ctx context.Context, pctx process.Context, msg *Message, wkspace *workspace.Workspace, fp string) error {
	if wkspace.PdfPath == nil {
		return nil
	}

	path := wkspace.TakePdf()
	if err := p.renderPdf(ctx, msg, path.Path()); err != nil {
		path.Remove()
		return pctx.EmitError(ctx, fmt.Errorf("rendering pdf: %w", err))
	}

	return pctx.EmitProcessed(ctx, process.OutputData{
		Name:        "rendered.pdf",
		Path:        path,
		Mimetype:    "application/pdf",
		Kinds:       pctx.Kinds.Clone(),
		Fingerprint: fp,
	})
}

func (p *Processor) renderPdf(ctx context.Context, msg *Message, destination string) error {
	var html bytes.Buffer
	if err := NewTransformer(NewHTMLVisitor()).Transform(msg, &html); err != nil {
		return err
	}

	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	return p.htmlToPdf.Render(ctx, &html, file)
}

// processAttachments emits every MIME-typed attachment part as an embedded
// file.
func (p *Processor) processAttachments(ctx context.Context, pctx process.Context, msg *Message) error {
	for _, att := range msg.Attachments {
		data, err := p.extractAttachment(pctx, att)
		if err != nil {
			if err := pctx.EmitError(ctx, err); err != nil {
				return err
			}
			continue
		}
		if err := pctx.EmitEmbedded(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) extractAttachment(pctx process.Context, att Attachment) (process.OutputData, error) {
	name := att.Name
	if name == "" {
		name = attachmentName
	}

	spooled, err := workspace.Spool(bytes.NewReader(att.Data))
	if err != nil {
		return process.OutputData{}, fmt.Errorf("spooling attachment %s: %w", name, err)
	}

	fp, err := fingerprint.FromBytes(att.Data, att.Mimetype)
	if err != nil {
		spooled.Remove()
		return process.OutputData{}, fmt.Errorf("fingerprinting attachment %s: %w", name, err)
	}

	return process.OutputData{
		Name:        name,
		Path:        spooled,
		Mimetype:    att.Mimetype,
		Kinds:       pctx.Kinds.Clone(),
		Fingerprint: fp,
	}, nil
}
