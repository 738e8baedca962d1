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

// Package mailbox iterates the messages of an mbox file and emits each one
// as an embedded RFC 822 message.
package mailbox

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/biewers2/processing-go/pkg/fingerprint"
	"github.com/biewers2/processing-go/pkg/process"
	"github.com/biewers2/processing-go/pkg/streaming"
	"github.com/biewers2/processing-go/pkg/workspace"
)

// messageMimetype is the fixed type of every mbox member.
const messageMimetype = "message/rfc822"

// embeddedName is the display name of every extracted message; the archive
// keeps them apart by fingerprint, not by name.
const embeddedName = "mbox-message.eml"

// maxMessageSize caps a single mbox message. Mailboxes are unbounded, a
// single message is not.
const maxMessageSize = 64 << 20

// Processor streams an mbox sequentially and emits one embedded output per
// message. A broken message is surfaced through the output channel and the
// iteration continues with the next one.
type Processor struct{}

// New returns the mbox processor.
func New() *Processor {
	return &Processor{}
}

// Name implements process.Processor.
func (p *Processor) Name() string { return "mbox" }

// Process implements process.Processor.
func (p *Processor) Process(ctx context.Context, pctx process.Context, input process.Input) error {
	reader, done, err := input.Reader(ctx)
	if err != nil {
		return err
	}
	defer done()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, streaming.ChunkSize), maxMessageSize)
	scanner.Split(ScanMessages)

	count := 0
	for scanner.Scan() {
		raw := scanner.Bytes()

		data, err := p.extractMessage(pctx, raw)
		if err != nil {
			slog.Warn("failed to extract mbox message", "err", err)
			if err := pctx.EmitError(ctx, err); err != nil {
				return err
			}
			continue
		}
		if err := pctx.EmitEmbedded(ctx, data); err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return &process.ParseError{Format: "mbox", Err: err}
	}

	slog.Info("processed mailbox", "messages", count, "id_chain", pctx.State.IDChain)
	return nil
}

// extractMessage turns one raw mbox token into an embedded output: postmark
// stripped, From-quoting undone, contents spooled and fingerprinted.
func (p *Processor) extractMessage(pctx process.Context, raw []byte) (process.OutputData, error) {
	contents, err := messageContents(raw)
	if err != nil {
		return process.OutputData{}, &process.ParseError{Format: "mbox message", Err: err}
	}

	spooled, err := workspace.Spool(bytes.NewReader(contents))
	if err != nil {
		return process.OutputData{}, err
	}

	fp, err := fingerprint.FromBytes(contents, messageMimetype)
	if err != nil {
		spooled.Remove()
		return process.OutputData{}, err
	}

	return process.OutputData{
		Name:        embeddedName,
		Path:        spooled,
		Mimetype:    messageMimetype,
		Kinds:       pctx.Kinds.Clone(),
		Fingerprint: fp,
	}, nil
}

// messageContents strips the postmark line and unquotes the body.
func messageContents(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, postmark) {
		return nil, fmt.Errorf("message does not start with a %q postmark", string(postmark))
	}
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return nil, fmt.Errorf("message is a bare postmark line")
	}
	body := raw[i+1:]
	if len(body) == 0 {
		return nil, fmt.Errorf("message is empty")
	}
	return unquoteBody(body), nil
}
