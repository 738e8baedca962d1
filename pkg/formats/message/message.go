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

// Package message processes RFC 822 messages: text extraction, metadata,
// PDF rendering, and attachment discovery.
package message

import (
	"bytes"
	"fmt"
	"io"
	stdmime "mime"
	"strings"

	"github.com/cardamaro/mime"
)

// BodyPartKind classifies a leaf body part for the visitor.
type BodyPartKind int

const (
	// PartText is a text/plain body part.
	PartText BodyPartKind = iota

	// PartHTML is a text/html body part.
	PartHTML

	// PartBinary is any other leaf part.
	PartBinary

	// PartInlineBinary is a binary part displayed inline.
	PartInlineBinary

	// PartMessage is a nested message/rfc822 part.
	PartMessage
)

// BodyPart is one leaf part of the message body.
type BodyPart struct {
	Kind     BodyPartKind
	Mimetype string
	Text     string
	Data     []byte
}

// Attachment is a MIME part carried by the message that is not one of its
// text or HTML bodies.
type Attachment struct {
	// Name is the part's declared filename, "" when absent.
	Name string

	// Mimetype is the part's media type.
	Mimetype string

	// Data is the decoded part content.
	Data []byte
}

// Message is a parsed RFC 822 message: ordered headers, the preferred body
// parts, and the attachments.
type Message struct {
	// Raw is the exact input bytes.
	Raw []byte

	// Headers preserves declaration order, which the visitors rely on.
	Headers []Header

	// TextBodies holds the first text/plain body part, if any.
	TextBodies []BodyPart

	// HTMLBodies holds the first text/html body part, if any.
	HTMLBodies []BodyPart

	// Attachments are the remaining MIME-typed parts, including any further
	// text/plain or text/html parts.
	Attachments []Attachment
}

// Parse reads a full RFC 822 message.
//
// Headers are parsed by hand so their order survives; the body is walked
// through the MIME part tree. The first text/plain and first text/html
// parts become the message bodies, every other leaf part an attachment.
func Parse(raw []byte) (*Message, error) {
	headers, err := parseHeaders(raw)
	if err != nil {
		return nil, err
	}

	msg := &Message{Raw: raw, Headers: headers}
	if err := msg.parseBody(); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Message) parseBody() error {
	root, err := mime.ReadParts(bytes.NewReader(m.Raw))
	if err != nil {
		// Lenient like mail clients: an unreadable part tree degrades to
		// the raw body instead of losing the message.
		if body := rawBody(m.Raw); len(body) > 0 {
			m.TextBodies = append(m.TextBodies, BodyPart{Kind: PartText, Mimetype: "text/plain", Text: string(body)})
		}
		return nil
	}
	defer root.Close()

	var walkErr error
	root.Walk(func(p *mime.Part) error {
		mediatype, params := partMediaType(p.ContentType)
		if strings.HasPrefix(mediatype, "multipart/") {
			return nil
		}

		data, err := io.ReadAll(p)
		if err != nil {
			walkErr = fmt.Errorf("reading part %s: %w", mediatype, err)
			return walkErr
		}
		m.addPart(mediatype, params, data)
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	// A headers-only message with no explicit parts still has its raw body
	// as the text body.
	if len(m.TextBodies) == 0 && len(m.HTMLBodies) == 0 && len(m.Attachments) == 0 {
		if body := rawBody(m.Raw); len(body) > 0 {
			m.TextBodies = append(m.TextBodies, BodyPart{Kind: PartText, Mimetype: "text/plain", Text: string(body)})
		}
	}
	return nil
}

func (m *Message) addPart(mediatype string, params map[string]string, data []byte) {
	switch {
	case (mediatype == "" || mediatype == "text/plain") && len(m.TextBodies) == 0:
		m.TextBodies = append(m.TextBodies, BodyPart{Kind: PartText, Mimetype: "text/plain", Text: string(data)})
	case mediatype == "text/html" && len(m.HTMLBodies) == 0:
		m.HTMLBodies = append(m.HTMLBodies, BodyPart{Kind: PartHTML, Mimetype: "text/html", Text: string(data)})
	default:
		if mediatype == "" {
			mediatype = "application/octet-stream"
		}
		m.Attachments = append(m.Attachments, Attachment{
			Name:     params["name"],
			Mimetype: mediatype,
			Data:     data,
		})
	}
}

// Bodies returns the parts a rendering should show: the HTML bodies when
// the message has any, otherwise the text bodies.
func (m *Message) Bodies() []BodyPart {
	if len(m.HTMLBodies) > 0 {
		return m.HTMLBodies
	}
	return m.TextBodies
}

// partMediaType parses a part's Content-Type value leniently: a value that
// does not parse is treated as an unnamed octet-stream rather than a fatal
// error, matching how mail clients behave.
func partMediaType(contentType string) (string, map[string]string) {
	if contentType == "" {
		return "", nil
	}
	mediatype, params, err := stdmime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream", nil
	}
	return mediatype, params
}

// rawBody returns the bytes after the header block.
func rawBody(raw []byte) []byte {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[i+4:]
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[i+2:]
	}
	return nil
}
