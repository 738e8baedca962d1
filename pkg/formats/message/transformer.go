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
	"fmt"
	"io"
)

// Transformer renders a message through a visitor: every header in
// declaration order, a head/body separator, then every preferred body part.
type Transformer struct {
	visitor Visitor
}

// NewTransformer returns a transformer driving the given visitor.
func NewTransformer(v Visitor) *Transformer {
	return &Transformer{visitor: v}
}

// Transform walks the message and writes the rendering.
func (t *Transformer) Transform(m *Message, w io.Writer) error {
	for _, h := range m.Headers {
		value, ok := t.transformHeader(h)
		if !ok {
			continue
		}
		if err := writeAll(w, t.visitor.HeaderPrefix(), value, t.visitor.HeaderSuffix(), "\n"); err != nil {
			return err
		}
	}

	if err := writeAll(w, t.visitor.HeadBodySeparator()); err != nil {
		return err
	}

	for _, part := range m.Bodies() {
		if err := writeAll(w, t.visitor.PartPrefix()); err != nil {
			return err
		}
		if err := t.transformPart(w, part); err != nil {
			return err
		}
		if err := writeAll(w, t.visitor.PartSuffix()); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) transformHeader(h Header) (string, bool) {
	switch v := h.Value.(type) {
	case AddressValue:
		return t.visitor.VisitHeaderAddress(h.Name, v.Address)
	case AddressListValue:
		return t.visitor.VisitHeaderAddressList(h.Name, v.Addresses)
	case GroupValue:
		return t.visitor.VisitHeaderGroup(h.Name, v.Group)
	case GroupListValue:
		return t.visitor.VisitHeaderGroupList(h.Name, v.Groups)
	case TextValue:
		return t.visitor.VisitHeaderText(h.Name, v.Text)
	case TextListValue:
		return t.visitor.VisitHeaderTextList(h.Name, v.Texts)
	case DateTimeValue:
		return t.visitor.VisitHeaderDateTime(h.Name, v.Time)
	case ContentTypeValue:
		return t.visitor.VisitHeaderContentType(v.Mimetype, v.Params)
	case ReceivedValue:
		return t.visitor.VisitHeaderReceived(h.Name, v.Raw)
	}
	return "", false
}

func (t *Transformer) transformPart(w io.Writer, part BodyPart) error {
	switch part.Kind {
	case PartText:
		_, err := io.WriteString(w, t.visitor.VisitTextPart(part.Text))
		return err
	case PartHTML:
		_, err := io.WriteString(w, t.visitor.VisitHTMLPart(part.Text))
		return err
	case PartBinary:
		_, err := w.Write(t.visitor.VisitBinaryPart(part.Data))
		return err
	case PartInlineBinary:
		_, err := w.Write(t.visitor.VisitInlineBinaryPart(part.Data))
		return err
	}
	return fmt.Errorf("unknown body part kind %d", part.Kind)
}

func writeAll(w io.Writer, values ...string) error {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := io.WriteString(w, v); err != nil {
			return err
		}
	}
	return nil
}
