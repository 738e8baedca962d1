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
	"log/slog"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"
)

// htmlTextWidth is the column the text rendering wraps converted HTML at.
const htmlTextWidth = 120

// TextVisitor renders a message as canonical plain text: the allowlisted
// headers one per line, a blank line, then the body. HTML bodies are
// converted to text and wrapped.
type TextVisitor struct {
	formatter formatter
}

// NewTextVisitor returns the plain-text message visitor.
func NewTextVisitor() *TextVisitor {
	return &TextVisitor{}
}

func (*TextVisitor) HeaderPrefix() string      { return "" }
func (*TextVisitor) HeaderSuffix() string      { return "" }
func (*TextVisitor) HeadBodySeparator() string { return "\n" }
func (*TextVisitor) PartPrefix() string        { return "" }
func (*TextVisitor) PartSuffix() string        { return "" }

func (v *TextVisitor) VisitHeaderAddress(name string, addr Address) (string, bool) {
	value, ok := v.formatter.formatAddress(addr)
	if !ok || !headerShown(name) {
		return "", false
	}
	return name + ": " + value, true
}

func (v *TextVisitor) VisitHeaderAddressList(name string, addrs []Address) (string, bool) {
	value, ok := v.formatter.formatAddressList(addrs)
	if !ok || !headerShown(name) {
		return "", false
	}
	return name + ": " + value, true
}

func (v *TextVisitor) VisitHeaderGroup(name string, group Group) (string, bool) {
	value, ok := v.formatter.formatGroup(group)
	if !ok || !headerShown(name) {
		return "", false
	}
	return name + ": " + value, true
}

func (v *TextVisitor) VisitHeaderGroupList(name string, groups []Group) (string, bool) {
	value, ok := v.formatter.formatGroupList(groups)
	if !ok || !headerShown(name) {
		return "", false
	}
	return name + ": " + value, true
}

func (v *TextVisitor) VisitHeaderText(name, text string) (string, bool) {
	if !headerShown(name) {
		return "", false
	}
	return name + ": " + text, true
}

func (v *TextVisitor) VisitHeaderTextList(name string, texts []string) (string, bool) {
	value, ok := v.formatter.formatTextList(texts)
	if !ok || !headerShown(name) {
		return "", false
	}
	return name + ": " + value, true
}

func (v *TextVisitor) VisitHeaderDateTime(name string, t time.Time) (string, bool) {
	if !headerShown(name) {
		return "", false
	}
	return name + ": " + t.Format(dateTimeLayout), true
}

func (*TextVisitor) VisitHeaderContentType(string, map[string]string) (string, bool) {
	return "", false
}

func (*TextVisitor) VisitHeaderReceived(string, string) (string, bool) {
	return "", false
}

func (*TextVisitor) VisitTextPart(text string) string { return text }

func (*TextVisitor) VisitHTMLPart(html string) string {
	text, err := html2text.FromString(html)
	if err != nil {
		slog.Warn("html body conversion failed, keeping raw markup", "err", err)
		return html
	}
	return wrapText(text, htmlTextWidth)
}

func (*TextVisitor) VisitBinaryPart(data []byte) []byte       { return data }
func (*TextVisitor) VisitInlineBinaryPart(data []byte) []byte { return data }

// wrapText re-wraps lines longer than width at word boundaries. Words
// longer than the width stay intact on their own line.
func wrapText(text string, width int) string {
	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		if len(line) <= width {
			out.WriteString(line)
			continue
		}
		col := 0
		for j, word := range strings.Fields(line) {
			if j > 0 {
				if col+1+len(word) > width {
					out.WriteByte('\n')
					col = 0
				} else {
					out.WriteByte(' ')
					col++
				}
			}
			out.WriteString(word)
			col += len(word)
		}
	}
	return out.String()
}
