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
	"html"
	"strings"
	"time"
)

// HTMLVisitor renders a message as HTML suitable for the PDF renderer:
// each header in a <div> with the value escaped, a <br> separating head and
// body, and each body part in a <div>. Text bodies are emitted line by line
// in <p> elements.
type HTMLVisitor struct {
	formatter formatter
}

// NewHTMLVisitor returns the HTML message visitor.
func NewHTMLVisitor() *HTMLVisitor {
	return &HTMLVisitor{}
}

func (*HTMLVisitor) HeaderPrefix() string      { return "<div>" }
func (*HTMLVisitor) HeaderSuffix() string      { return "</div>" }
func (*HTMLVisitor) HeadBodySeparator() string { return "<br>\n" }
func (*HTMLVisitor) PartPrefix() string        { return "<div>" }
func (*HTMLVisitor) PartSuffix() string        { return "</div>" }

func headerLine(name, value string) string {
	return "<b>" + name + "</b>: " + html.EscapeString(value)
}

func (v *HTMLVisitor) VisitHeaderAddress(name string, addr Address) (string, bool) {
	value, ok := v.formatter.formatAddress(addr)
	if !ok || !headerShown(name) {
		return "", false
	}
	return headerLine(name, value), true
}

func (v *HTMLVisitor) VisitHeaderAddressList(name string, addrs []Address) (string, bool) {
	value, ok := v.formatter.formatAddressList(addrs)
	if !ok || !headerShown(name) {
		return "", false
	}
	return headerLine(name, value), true
}

func (v *HTMLVisitor) VisitHeaderGroup(name string, group Group) (string, bool) {
	value, ok := v.formatter.formatGroup(group)
	if !ok || !headerShown(name) {
		return "", false
	}
	return headerLine(name, value), true
}

func (v *HTMLVisitor) VisitHeaderGroupList(name string, groups []Group) (string, bool) {
	value, ok := v.formatter.formatGroupList(groups)
	if !ok || !headerShown(name) {
		return "", false
	}
	return headerLine(name, value), true
}

func (v *HTMLVisitor) VisitHeaderText(name, text string) (string, bool) {
	if !headerShown(name) {
		return "", false
	}
	return headerLine(name, text), true
}

func (v *HTMLVisitor) VisitHeaderTextList(name string, texts []string) (string, bool) {
	value, ok := v.formatter.formatTextList(texts)
	if !ok || !headerShown(name) {
		return "", false
	}
	return headerLine(name, value), true
}

func (v *HTMLVisitor) VisitHeaderDateTime(name string, t time.Time) (string, bool) {
	if !headerShown(name) {
		return "", false
	}
	return headerLine(name, t.Format(dateTimeLayout)), true
}

func (*HTMLVisitor) VisitHeaderContentType(string, map[string]string) (string, bool) {
	return "", false
}

func (*HTMLVisitor) VisitHeaderReceived(string, string) (string, bool) {
	return "", false
}

func (*HTMLVisitor) VisitTextPart(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "<p>" + html.EscapeString(line) + "</p>"
	}
	return strings.Join(out, "\n")
}

func (*HTMLVisitor) VisitHTMLPart(html string) string { return html }

func (*HTMLVisitor) VisitBinaryPart(data []byte) []byte       { return data }
func (*HTMLVisitor) VisitInlineBinaryPart(data []byte) []byte { return data }
