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
	"strings"
	"time"
)

// Visitor receives callbacks for each header value kind and body part kind
// while a Transformer walks a message. Header callbacks return the rendered
// line and whether the header should appear at all; part callbacks return
// the rendered content.
type Visitor interface {
	// HeaderPrefix is written before every rendered header, "" for none.
	HeaderPrefix() string

	// HeaderSuffix is written after every rendered header, "" for none.
	HeaderSuffix() string

	// HeadBodySeparator is written between the head and the body.
	HeadBodySeparator() string

	// PartPrefix is written before every rendered body part.
	PartPrefix() string

	// PartSuffix is written after every rendered body part.
	PartSuffix() string

	VisitHeaderAddress(name string, addr Address) (string, bool)
	VisitHeaderAddressList(name string, addrs []Address) (string, bool)
	VisitHeaderGroup(name string, group Group) (string, bool)
	VisitHeaderGroupList(name string, groups []Group) (string, bool)
	VisitHeaderText(name, text string) (string, bool)
	VisitHeaderTextList(name string, texts []string) (string, bool)
	VisitHeaderDateTime(name string, t time.Time) (string, bool)
	VisitHeaderContentType(mimetype string, params map[string]string) (string, bool)
	VisitHeaderReceived(name, raw string) (string, bool)

	VisitTextPart(text string) string
	VisitHTMLPart(html string) string
	VisitBinaryPart(data []byte) []byte
	VisitInlineBinaryPart(data []byte) []byte
}

// headersShown is the allowlist both renderings apply to every header
// callback; content-type and received headers are never shown.
var headersShown = []string{"Date", "From", "To", "CC", "BCC", "Subject"}

func headerShown(name string) bool {
	for _, shown := range headersShown {
		if strings.EqualFold(shown, name) {
			return true
		}
	}
	return false
}
