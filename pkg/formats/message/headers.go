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
	"fmt"
	stdmime "mime"
	"net/mail"
	"strings"
	"time"
)

// Header is one message header with its classified value.
type Header struct {
	// Name is the header name with its original capitalization.
	Name string

	// Raw is the unfolded header value.
	Raw string

	// Value is the classified value; see the HeaderValue implementations.
	Value HeaderValue
}

// HeaderValue is the classified value of a header. The transformer matches
// on the concrete type to pick the visitor callback.
type HeaderValue interface {
	headerValue()
}

// Address is a single mailbox.
type Address struct {
	Name  string
	Email string
}

// Group is a named set of mailboxes.
type Group struct {
	Name      string
	Addresses []Address
}

// AddressValue is a header carrying a single mailbox.
type AddressValue struct{ Address Address }

// AddressListValue is a header carrying several mailboxes.
type AddressListValue struct{ Addresses []Address }

// GroupValue is a header carrying one address group.
type GroupValue struct{ Group Group }

// GroupListValue is a header carrying several address groups.
type GroupListValue struct{ Groups []Group }

// TextValue is an unstructured header.
type TextValue struct{ Text string }

// TextListValue is a comma-separated list header.
type TextListValue struct{ Texts []string }

// DateTimeValue is a parsed date header.
type DateTimeValue struct{ Time time.Time }

// ContentTypeValue is a parsed Content-Type header.
type ContentTypeValue struct {
	Mimetype string
	Params   map[string]string
}

// ReceivedValue is a Received trace header, kept raw.
type ReceivedValue struct{ Raw string }

func (AddressValue) headerValue()     {}
func (AddressListValue) headerValue() {}
func (GroupValue) headerValue()       {}
func (GroupListValue) headerValue()   {}
func (TextValue) headerValue()        {}
func (TextListValue) headerValue()    {}
func (DateTimeValue) headerValue()    {}
func (ContentTypeValue) headerValue() {}
func (ReceivedValue) headerValue()    {}

var addressHeaders = map[string]bool{
	"from": true, "to": true, "cc": true, "bcc": true,
	"sender": true, "reply-to": true,
}

// parseHeaders reads the header block of a raw message, preserving order
// and unfolding continuation lines.
func parseHeaders(raw []byte) ([]Header, error) {
	block := headerBlock(raw)
	if len(block) == 0 {
		return nil, fmt.Errorf("message has no header block")
	}

	var headers []Header
	var name, value string
	flush := func() {
		if name != "" {
			headers = append(headers, classifyHeader(name, strings.TrimSpace(value)))
		}
		name, value = "", ""
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			// Folded continuation of the previous header.
			value += " " + strings.TrimSpace(line)
			continue
		}
		flush()
		i := strings.IndexByte(line, ':')
		if i < 0 {
			// Not a header line; treat as noise, as lenient parsers do.
			continue
		}
		name = strings.TrimSpace(line[:i])
		value = line[i+1:]
	}
	flush()

	if len(headers) == 0 {
		return nil, fmt.Errorf("message has no headers")
	}
	return headers, nil
}

// headerBlock returns the text before the first blank line.
func headerBlock(raw []byte) string {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return string(raw[:i])
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return string(raw[:i])
	}
	return string(raw)
}

// classifyHeader converts one header into its structured value. Headers
// that fail structured parsing degrade to text, never to an error; a
// message with a malformed Date is still a message.
func classifyHeader(name, value string) Header {
	h := Header{Name: name, Raw: value}
	lower := strings.ToLower(name)

	switch {
	case lower == "date", lower == "resent-date":
		if t, err := mail.ParseDate(value); err == nil {
			h.Value = DateTimeValue{Time: t}
			return h
		}

	case addressHeaders[lower]:
		if v, ok := parseAddresses(value); ok {
			h.Value = v
			return h
		}

	case lower == "content-type":
		if mediatype, params, err := stdmime.ParseMediaType(value); err == nil {
			h.Value = ContentTypeValue{Mimetype: mediatype, Params: params}
			return h
		}

	case lower == "received":
		h.Value = ReceivedValue{Raw: value}
		return h

	case lower == "keywords":
		texts := splitList(value)
		if len(texts) > 1 {
			h.Value = TextListValue{Texts: texts}
			return h
		}
	}

	h.Value = TextValue{Text: value}
	return h
}

// parseAddresses classifies an address header into a single address, an
// address list, or group values.
func parseAddresses(value string) (HeaderValue, bool) {
	if strings.Contains(value, ":") && strings.HasSuffix(strings.TrimSpace(value), ";") {
		if groups, ok := parseGroups(value); ok {
			if len(groups) == 1 {
				return GroupValue{Group: groups[0]}, true
			}
			return GroupListValue{Groups: groups}, true
		}
	}

	parsed, err := mail.ParseAddressList(value)
	if err != nil || len(parsed) == 0 {
		return nil, false
	}

	addrs := make([]Address, 0, len(parsed))
	for _, a := range parsed {
		addrs = append(addrs, Address{Name: a.Name, Email: a.Address})
	}
	if len(addrs) == 1 {
		return AddressValue{Address: addrs[0]}, true
	}
	return AddressListValue{Addresses: addrs}, true
}

// parseGroups handles the "name: addr, addr;" group syntax net/mail does
// not surface as groups.
func parseGroups(value string) ([]Group, bool) {
	var groups []Group
	for _, segment := range strings.Split(strings.TrimSpace(value), ";") {
		segment = strings.TrimSpace(strings.TrimSuffix(segment, ","))
		if segment == "" {
			continue
		}
		i := strings.IndexByte(segment, ':')
		if i < 0 {
			return nil, false
		}
		group := Group{Name: strings.TrimSpace(segment[:i])}
		members := strings.TrimSpace(segment[i+1:])
		if members != "" {
			parsed, err := mail.ParseAddressList(members)
			if err != nil {
				return nil, false
			}
			for _, a := range parsed {
				group.Addresses = append(group.Addresses, Address{Name: a.Name, Email: a.Address})
			}
		}
		groups = append(groups, group)
	}
	return groups, len(groups) > 0
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
