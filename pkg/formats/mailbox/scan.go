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

package mailbox

import "bytes"

var postmark = []byte("From ")

// ScanMessages is a bufio.SplitFunc that tokenizes an mbox into raw
// messages, each token including its leading "From " postmark line.
//
// A message boundary is a line starting with "From " that follows a
// newline. Content before the first postmark (unusual, but seen in the
// wild) is returned as its own token and rejected downstream.
func ScanMessages(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// Find the start of the next message, skipping a postmark at offset
	// zero, which belongs to the current message.
	search := data
	offset := 0
	if bytes.HasPrefix(data, postmark) {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			offset = i + 1
			search = data[offset:]
		} else if !atEOF {
			return 0, nil, nil
		}
	}

	// A postmark directly after the current postmark line also follows a
	// newline: the current message is empty.
	if offset > 0 && bytes.HasPrefix(search, postmark) {
		return offset, data[:offset], nil
	}

	if i := indexPostmark(search); i >= 0 {
		end := offset + i
		return end, data[:end], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// indexPostmark returns the index right after the first "\nFrom " boundary,
// i.e. the start of the postmark line, or -1.
func indexPostmark(data []byte) int {
	for start := 0; ; {
		i := bytes.Index(data[start:], postmark)
		if i < 0 {
			return -1
		}
		at := start + i
		if at > 0 && data[at-1] == '\n' {
			return at
		}
		start = at + len(postmark)
	}
}

// unquoteBody reverses mboxrd From-quoting: any line of ">*From " loses one
// leading '>'.
func unquoteBody(body []byte) []byte {
	lines := bytes.Split(body, []byte("\n"))
	for i, line := range lines {
		trimmed := bytes.TrimLeft(line, ">")
		if len(trimmed) < len(line) && bytes.HasPrefix(trimmed, postmark) {
			lines[i] = line[1:]
		}
	}
	return bytes.Join(lines, []byte("\n"))
}
