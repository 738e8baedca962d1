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

// Package fingerprint computes the content-addressed identifier of an input
// given its MIME type.
//
// The fingerprint is an MD5 hex digest. MD5 is used for identification of
// duplicate content only, never as a security control. The one format-aware
// rule is for RFC 822 messages: when a Message-ID header is present, the
// fingerprint hashes the ID bytes instead of the content, so the same
// message stored with different transfer encodings still deduplicates.
package fingerprint

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
)

// MimetypeMessage is the MIME type that triggers the Message-ID rule.
const MimetypeMessage = "message/rfc822"

// Fingerprint computes the fingerprint of the reader's content.
//
// For message/rfc822 the whole content is buffered so the headers can be
// parsed; for every other MIME type the content streams through the hasher
// in 1 MiB chunks.
func Fingerprint(content io.Reader, mimetype string) (string, error) {
	if mimetype == MimetypeMessage {
		return fingerprintMessage(content)
	}
	return fingerprintMD5(content)
}

// FromFile computes the fingerprint of a file's content.
func FromFile(path string, mimetype string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for fingerprinting: %w", path, err)
	}
	defer file.Close()
	return Fingerprint(file, mimetype)
}

// FromBytes computes the fingerprint of an in-memory value.
func FromBytes(content []byte, mimetype string) (string, error) {
	return Fingerprint(bytes.NewReader(content), mimetype)
}

func fingerprintMD5(content io.Reader) (string, error) {
	hasher := md5.New()
	buf := make([]byte, 1<<20)
	if _, err := io.CopyBuffer(hasher, content, buf); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// fingerprintMessage hashes the Message-ID header bytes when one is present,
// and the whole raw content otherwise.
func fingerprintMessage(content io.Reader) (string, error) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("reading message: %w", err)
	}

	if id := messageID(raw); id != "" {
		return fingerprintMD5(strings.NewReader(id))
	}
	return fingerprintMD5(bytes.NewReader(raw))
}

// messageID extracts the Message-ID value with its surrounding angle
// brackets stripped, or "" when the message has none or cannot be parsed.
func messageID(raw []byte) string {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	id := strings.TrimSpace(msg.Header.Get("Message-Id"))
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return id
}
