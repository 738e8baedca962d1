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

package streaming

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

// patternBytes returns a deterministic byte vector that makes off-by-one
// reordering visible.
func patternBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251)
	}
	return out
}

func TestReadToStream_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, size := range []int{0, 1, 100, ChunkSize, ChunkSize + 1, 3*ChunkSize + 17} {
		expected := patternBytes(size)

		stream, pump := ReadToStream(bytes.NewReader(expected))
		pumpErrs := make(chan error, 1)
		go func() { pumpErrs <- pump(ctx) }()

		collected, err := Collect(ctx, stream)
		if err != nil {
			t.Fatalf("size %d: collect failed: %v", size, err)
		}
		if err := <-pumpErrs; err != nil {
			t.Fatalf("size %d: pump failed: %v", size, err)
		}
		if !bytes.Equal(expected, collected) {
			t.Fatalf("size %d: round trip mismatch: got %d bytes", size, len(collected))
		}
	}
}

func TestStreamToReader_BelowSpillThreshold(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	expected := patternBytes(SpillThreshold / 2)
	stream, pump := ReadToStream(bytes.NewReader(expected))
	go pump(ctx)

	r, err := StreamToReader(ctx, stream)
	if err != nil {
		t.Fatalf("stream to reader failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading failed: %v", err)
	}
	if !bytes.Equal(expected, got) {
		t.Fatalf("round trip mismatch below threshold: got %d bytes want %d", len(got), len(expected))
	}
}

func TestStreamToReader_AboveSpillThreshold(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Well past the spill point so both the in-memory prefix and the
	// spilled remainder are exercised.
	expected := patternBytes(3*SpillThreshold + 12345)
	stream, pump := ReadToStream(bytes.NewReader(expected))
	go pump(ctx)

	r, err := StreamToReader(ctx, stream)
	if err != nil {
		t.Fatalf("stream to reader failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading failed: %v", err)
	}
	if !bytes.Equal(expected, got) {
		t.Fatalf("byte order not preserved across the spill boundary")
	}
}

func TestStreamToString(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const text = "hello, stream"
	stream, pump := ReadToStream(bytes.NewReader([]byte(text)))
	go pump(ctx)

	got, err := StreamToString(ctx, stream)
	if err != nil {
		t.Fatalf("stream to string failed: %v", err)
	}
	if got != text {
		t.Fatalf("unexpected string: got %q want %q", got, text)
	}
}

func TestStreamToString_InvalidUTF8Kept(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	raw := []byte{0xff, 0xfe, 'o', 'k'}
	stream, pump := ReadToStream(bytes.NewReader(raw))
	go pump(ctx)

	got, err := StreamToString(ctx, stream)
	if err != nil {
		t.Fatalf("stream to string failed: %v", err)
	}
	if got != string(raw) {
		t.Fatalf("invalid sequences should pass through byte-for-byte")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadToStream_ReadFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream, pump := ReadToStream(failingReader{})
	pumpErrs := make(chan error, 1)
	go func() { pumpErrs <- pump(ctx) }()

	if _, err := Collect(ctx, stream); err != nil {
		t.Fatalf("collect should drain cleanly: %v", err)
	}
	if err := <-pumpErrs; err == nil {
		t.Fatal("pump should surface the read failure")
	}
}
