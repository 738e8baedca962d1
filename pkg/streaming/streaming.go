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

// Package streaming bridges the three I/O shapes the pipeline crosses:
// synchronous readers (format libraries), bounded byte-chunk channels
// (pipeline stages), and spooled temp files (random-access consumers).
//
// All buffers are ChunkSize bytes and all channels hold at most
// ChannelCapacity chunks, so the in-flight byte volume of any single
// stream is bounded regardless of input size.
package streaming

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// ChunkSize is the size of a single chunk travelling through a ByteStream.
	ChunkSize = 1 << 20

	// ChannelCapacity is the capacity, in chunks, of every stream channel.
	ChannelCapacity = 100

	// SpillThreshold is the number of buffered bytes at or above which
	// StreamToReader stops accumulating in memory and spools the remainder
	// of the stream to an anonymous temp file.
	SpillThreshold = 1 << 20
)

// ByteStream is a lazy stream of byte chunks.
//
// A ByteStream is always backed by a bounded channel; the producer side is a
// pump returned alongside the stream (see ReadToStream) and must be driven
// for the stream to make progress.
type ByteStream <-chan []byte

// Pump drives the producing half of a ByteStream. It blocks until the source
// is exhausted, the context is canceled, or an I/O error occurs.
type Pump func(ctx context.Context) error

// ReadToStream turns a reader into a lazy ByteStream.
//
// The returned Pump copies the reader into the stream in ChunkSize chunks and
// closes the stream when the reader is exhausted. The pump is independently
// runnable; callers typically hand it to an errgroup next to the consumer of
// the stream. It fails with the underlying read error, or ctx.Err() if the
// consumer went away.
func ReadToStream(source io.Reader) (ByteStream, Pump) {
	ch := make(chan []byte, ChannelCapacity)

	pump := func(ctx context.Context) error {
		defer close(ch)

		buf := make([]byte, ChunkSize)
		for {
			n, err := source.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ch <- chunk:
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading into stream: %w", err)
			}
		}
	}

	return ch, pump
}

// StreamToReader materializes a ByteStream into a reader.
//
// Chunks accumulate in memory until SpillThreshold bytes have been buffered;
// past that point the remainder of the stream is spooled to an anonymous temp
// file and the returned reader transparently continues from the file. Byte
// order is preserved across the spill boundary. The file is unlinked up
// front, so it disappears once the reader is garbage collected or closed.
func StreamToReader(ctx context.Context, stream ByteStream) (io.Reader, error) {
	var data []byte
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok := <-stream:
			if !ok {
				return bytes.NewReader(data), nil
			}
			data = append(data, chunk...)
			if len(data) >= SpillThreshold {
				return spillRemaining(ctx, stream, data)
			}
		}
	}
}

// spillRemaining writes the already-buffered bytes and every remaining chunk
// of the stream to an anonymous temp file, then rewinds it for reading.
func spillRemaining(ctx context.Context, stream ByteStream, buffered []byte) (io.Reader, error) {
	file, err := os.CreateTemp("", "spool-*")
	if err != nil {
		return nil, fmt.Errorf("creating spill file: %w", err)
	}
	// Unlink immediately; the handle keeps the data alive.
	os.Remove(file.Name())

	if _, err := file.Write(buffered); err != nil {
		file.Close()
		return nil, fmt.Errorf("spilling buffered bytes: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			file.Close()
			return nil, ctx.Err()
		case chunk, ok := <-stream:
			if !ok {
				if _, err := file.Seek(0, io.SeekStart); err != nil {
					file.Close()
					return nil, fmt.Errorf("rewinding spill file: %w", err)
				}
				return file, nil
			}
			if _, err := file.Write(chunk); err != nil {
				file.Close()
				return nil, fmt.Errorf("spilling stream: %w", err)
			}
		}
	}
}

// StreamToString accumulates the whole stream into a UTF-8 string. Invalid
// sequences are kept as-is; Go strings are byte sequences, so the conversion
// is lossless at the byte level and lossy only at interpretation time.
func StreamToString(ctx context.Context, stream ByteStream) (string, error) {
	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return sb.String(), ctx.Err()
		case chunk, ok := <-stream:
			if !ok {
				return sb.String(), nil
			}
			sb.Write(chunk)
		}
	}
}

// Collect drains the stream into a single byte slice. Intended for small
// streams and tests; large inputs should go through StreamToReader instead.
func Collect(ctx context.Context, stream ByteStream) ([]byte, error) {
	var data []byte
	for {
		select {
		case <-ctx.Done():
			return data, ctx.Err()
		case chunk, ok := <-stream:
			if !ok {
				return data, nil
			}
			data = append(data, chunk...)
		}
	}
}
