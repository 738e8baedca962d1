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

package process

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/biewers2/processing-go/pkg/streaming"
	"github.com/biewers2/processing-go/pkg/workspace"
)

// Input is the source handed to a processor. Formats differ in what they
// need — a stream, a sequential reader, or a random-access file path — and
// the accessors adapt whichever shape the input arrived in.
type Input struct {
	stream streaming.ByteStream
	reader io.Reader
	path   string
}

// StreamInput wraps a lazy byte stream.
func StreamInput(stream streaming.ByteStream) Input {
	return Input{stream: stream}
}

// ReaderInput wraps a sequential reader.
func ReaderInput(r io.Reader) Input {
	return Input{reader: r}
}

// FileInput wraps an existing file path. The input does not take ownership
// of the file.
func FileInput(path string) Input {
	return Input{path: path}
}

// Reader adapts the input to a sequential reader. Streams are materialized
// through the spill-to-disk policy, so memory stays bounded.
func (in Input) Reader(ctx context.Context) (io.Reader, func(), error) {
	switch {
	case in.reader != nil:
		return in.reader, func() {}, nil
	case in.path != "":
		file, err := os.Open(in.path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input %s: %w", in.path, err)
		}
		return file, func() { file.Close() }, nil
	case in.stream != nil:
		r, err := streaming.StreamToReader(ctx, in.stream)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	}
	return nil, nil, fmt.Errorf("empty input")
}

// Path adapts the input to a random-access file path, spooling streams and
// readers to a temp file when necessary. The cleanup func removes any file
// this call created; it never touches a caller-owned path.
func (in Input) Path(ctx context.Context) (string, func(), error) {
	if in.path != "" {
		return in.path, func() {}, nil
	}

	r, done, err := in.Reader(ctx)
	if err != nil {
		return "", nil, err
	}
	defer done()

	tp, err := workspace.Spool(r)
	if err != nil {
		return "", nil, fmt.Errorf("spooling input: %w", err)
	}
	return tp.Path(), tp.Remove, nil
}

// Bytes reads the whole input into memory. Only formats that genuinely need
// the full content (RFC 822 parsing) should use this.
func (in Input) Bytes(ctx context.Context) ([]byte, error) {
	if in.stream != nil {
		return streaming.Collect(ctx, in.stream)
	}
	r, done, err := in.Reader(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	return io.ReadAll(r)
}
