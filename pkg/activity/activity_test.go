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

package activity

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/biewers2/processing-go/pkg/fingerprint"
	"github.com/biewers2/processing-go/pkg/process"
	"github.com/biewers2/processing-go/pkg/streaming"
)

// writeZipFixture creates a ZIP file with the given members.
func writeZipFixture(t *testing.T, members map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.zip")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := zip.NewWriter(file)
	for name, content := range members {
		member, err := w.Create(name)
		require.NoError(t, err)
		_, err = member.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

// readResult maps archive path -> content of the produced archive.
func readResult(t *testing.T, file *os.File) map[string]string {
	t.Helper()
	t.Cleanup(func() { file.Close() })

	info, err := file.Stat()
	require.NoError(t, err)
	reader, err := zip.NewReader(file, info.Size())
	require.NoError(t, err)

	contents := map[string]string{}
	for _, member := range reader.File {
		rc, err := member.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[member.Name] = string(data)
	}
	return contents
}

func TestProcess_ZipWithoutRecursion(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	members := map[string]string{
		"a.txt": "alpha content",
		"b.txt": "bravo content",
	}
	path := writeZipFixture(t, members)

	file, err := Process(ctx, process.FileInput(path), "application/zip", nil, false)
	require.NoError(t, err)
	contents := readResult(t, file)

	// One entry per member, at <fingerprint>/<name>, fingerprint
	// recomputable from the archived bytes.
	require.Len(t, contents, len(members))
	for archivePath, content := range contents {
		parts := strings.Split(archivePath, "/")
		require.Len(t, parts, 2, "no deeper paths may appear without recursion")

		original, ok := members[parts[1]]
		require.True(t, ok, "unexpected member name %q", parts[1])
		require.Equal(t, original, content)

		fp, err := fingerprint.FromBytes([]byte(content), "text/plain")
		require.NoError(t, err)
		require.Equal(t, fp, parts[0], "chain component must match the content fingerprint")
	}
}

func TestProcess_MboxRecursive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mbox := "From a@example.com Thu Feb 22 09:00:00 2001\n" +
		"Message-ID: <one@example.com>\n" +
		"Subject: one\n\nbody one\n" +
		"From b@example.com Thu Feb 22 09:05:00 2001\n" +
		"Message-ID: <two@example.com>\n" +
		"Subject: two\n\nbody two\n"
	path := filepath.Join(t.TempDir(), "fixture.mbox")
	require.NoError(t, os.WriteFile(path, []byte(mbox), 0o644))

	// No artifact kinds requested: recursion into each message produces no
	// further outputs, so the archive holds exactly the two messages.
	file, err := Process(ctx, process.FileInput(path), "application/mbox", nil, true)
	require.NoError(t, err)
	contents := readResult(t, file)

	require.Len(t, contents, 2)
	for archivePath, content := range contents {
		parts := strings.Split(archivePath, "/")
		require.Len(t, parts, 2)
		require.Equal(t, "mbox-message.eml", parts[1])

		fp, err := fingerprint.FromBytes([]byte(content), "message/rfc822")
		require.NoError(t, err)
		require.Equal(t, fp, parts[0])
	}
}

func TestProcess_NestedZipRecursive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	innerPath := writeZipFixture(t, map[string]string{"inner.txt": "inner content"})
	innerBytes, err := os.ReadFile(innerPath)
	require.NoError(t, err)

	outerPath := writeZipFixture(t, map[string]string{"inner.zip": string(innerBytes)})

	file, err := Process(ctx, process.FileInput(outerPath), "application/zip", nil, true)
	require.NoError(t, err)
	contents := readResult(t, file)

	innerFp, err := fingerprint.FromBytes(innerBytes, "application/zip")
	require.NoError(t, err)
	memberFp, err := fingerprint.FromBytes([]byte("inner content"), "text/plain")
	require.NoError(t, err)

	// The nested archive appears at its own chain, and its member under
	// the extended chain: closure under re-processing.
	require.Contains(t, contents, innerFp+"/inner.zip")
	require.Contains(t, contents, innerFp+"/"+memberFp+"/inner.txt")
	require.Equal(t, "inner content", contents[innerFp+"/"+memberFp+"/inner.txt"])
}

func TestProcess_StreamInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mbox := "From a@example.com Thu Feb 22 09:00:00 2001\n" +
		"Message-ID: <streamed@example.com>\n" +
		"Subject: streamed\n\nbody\n"

	stream, pump := streaming.ReadToStream(strings.NewReader(mbox))
	go pump(ctx)

	file, err := Process(ctx, process.StreamInput(stream), "application/mbox", nil, false)
	require.NoError(t, err)
	contents := readResult(t, file)
	require.Len(t, contents, 1)
}

func TestProcess_UnsupportedMimetype(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, []byte("opaque"), 0o644))

	_, err := Process(ctx, process.FileInput(path), "application/x-unknown", nil, false)

	var unsupported *process.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "application/x-unknown", unsupported.Mimetype)
}

func TestProcess_ResultIsValidZip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Even an input with no extractable children yields a valid, empty
	// archive.
	path := writeZipFixture(t, map[string]string{})

	file, err := Process(ctx, process.FileInput(path), "application/zip", nil, false)
	require.NoError(t, err)
	contents := readResult(t, file)
	require.Empty(t, contents)
}

func TestProcess_UnrecognizedChildStillArchived(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// A member whose detected type has no processor: recursion fails, is
	// logged, and the member is archived regardless.
	raw := "Message-ID: <zipped@example.com>\r\nSubject: inside a zip\r\n\r\nhello\r\n"
	path := writeZipFixture(t, map[string]string{"mail.eml": raw})

	file, err := Process(ctx, process.FileInput(path), "application/zip", nil, true)
	require.NoError(t, err)
	contents := readResult(t, file)
	require.Len(t, contents, 1)
}
