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

package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CommandError reports a failed subprocess execution.
//
// Status is nil when the process never started (spawn failure) and set when
// the process exited: either the exit code was non-zero, or streaming I/O
// failed after the process had already exited. Stderr carries whatever the
// process wrote to its error stream; it is never discarded on failure.
type CommandError struct {
	// Status is the exit code, nil if the process failed to start.
	Status *int

	// Stderr is the trimmed stderr output of the process.
	Stderr string

	// Err is the underlying cause.
	Err error
}

func (e *CommandError) Error() string {
	code := ""
	if e.Status != nil {
		code = fmt.Sprintf(" (code %d)", *e.Status)
	}
	return fmt.Sprintf("%v%s", e.Err, code)
}

func (e *CommandError) Unwrap() error { return e.Err }

// PreExit reports whether the command failed before it could start.
func (e *CommandError) PreExit() bool { return e.Status == nil }

func preExitError(err error) *CommandError {
	return &CommandError{Err: err}
}

func postExitError(status int, stderr []byte, err error) *CommandError {
	return &CommandError{Status: &status, Stderr: trimToString(stderr), Err: err}
}

// trimToString renders a subprocess buffer as a printable string.
func trimToString(value []byte) string {
	s := strings.ReplaceAll(string(value), "\x00", "")
	return strings.TrimSpace(s)
}

// StreamCommand runs a subprocess with piped stdin/stdout/stderr.
//
// Input is pumped into stdin, stdout into output, and stderr into an
// internal buffer, all concurrently in 1 MiB chunks. Either input or output
// may be nil when the program takes no input or its output is irrelevant.
//
// The three pumps are always driven to completion before the exit status is
// inspected, so the stderr buffer is fully populated on every failure path.
// The returned error, when non-nil, is always a *CommandError.
func StreamCommand(ctx context.Context, program string, args []string, input io.Reader, output io.Writer) error {
	cmd := exec.CommandContext(ctx, program, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return preExitError(err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return preExitError(err)
	}

	if err := cmd.Start(); err != nil {
		return preExitError(err)
	}

	// Don't fail fast between the pumps: the stderr buffer must be written
	// to completion even when stdin or stdout breaks first.
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		if input == nil {
			return nil
		}
		buf := make([]byte, 1<<20)
		_, err := io.CopyBuffer(stdin, input, buf)
		return err
	})
	g.Go(func() error {
		if output == nil {
			_, err := io.Copy(io.Discard, stdout)
			return err
		}
		buf := make([]byte, 1<<20)
		_, err := io.CopyBuffer(output, stdout, buf)
		return err
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	status := cmd.ProcessState.ExitCode()
	if pumpErr != nil {
		return postExitError(status, stderr.Bytes(), pumpErr)
	}
	if waitErr != nil {
		return postExitError(status, stderr.Bytes(), fmt.Errorf("command failed with non-zero exit status"))
	}
	return nil
}
