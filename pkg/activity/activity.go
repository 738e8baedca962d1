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

// Package activity is the one-shot entry point of the pipeline: it wires
// the dispatcher, the output loop, and the archive builder around a single
// input and returns the finalized archive file.
package activity

import (
	"context"
	"os"

	"github.com/biewers2/processing-go/pkg/archivebuild"
	"github.com/biewers2/processing-go/pkg/formats/archive"
	"github.com/biewers2/processing-go/pkg/formats/mailbox"
	"github.com/biewers2/processing-go/pkg/formats/message"
	"github.com/biewers2/processing-go/pkg/pipeline"
	"github.com/biewers2/processing-go/pkg/process"
)

// NewDispatcher returns the registry of every implemented format.
func NewDispatcher() *process.Dispatcher {
	return process.NewDispatcher().
		Register(archive.New(), "application/zip").
		Register(mailbox.New(), "application/mbox").
		Register(message.New(), "message/rfc822")
}

// Process runs the full pipeline over one input and returns the archive
// file. The file is anonymous; the caller owns the handle.
//
// Three tasks run concurrently: the root dispatch, the output loop, and the
// archive builder. A dispatcher failure is terminal, but the other two are
// always joined first so channels drain and temp files are reclaimed.
func Process(ctx context.Context, input process.Input, mimetype string, kinds process.Kinds, recurse bool) (*os.File, error) {
	return processWith(ctx, NewDispatcher(), input, mimetype, kinds, recurse)
}

func processWith(ctx context.Context, dispatcher *process.Dispatcher, input process.Input, mimetype string, kinds process.Kinds, recurse bool) (*os.File, error) {
	sink, outputs := process.NewSink()
	entries := make(chan archivebuild.Entry, archivebuild.EntryChannelCapacity)

	pctx := process.NewContext(mimetype, kinds, sink)

	// The root invocation holds the first producer reference; the channel
	// closes once it and every in-flight embedded output have released.
	sink.Acquire()
	sink.CloseWhenIdle()

	processErrs := make(chan error, 1)
	go func() {
		defer sink.Release()
		processErrs <- dispatcher.Process(ctx, pctx, input)
	}()

	loop := pipeline.NewLoop(dispatcher, recurse)
	loopErrs := make(chan error, 1)
	go func() {
		loopErrs <- loop.Run(ctx, outputs, entries)
	}()

	type buildResult struct {
		file *os.File
		err  error
	}
	builds := make(chan buildResult, 1)
	go func() {
		file, err := archivebuild.BuildFrom(entries)
		builds <- buildResult{file: file, err: err}
	}()

	// Join everything before deciding the outcome, so producers never leak.
	processErr := <-processErrs
	loopErr := <-loopErrs
	build := <-builds

	for _, err := range []error{processErr, loopErr, build.err} {
		if err != nil {
			if build.file != nil {
				build.file.Close()
			}
			return nil, err
		}
	}
	return build.file, nil
}
