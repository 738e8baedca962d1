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

// Package pipeline runs the output-handling loop: it drains the processor
// output channel, turns outputs into archive entries, and re-enters the
// dispatcher for embedded files when recursion is enabled.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/everyday-items/toolkit/util/poolx"

	"github.com/biewers2/processing-go/pkg/archivebuild"
	"github.com/biewers2/processing-go/pkg/engine"
	"github.com/biewers2/processing-go/pkg/process"
)

// MaxWorkers bounds the pool handling outputs concurrently.
const MaxWorkers = 1000

// Loop consumes processing outputs until the channel closes. Each output is
// handled on its own pooled worker so a slow recursive processing run does
// not stall the drain.
type Loop struct {
	dispatcher *process.Dispatcher
	recurse    bool
}

// NewLoop returns an output loop that re-enters dispatcher for embedded
// files when recurse is set.
func NewLoop(dispatcher *process.Dispatcher, recurse bool) *Loop {
	return &Loop{dispatcher: dispatcher, recurse: recurse}
}

// Run drains outputs until the channel closes, joins the worker pool, and
// then closes the archive-entry sink, which is what terminates the archive
// builder. Errors carried by the channel are logged and skipped; only a
// worker panic is fatal.
func (l *Loop) Run(ctx context.Context, outputs <-chan process.Result, entries chan<- archivebuild.Entry) error {
	pool := poolx.NewSimple(MaxWorkers)
	panics := &engine.PanicStore{}

	for res := range outputs {
		if res.Err != nil {
			slog.Error("processing error", "err", res.Err)
			continue
		}

		output := res.Output
		if err := pool.Submit(func() {
			defer panics.Recover()
			l.handleOutput(ctx, output, entries)
		}); err != nil {
			// The pool only refuses after Release, which cannot happen
			// while the loop is still draining; handle inline to be safe.
			l.handleOutput(ctx, output, entries)
		}
	}

	pool.Release()
	close(entries)
	return panics.Err()
}

// handleOutput turns one output into an archive entry, recursing into
// embedded files first when enabled. Recursive failures are logged and do
// not propagate: the embedded file's own entry is written regardless.
func (l *Loop) handleOutput(ctx context.Context, output process.Output, entries chan<- archivebuild.Entry) {
	switch o := output.(type) {
	case process.Processed:
		l.sendEntry(ctx, entries, archivebuild.Entry{
			Name:    o.Data.Name,
			Path:    o.Data.Path,
			IDChain: o.State.IDChain,
		})

	case process.Embedded:
		childState := o.State.Child(o.Data.Fingerprint)

		if l.recurse {
			l.processEmbedded(ctx, o, childState)
		}
		// The embedded output held a producer reference on the channel so
		// its recursive processing could still emit; drop it now that the
		// child is fully handled.
		o.Sink.Release()

		l.sendEntry(ctx, entries, archivebuild.Entry{
			Name:    o.Data.Name,
			Path:    o.Data.Path,
			IDChain: childState.IDChain,
		})
	}
}

func (l *Loop) processEmbedded(ctx context.Context, o process.Embedded, childState process.State) {
	pctx := process.NewContext(o.Data.Mimetype, o.Data.Kinds, o.Sink).WithState(childState)
	input := process.FileInput(o.Data.Path.Path())

	if err := l.dispatcher.Process(ctx, pctx, input); err != nil {
		slog.Error("recursive processing failed",
			"mimetype", o.Data.Mimetype,
			"id_chain", childState.IDChain,
			"err", err,
		)
	}
}

func (l *Loop) sendEntry(ctx context.Context, entries chan<- archivebuild.Entry, entry archivebuild.Entry) {
	select {
	case <-ctx.Done():
		entry.Path.Remove()
	case entries <- entry:
	}
}
