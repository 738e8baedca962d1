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

import "context"

// Context describes one logical processing invocation: what the input is,
// which artifacts to produce, where the item sits in the containment tree,
// and where outputs go. It is cheap to copy; the sink is a shared handle to
// the same underlying channel.
type Context struct {
	// Mimetype is the declared MIME type of the input.
	Mimetype string

	// Kinds is the set of artifacts to produce.
	Kinds Kinds

	// State is the position of the input in the containment tree.
	State State

	sink *Sink
}

// NewContext builds the context of a root invocation (empty chain).
func NewContext(mimetype string, kinds Kinds, sink *Sink) Context {
	return Context{
		Mimetype: mimetype,
		Kinds:    kinds,
		State:    State{},
		sink:     sink,
	}
}

// WithState returns a copy of the context positioned at the given state.
func (c Context) WithState(state State) Context {
	c.State = state
	return c
}

// EmitProcessed sends a freshly generated artifact to the output channel.
func (c Context) EmitProcessed(ctx context.Context, data OutputData) error {
	return c.sink.Send(ctx, Result{Output: Processed{State: c.State.Clone(), Data: data}})
}

// EmitEmbedded sends a discovered child file to the output channel.
//
// The sink gains a producer reference on behalf of the embedded output;
// whoever handles the output (the output loop) releases it once any
// recursive processing of the child has finished. This is what keeps the
// channel open while embedded work is still in flight.
func (c Context) EmitEmbedded(ctx context.Context, data OutputData) error {
	c.sink.Acquire()
	err := c.sink.Send(ctx, Result{Output: Embedded{State: c.State.Clone(), Data: data, Sink: c.sink}})
	if err != nil {
		c.sink.Release()
	}
	return err
}

// EmitError reports a per-item failure through the output channel without
// aborting the producing processor.
func (c Context) EmitError(ctx context.Context, err error) error {
	return c.sink.Send(ctx, Result{Err: err})
}
