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
	"log/slog"
)

// Processor is a per-format component that turns one input into outputs.
//
// Implementations emit zero or more Processed/Embedded outputs through the
// invocation context and return only fatal errors; per-item failures go
// into the output channel as Err results instead.
type Processor interface {
	// Process runs the format's extraction over the input.
	Process(ctx context.Context, pctx Context, input Input) error

	// Name identifies the processor in logs.
	Name() string
}

// Dispatcher routes an invocation to the processor registered for its MIME
// type. Adding a format is registering another processor.
type Dispatcher struct {
	processors map[string]Processor
}

// NewDispatcher returns an empty registry.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{processors: make(map[string]Processor)}
}

// Register binds a processor to one or more MIME types. Later registrations
// win on conflict.
func (d *Dispatcher) Register(p Processor, mimetypes ...string) *Dispatcher {
	for _, m := range mimetypes {
		d.processors[m] = p
	}
	return d
}

// Process looks up the processor for pctx.Mimetype and invokes it.
//
// Returns *UnsupportedTypeError when no processor is registered, and wraps
// any other failure so callers see a single error surface.
func (d *Dispatcher) Process(ctx context.Context, pctx Context, input Input) error {
	p, ok := d.processors[pctx.Mimetype]
	if !ok {
		return &UnsupportedTypeError{Mimetype: pctx.Mimetype}
	}

	slog.Debug("dispatching input",
		"processor", p.Name(),
		"mimetype", pctx.Mimetype,
		"id_chain", pctx.State.IDChain,
	)

	if err := p.Process(ctx, pctx, input); err != nil {
		return fmt.Errorf("%s processor: %w", p.Name(), err)
	}
	return nil
}
