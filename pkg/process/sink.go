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
	"sync"
)

// OutputChannelCapacity bounds the number of pending outputs; together with
// the archive-entry and stream channel capacities it bounds the pipeline's
// peak memory.
const OutputChannelCapacity = 100

// Sink is the producer end of the bounded output channel.
//
// The channel has multiple producers: the root processing invocation plus
// one producer per in-flight embedded output, since embedded outputs carry
// the sink forward for recursive processing. Producers are reference
// counted; the channel closes when the count drops to zero, which is what
// terminates the output-handling loop.
//
// The counting discipline: Acquire is only called while the caller already
// holds a producer reference (the root reference is taken before
// CloseWhenIdle starts waiting), so the count can never touch zero early.
type Sink struct {
	ch        chan Result
	producers sync.WaitGroup
	closeOnce sync.Once
}

// NewSink creates the bounded output channel and returns its producer
// handle along with the consumer side.
func NewSink() (*Sink, <-chan Result) {
	s := &Sink{ch: make(chan Result, OutputChannelCapacity)}
	return s, s.ch
}

// Acquire registers a new producer. Must be paired with Release.
func (s *Sink) Acquire() {
	s.producers.Add(1)
}

// Release unregisters a producer.
func (s *Sink) Release() {
	s.producers.Done()
}

// CloseWhenIdle closes the channel once every producer has released. Call at
// most once, after the first Acquire.
func (s *Sink) CloseWhenIdle() {
	s.closeOnce.Do(func() {
		go func() {
			s.producers.Wait()
			close(s.ch)
		}()
	})
}

// Send delivers a result to the channel, honoring cancellation.
func (s *Sink) Send(ctx context.Context, res Result) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- res:
		return nil
	}
}
