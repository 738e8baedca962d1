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

// Package engine holds the concurrency primitives shared by the pipeline
// stages.
package engine

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// PanicInfo holds details about a recovered panic: the value passed to
// panic(...) and a stack trace captured at the recovery site.
//
// Pipeline workers run in pooled goroutines and cannot return errors
// naturally, so panics are captured out-of-band and surfaced by the
// supervisor once the pool has been joined.
type PanicInfo struct {
	Value any
	Stack []byte
}

// PanicStore is a write-once container for the first panic recovered across
// a group of workers. The zero value is ready to use; a nil store makes
// every method a no-op so recovery paths never need nil checks.
type PanicStore struct {
	once sync.Once
	mu   sync.Mutex
	info PanicInfo
	set  bool
}

// Store records panic information. Only the first call wins; the stack is
// copied so callers can pass transient slices.
func (ps *PanicStore) Store(value any, stack []byte) {
	if ps == nil {
		return
	}
	ps.once.Do(func() {
		stackCopy := make([]byte, len(stack))
		copy(stackCopy, stack)

		ps.mu.Lock()
		ps.info = PanicInfo{Value: value, Stack: stackCopy}
		ps.set = true
		ps.mu.Unlock()
	})
}

// Load retrieves the stored panic information, if any.
func (ps *PanicStore) Load() (PanicInfo, bool) {
	if ps == nil {
		return PanicInfo{}, false
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.info, ps.set
}

// Err converts the stored panic into an error, or nil when no panic was
// recorded.
func (ps *PanicStore) Err() error {
	info, ok := ps.Load()
	if !ok {
		return nil
	}
	return fmt.Errorf("worker panicked: %v\n%s", info.Value, info.Stack)
}

// Recover is meant to be deferred at the top of a pooled worker. It
// swallows the panic after recording it, so one faulty item cannot take the
// pool down.
func (ps *PanicStore) Recover() {
	if r := recover(); r != nil {
		ps.Store(r, debug.Stack())
	}
}
