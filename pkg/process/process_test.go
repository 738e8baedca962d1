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
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"text", KindText},
		{"TEXT", KindText},
		{"metadata", KindMetadata},
		{"pdf", KindPdf},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: got %v want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseKind("spreadsheet"); err == nil {
		t.Fatal("unknown kind must not parse")
	}
}

func TestState_ChildExtendsChain(t *testing.T) {
	root := State{}
	child := root.Child("aaa")
	grandchild := child.Child("bbb")

	if len(root.IDChain) != 0 {
		t.Fatal("child must not mutate the parent state")
	}
	if got := child.IDChain; len(got) != 1 || got[0] != "aaa" {
		t.Fatalf("unexpected child chain: %v", got)
	}
	if got := grandchild.IDChain; len(got) != 2 || got[0] != "aaa" || got[1] != "bbb" {
		t.Fatalf("unexpected grandchild chain: %v", got)
	}
}

func TestSink_ClosesWhenAllProducersRelease(t *testing.T) {
	sink, outputs := NewSink()

	sink.Acquire()
	sink.CloseWhenIdle()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pctx := NewContext("application/octet-stream", nil, sink)
	if err := pctx.EmitError(ctx, errors.New("boom")); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	sink.Release()

	var results []Result
	for res := range outputs {
		results = append(results, res)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSink_EmbeddedOutputHoldsProducer(t *testing.T) {
	sink, outputs := NewSink()

	sink.Acquire()
	sink.CloseWhenIdle()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pctx := NewContext("application/zip", nil, sink)
	if err := pctx.EmitEmbedded(ctx, OutputData{Name: "member", Fingerprint: "fff"}); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	// The root producer is done, but the embedded output still holds a
	// reference, so the channel must stay open.
	sink.Release()

	select {
	case res := <-outputs:
		embedded, ok := res.Output.(Embedded)
		if !ok {
			t.Fatalf("expected an embedded output, got %+v", res)
		}
		// Handling the output releases its reference; only then does the
		// channel close.
		embedded.Sink.Release()
	case <-time.After(5 * time.Second):
		t.Fatal("embedded output never arrived")
	}

	select {
	case _, open := <-outputs:
		if open {
			t.Fatal("no further outputs expected")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after the last release")
	}
}

func TestContext_EmitsCloneState(t *testing.T) {
	sink, outputs := NewSink()
	sink.Acquire()
	sink.CloseWhenIdle()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pctx := NewContext("message/rfc822", Kinds{KindText}, sink).
		WithState(State{IDChain: []string{"root"}})
	if err := pctx.EmitProcessed(ctx, OutputData{Name: "extracted.txt"}); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	sink.Release()

	res := <-outputs
	processed, ok := res.Output.(Processed)
	if !ok {
		t.Fatalf("expected a processed output, got %+v", res)
	}
	if len(processed.State.IDChain) != 1 || processed.State.IDChain[0] != "root" {
		t.Fatalf("output state must carry the producing chain: %v", processed.State.IDChain)
	}
}

type nopProcessor struct{ called bool }

func (p *nopProcessor) Process(context.Context, Context, Input) error {
	p.called = true
	return nil
}

func (p *nopProcessor) Name() string { return "nop" }

func TestDispatcher_RoutesByMimetype(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := &nopProcessor{}
	d := NewDispatcher().Register(p, "application/test")

	sink, _ := NewSink()
	pctx := NewContext("application/test", nil, sink)
	if err := d.Process(ctx, pctx, Input{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !p.called {
		t.Fatal("registered processor was not invoked")
	}
}

func TestDispatcher_UnsupportedMimetype(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := NewDispatcher()
	sink, _ := NewSink()
	pctx := NewContext("application/x-unknown", nil, sink)

	err := d.Process(ctx, pctx, Input{})
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedTypeError, got %v", err)
	}
	if unsupported.Mimetype != "application/x-unknown" {
		t.Fatalf("error must carry the mimetype, got %q", unsupported.Mimetype)
	}
}
