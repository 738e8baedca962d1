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

import "github.com/biewers2/processing-go/pkg/workspace"

// OutputData describes a single file produced or discovered by a processor.
type OutputData struct {
	// Name is the display name, used as the archive leaf filename.
	Name string

	// Path owns the temp file holding the bytes until the archive builder
	// consumes it.
	Path *workspace.TempPath

	// Mimetype is the declared type of the artifact, or the detected type
	// for embedded items.
	Mimetype string

	// Kinds is the artifact set requested for the item, inherited by
	// children of embedded items.
	Kinds Kinds

	// Fingerprint is the content-addressed identifier of the bytes.
	Fingerprint string
}

// Output is one result of processing: either a freshly generated artifact
// (Processed) or a child file discovered inside the parent (Embedded).
// The two variants are matched by type switch.
type Output interface {
	output()
}

// Processed is a freshly generated artifact: extracted text, metadata JSON,
// or a rendered PDF.
type Processed struct {
	State State
	Data  OutputData
}

func (Processed) output() {}

// Embedded is a child file discovered inside the parent. It carries the
// producing channel's sink so recursive processing of the child emits into
// the same stream.
type Embedded struct {
	State State
	Data  OutputData
	Sink  *Sink
}

func (Embedded) output() {}

// Result is the element type of the output channel. Exactly one of Output
// and Err is set.
type Result struct {
	Output Output
	Err    error
}
