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

import "fmt"

// UnsupportedTypeError reports that no processor is registered for a MIME
// type. Non-retryable.
type UnsupportedTypeError struct {
	Mimetype string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported mimetype: %s", e.Mimetype)
}

// ParseError reports a format-specific parse failure: a broken mbox
// message, an unparseable RFC 822 message, a corrupt archive entry.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
