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
	"errors"
	"fmt"

	"github.com/everyday-items/toolkit/lang/syncx"
)

// XdgMime identifies file types through the xdg-mime helper tool.
type XdgMime struct{}

var xdgMimeInstance = syncx.NewLazy(func() *XdgMime {
	return &XdgMime{}
})

// GetXdgMime returns the process-wide xdg-mime adapter.
func GetXdgMime() *XdgMime {
	return xdgMimeInstance.Get()
}

// QueryFiletype runs `xdg-mime query filetype <path>` and returns the
// trimmed stdout. A non-zero exit is fatal with the tool's stderr attached.
func (x *XdgMime) QueryFiletype(ctx context.Context, path string) (string, error) {
	var stdout bytes.Buffer
	err := StreamCommand(ctx, "xdg-mime", []string{"query", "filetype", path}, nil, &stdout)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && !cmdErr.PreExit() {
			return "", fmt.Errorf("'xdg-mime' failed to detect mimetype: %w: %s", cmdErr, cmdErr.Stderr)
		}
		return "", err
	}
	return trimToString(stdout.Bytes()), nil
}
