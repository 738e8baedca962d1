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
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/everyday-items/toolkit/lang/syncx"
)

const htmlToPdfProgram = "wkhtmltopdf"

// Hardened flag set: no JS, no plugins, no external or local resources, no
// forms, no TOC back-links. The bogus proxy blocks any network access a
// disabled feature might still attempt.
var htmlToPdfArgs = []string{
	"--quiet",
	"--encoding", "utf-8",
	"--disable-external-links",
	"--disable-internal-links",
	"--disable-forms",
	"--disable-local-file-access",
	"--disable-javascript",
	"--disable-toc-back-links",
	"--disable-plugins",
	"--proxy", "bogusproxy",
	"--proxy-hostname-lookup",
	"-",
	"-",
}

// HtmlToPdf renders HTML to PDF through the wkhtmltopdf subprocess, HTML in
// on stdin and PDF out on stdout.
type HtmlToPdf struct{}

var htmlToPdfInstance = syncx.NewLazy(func() *HtmlToPdf {
	return &HtmlToPdf{}
})

// GetHtmlToPdf returns the process-wide renderer adapter.
func GetHtmlToPdf() *HtmlToPdf {
	return htmlToPdfInstance.Get()
}

// Render streams input HTML through the renderer into output.
//
// wkhtmltopdf exits with code 1 when it hit warnings but still produced a
// valid PDF; that outcome is tolerated. Any other non-zero exit is fatal.
func (h *HtmlToPdf) Render(ctx context.Context, input io.Reader, output io.Writer) error {
	err := StreamCommand(ctx, htmlToPdfProgram, htmlToPdfArgs, input, output)
	if err == nil {
		return nil
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Status != nil && *cmdErr.Status == 1 {
		slog.Warn("html-to-pdf rendered with warnings", "stderr", cmdErr.Stderr)
		return nil
	}
	return err
}
