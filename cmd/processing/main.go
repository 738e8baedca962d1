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

// Command processing extracts text, metadata, a PDF rendering, and embedded
// files from an input file into a single ZIP archive.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/everyday-items/toolkit/util/logger"
	"github.com/urfave/cli/v2"

	"github.com/biewers2/processing-go/pkg/activity"
	"github.com/biewers2/processing-go/pkg/process"
	"github.com/biewers2/processing-go/pkg/services"
)

const exitUnsupportedType = 2

func main() {
	app := &cli.App{
		Name:  "processing",
		Usage: "Process a file into an archive of extracted artifacts and embedded files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "path of the file to process",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "path to write the output archive to (overwritten)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "mimetype",
				Aliases:  []string{"m"},
				Usage:    "declared MIME type of the input",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "types",
				Aliases: []string{"t"},
				Usage:   "artifact kinds to produce (text, metadata, pdf)",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "produce every artifact kind",
			},
		},
		Before: func(c *cli.Context) error {
			return logger.Init(&logger.Config{
				Level:  services.GetConfig().LogLevel(),
				Format: "text",
				Output: "stderr",
			})
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var unsupported *process.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			code = exitUnsupportedType
		}
		os.Exit(code)
	}
}

func run(c *cli.Context) error {
	kinds, err := parseKinds(c)
	if err != nil {
		return err
	}

	inputPath := c.String("input")
	if info, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file %s: %w", inputPath, err)
	} else if !info.Mode().IsRegular() {
		return fmt.Errorf("input %s is not a regular file", inputPath)
	}

	archive, err := activity.Process(
		c.Context,
		process.FileInput(inputPath),
		c.String("mimetype"),
		kinds,
		true,
	)
	if err != nil {
		return err
	}
	defer archive.Close()

	return writeOutput(archive, c.String("output"))
}

func parseKinds(c *cli.Context) (process.Kinds, error) {
	if c.Bool("all") {
		return process.AllKinds(), nil
	}

	var kinds process.Kinds
	for _, name := range c.StringSlice("types") {
		kind, err := process.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if !kinds.Contains(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

func writeOutput(archive *os.File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", path, err)
	}
	defer out.Close()

	buf := make([]byte, 1<<20)
	if _, err := io.CopyBuffer(out, archive, buf); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	return nil
}
