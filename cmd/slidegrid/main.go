// Copyright 2025 walteh LLC
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

// slidegrid stitches pre-rendered slide images into a labeled
// thumbnail grid.
//
// Usage:
//
//	slidegrid render/
//	slidegrid 'render/slide*.png' -cols 4 -o review.jpg
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/grid"
)

var (
	cols   = flag.Int("cols", grid.DefaultCols, "Number of grid columns")
	output string
	debug  = flag.Bool("debug", false, "Enable debug logging")
)

func init() {
	flag.StringVar(&output, "output", "", "Output path (default: <input>_grid.jpg)")
	flag.StringVar(&output, "o", "", "Output path (shorthand)")
}

func main() {
	// Parse flags
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: slidegrid [flags] <dir-or-glob>")
		os.Exit(1)
	}
	input := flag.Arg(0)

	// Set up logger
	logLevel := zerolog.InfoLevel
	if *debug {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	out := output
	if out == "" {
		base := filepath.Clean(input)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		out = base + "_grid.jpg"
	}

	// Collect slides
	slides, err := grid.Collect(ctx, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Compose the grid
	img, err := grid.Compose(ctx, slides, *cols)
	if err != nil {
		logger.Fatal().Err(err).Msg("composing grid")
	}

	if err := grid.WriteJPEG(out, img); err != nil {
		logger.Fatal().Err(err).Msg("writing grid")
	}

	fmt.Printf("✓ %d slides → %s\n", len(slides), out)
}
