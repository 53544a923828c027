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

// Package grid stitches pre-rendered slide images into a labeled
// thumbnail grid for visual regression review
package grid

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// ThumbWidth is the width of one thumbnail cell in pixels
	ThumbWidth = 480
	// ThumbHeight is the height of one thumbnail cell in pixels
	ThumbHeight = 270
	// DefaultCols is the default number of grid columns
	DefaultCols = 3
	// JPEGQuality is the encoder quality for the grid output
	JPEGQuality = 92

	pad      = 16
	border   = 2
	fontSize = 18

	labelHeight = fontSize + 8
)

// 🖼️ Slide is one pre-rendered slide image and its grid label
type Slide struct {
	Path  string
	Label string
}

// 📐 Geometry is the pixel layout of a thumbnail grid
type Geometry struct {
	Rows       int
	Cols       int
	CellWidth  int
	CellHeight int
	Width      int
	Height     int
}

// 📏 Layout computes the grid geometry for the given slide count
func Layout(slides, cols int) Geometry {
	if cols <= 0 {
		cols = DefaultCols
	}
	rows := (slides + cols - 1) / cols
	cellW := ThumbWidth + pad
	cellH := ThumbHeight + labelHeight + pad
	return Geometry{
		Rows:       rows,
		Cols:       cols,
		CellWidth:  cellW,
		CellHeight: cellH,
		Width:      cols*cellW + pad,
		Height:     rows*cellH + pad,
	}
}

// slide filenames end in their slide number (slide1.png, slide10.png)
var trailingNumber = regexp.MustCompile(`(\d+)\D*$`)

// 🔍 Collect finds slide images under input, which is either a directory
// or a glob pattern. Slides are ordered by the number in their filename
// and labeled "Slide N" by position.
func Collect(ctx context.Context, input string) ([]Slide, error) {
	logger := zerolog.Ctx(ctx)

	pattern := input
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		pattern = filepath.Join(input, "*.{png,jpg,jpeg}")
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Errorf("expanding slide pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no slides found")
	}

	sort.Slice(matches, func(i, j int) bool {
		ni, iOK := slideNumber(matches[i])
		nj, jOK := slideNumber(matches[j])
		if iOK && jOK && ni != nj {
			return ni < nj
		}
		return matches[i] < matches[j]
	})

	slides := make([]Slide, 0, len(matches))
	for i, m := range matches {
		slides = append(slides, Slide{
			Path:  m,
			Label: "Slide " + strconv.Itoa(i+1),
		})
	}

	logger.Debug().Int("slides", len(slides)).Str("pattern", pattern).Msg("collected slides")
	return slides, nil
}

func slideNumber(path string) (int, bool) {
	m := trailingNumber.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// 🏭 Compose stitches the slides into a single labeled grid image
func Compose(ctx context.Context, slides []Slide, cols int) (*image.RGBA, error) {
	if len(slides) == 0 {
		return nil, errors.Errorf("no slides to compose")
	}

	geo := Layout(len(slides), cols)
	canvas := image.NewRGBA(image.Rect(0, 0, geo.Width, geo.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for idx, slide := range slides {
		x := pad + (idx%geo.Cols)*geo.CellWidth
		y := pad + (idx/geo.Cols)*geo.CellHeight

		thumb, err := loadThumbnail(slide.Path)
		if err != nil {
			return nil, err
		}

		drawLabel(canvas, slide.Label, x, y)

		// Center the thumbnail in its cell below the label
		w, h := thumb.Bounds().Dx(), thumb.Bounds().Dy()
		tx := x + (ThumbWidth-w)/2
		ty := y + labelHeight + (ThumbHeight-h)/2
		draw.Draw(canvas, image.Rect(tx, ty, tx+w, ty+h), thumb, thumb.Bounds().Min, draw.Src)
		drawBorder(canvas, tx, ty, w, h)
	}

	return canvas, nil
}

// 📥 loadThumbnail decodes a slide image, shrinking it to fit the
// thumbnail box while preserving aspect ratio. Smaller images are
// left at their native size.
func loadThumbnail(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening slide %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Errorf("decoding slide %s: %w", path, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= ThumbWidth && h <= ThumbHeight {
		return src, nil
	}

	scale := float64(ThumbWidth) / float64(w)
	if s := float64(ThumbHeight) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst, nil
}

// ✏️ drawLabel centers the label over the thumbnail column
func drawLabel(dst *image.RGBA, label string, x, y int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x+(ThumbWidth-width)/2, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)
}

// 🔲 drawBorder frames the pasted thumbnail with a gray outline
func drawBorder(dst *image.RGBA, x, y, w, h int) {
	gray := image.NewUniform(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
	edges := []image.Rectangle{
		image.Rect(x-border, y-border, x+w+border, y),
		image.Rect(x-border, y+h, x+w+border, y+h+border),
		image.Rect(x-border, y, x, y+h),
		image.Rect(x+w, y, x+w+border, y+h),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge, gray, image.Point{}, draw.Src)
	}
}

// 💾 WriteJPEG encodes the grid image to path
func WriteJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		f.Close()
		return errors.Errorf("encoding %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return errors.Errorf("closing %s: %w", path, err)
	}
	return nil
}
