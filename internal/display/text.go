package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// TextRenderer draws text into frame buffers. One renderer is shared
// by all managers; it is safe for the single display goroutine only.
type TextRenderer struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewTextRenderer loads the bundled typeface
func NewTextRenderer() (*TextRenderer, error) {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return &TextRenderer{
		font:  f,
		faces: make(map[float64]font.Face),
	}, nil
}

func (r *TextRenderer) face(size float64) font.Face {
	if face, ok := r.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(r.font, &truetype.Options{Size: size})
	r.faces[size] = face
	return face
}

// Draw renders text with its baseline at (x, y)
func (r *TextRenderer) Draw(dst *image.RGBA, x, y int, size float64, col color.Color, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: r.face(size),
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Width measures the advance of text at a size, in pixels
func (r *TextRenderer) Width(size float64, text string) int {
	return font.MeasureString(r.face(size), text).Ceil()
}

// DrawCentered renders text horizontally centered in the frame with
// its baseline at y
func (r *TextRenderer) DrawCentered(dst *image.RGBA, y int, size float64, col color.Color, text string) {
	w := r.Width(size, text)
	x := (dst.Bounds().Dx() - w) / 2
	if x < 0 {
		x = 0
	}
	r.Draw(dst, x, y, size, col, text)
}
