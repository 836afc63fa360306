// Package glyph builds the bitmaps shown by menus with subtitles and a
// graphic title: 16x16 monochrome subtitle glyphs and the 2bpp title banner.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"multirom/log"
)

const (
	Size  = 16 // glyph width and height
	Bytes = 32

	StripWidth  = MaxRunes * Size
	StripHeight = Size
	MaxRunes    = 10
)

var ErrStripSize = fmt.Errorf("subtitle image must be %dx%d pixels", StripWidth, StripHeight)

// A Glyph is a 16x16 1bpp bitmap, stored as 4 8x8 tiles in top-left,
// bottom-left, top-right, bottom-right order. A set bit is a dark pixel.
type Glyph [Bytes]byte

var tileOrder = [4]image.Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

func dark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 0x80
}

// Encode converts the 16x16 image at the top-left corner of img.
func Encode(img image.Image) Glyph {
	var g Glyph
	o := img.Bounds().Min
	i := 0
	for _, t := range tileOrder {
		for y := range 8 {
			var b byte
			for x := range 8 {
				px := o.X + t.X*8 + x
				py := o.Y + t.Y*8 + y
				if dark(img.At(px, py)) {
					b |= 1 << (7 - x)
				}
			}
			g[i] = b
			i++
		}
	}
	return g
}

// Renderer draws single characters into glyphs.
type Renderer struct {
	face font.Face
}

// NewRenderer returns a renderer using the OpenType font at path, at 16
// pixels. When path is empty or the file doesn't exist, the built-in 7x13
// face is used instead.
func NewRenderer(path string) (*Renderer, error) {
	if path == "" {
		return &Renderer{face: basicfont.Face7x13}, nil
	}
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModGlyph.WarnZ("font not found, using built-in face").String("path", path).End()
		return &Renderer{face: basicfont.Face7x13}, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := opentype.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	return &Renderer{face: face}, nil
}

// Render draws r horizontally centered, its ascent touching the top edge.
func (rd *Renderer) Render(r rune) Glyph {
	dst := image.NewGray(image.Rect(0, 0, Size, Size))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	s := string(r)
	w := font.MeasureString(rd.face, s)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: rd.face,
		Dot: fixed.Point26_6{
			X: (fixed.I(Size) - w) / 2,
			Y: rd.face.Metrics().Ascent,
		},
	}
	d.DrawString(s)
	return Encode(dst)
}

// RenderString renders each character of s.
func (rd *Renderer) RenderString(s string) []Glyph {
	var gs []Glyph
	for _, r := range s {
		gs = append(gs, rd.Render(r))
	}
	return gs
}

// SliceStrip cuts a 160x16 image into its 10 glyphs.
func SliceStrip(img image.Image) ([]Glyph, error) {
	b := img.Bounds()
	if b.Dx() != StripWidth || b.Dy() != StripHeight {
		return nil, fmt.Errorf("%w, got %dx%d", ErrStripSize, b.Dx(), b.Dy())
	}
	gs := make([]Glyph, 0, MaxRunes)
	for x := b.Min.X; x < b.Max.X; x += Size {
		sub := image.Rect(x, b.Min.Y, x+Size, b.Max.Y)
		gs = append(gs, Encode(subImage(img, sub)))
	}
	return gs, nil
}

// LoadStrip reads a PNG subtitle strip.
func LoadStrip(path string) ([]Glyph, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	gs, err := SliceStrip(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gs, nil
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
