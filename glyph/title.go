package glyph

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"multirom/log"
)

const (
	TitleWidth  = 160
	TitleHeight = 32

	tileLen  = 16
	maxTiles = 0x23
	tilesLen = maxTiles * tileLen
	mapLen   = (TitleWidth / 8) * (TitleHeight / 8)
)

// Banner is the title banner converted for the menu.
type Banner struct {
	Tiles   []byte    // 0x230 bytes, tile 0 is blank
	Map     []byte    // one tile id per 8x8 block, row major
	Palette [4]uint16 // GBC colors
	Dropped int       // blocks mapped to tile 0 for lack of space
}

// RGB888ToGBC converts a 24-bit color to the 15-bit GBC format.
func RGB888ToGBC(r, g, b uint8) uint16 {
	c5 := func(v uint8) uint16 {
		return uint16(math.RoundToEven(float64(v) / 255 * 31))
	}
	return c5(r) | c5(g)<<5 | c5(b)<<10
}

func colorToGBC(c color.Color) uint16 {
	rgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB888ToGBC(rgba.R, rgba.G, rgba.B)
}

// EncodeBanner converts a 160x32 paletted image. Identical 8x8 blocks share a
// tile; once the tile area is full, new blocks are mapped to the blank tile.
func EncodeBanner(img image.Image) (*Banner, error) {
	p, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("title image must be an indexed image")
	}
	b := p.Bounds()
	if b.Dx() != TitleWidth || b.Dy() != TitleHeight {
		return nil, fmt.Errorf("title image must be %dx%d pixels, got %dx%d", TitleWidth, TitleHeight, b.Dx(), b.Dy())
	}

	ban := &Banner{Map: make([]byte, 0, mapLen)}
	for i := range ban.Palette {
		if i < len(p.Palette) {
			ban.Palette[i] = colorToGBC(p.Palette[i])
		}
	}

	tiles := [][tileLen]byte{{}}
	for by := b.Min.Y; by < b.Max.Y; by += 8 {
		for bx := b.Min.X; bx < b.Max.X; bx += 8 {
			var tile [tileLen]byte
			for y := range 8 {
				for x := range 8 {
					v := p.ColorIndexAt(bx+x, by+y)
					tile[y*2] |= (v & 2) >> 1 << (7 - x)
					tile[y*2+1] |= (v & 1) << (7 - x)
				}
			}

			id := -1
			for i := range tiles {
				if tiles[i] == tile {
					id = i
					break
				}
			}
			switch {
			case id >= 0:
			case len(tiles) < maxTiles:
				id = len(tiles)
				tiles = append(tiles, tile)
			default:
				id = 0
				ban.Dropped++
			}
			ban.Map = append(ban.Map, uint8(id))
		}
	}

	ban.Tiles = make([]byte, 0, tilesLen)
	for i := range tiles {
		ban.Tiles = append(ban.Tiles, tiles[i][:]...)
	}
	ban.Tiles = append(ban.Tiles, bytes.Repeat([]byte{0}, tilesLen-len(ban.Tiles))...)

	if ban.Dropped > 0 {
		log.ModGlyph.WarnZ("not enough space for the complete title graphics").Int("dropped", ban.Dropped).End()
	}
	return ban, nil
}

// LoadBanner reads and converts a PNG title image.
func LoadBanner(path string) (*Banner, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	ban, err := EncodeBanner(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ban, nil
}
