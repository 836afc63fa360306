package menu

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrNoGraphics = errors.New("layout has no room for this data")

// WriteSubtitles writes the per-slot subtitle lengths, the concatenated
// glyph ids and the glyph bitmaps.
func (t *Template) WriteSubtitles(lengths, chars, glyphs []byte) error {
	s := t.Layout.Subtitles
	if s == nil {
		return fmt.Errorf("subtitles: %w", ErrNoGraphics)
	}
	switch {
	case len(lengths) > t.Layout.MaxItems:
		return fmt.Errorf("subtitles: %d lengths, capacity %d", len(lengths), t.Layout.MaxItems)
	case len(chars) > s.MaxChars:
		return fmt.Errorf("subtitles: %d chars, capacity %d", len(chars), s.MaxChars)
	case len(glyphs) > s.MaxGlyphs*GlyphLen:
		return fmt.Errorf("subtitles: %d glyph bytes, capacity %d", len(glyphs), s.MaxGlyphs*GlyphLen)
	}
	copy(t.Data[s.Lengths:], lengths)
	copy(t.Data[s.Chars:], chars)
	copy(t.Data[s.Glyphs:], glyphs)
	return nil
}

// WriteTitleGfx writes the title banner tiles, tile map and its 4 colors
// palette. The palette is stored in the order the menu expects: colors 0, 2,
// 1 and 3.
func (t *Template) WriteTitleGfx(tiles, tilemap []byte, palette [4]uint16) error {
	g := t.Layout.TitleGfx
	if g == nil {
		return fmt.Errorf("title graphics: %w", ErrNoGraphics)
	}
	if len(tiles) != TitleTilesLen || len(tilemap) != TitleMapLen {
		return fmt.Errorf("title graphics: got %d tile bytes and %d map bytes", len(tiles), len(tilemap))
	}
	copy(t.Data[g.Tiles:], tiles)
	copy(t.Data[g.Map:], tilemap)
	for i, c := range []uint16{palette[0], palette[2], palette[1], palette[3]} {
		binary.LittleEndian.PutUint16(t.Data[g.Palette+2*i:], c)
	}
	return nil
}
