// Package menu patches the menu program placed at the start of a compilation:
// directory tables, counters, signature block and optional graphics, at the
// addresses given by a Layout.
package menu

import (
	"fmt"
	"maps"
	"slices"

	"multirom/dirent"
)

// Layout gives the addresses of the tables of a menu template. All addresses
// are offsets in the 32KB template.
type Layout struct {
	Template     string `toml:"template"` // template file name
	NumItems     int    `toml:"num_items"`
	NumPages     int    `toml:"num_pages"`
	Params       int    `toml:"params"`
	Titles       int    `toml:"titles"`
	MenuTitle    int    `toml:"menu_title"` // 0 if the menu has no text title
	MaxItems     int    `toml:"max_items"`
	ItemsPerPage int    `toml:"items_per_page"`
	MetaBase     int    `toml:"meta_base"`
	MetaSlots    int    `toml:"meta_slots"`

	Subtitles *SubtitleLayout `toml:"subtitles,omitempty"`
	TitleGfx  *TitleGfxLayout `toml:"title_gfx,omitempty"`
}

// SubtitleLayout locates the subtitle tables: one length byte per directory
// slot, the concatenated glyph ids of all slots, and the glyph bitmaps.
type SubtitleLayout struct {
	Lengths   int    `toml:"lengths"`
	Chars     int    `toml:"chars"`
	MaxChars  int    `toml:"max_chars"`
	Glyphs    int    `toml:"glyphs"`
	MaxGlyphs int    `toml:"max_glyphs"`
	Font      string `toml:"font"` // OpenType font, the built-in face is used if empty
}

// TitleGfxLayout locates the title banner tiles, its tile map and palette.
type TitleGfxLayout struct {
	Tiles   int    `toml:"tiles"`
	Map     int    `toml:"map"`
	Palette int    `toml:"palette"`
	Image   string `toml:"image"`
}

const (
	TitleTilesLen = 0x230
	TitleMapLen   = 0x50
	PaletteLen    = 8
	GlyphLen      = 32
)

// Standard is the layout of the original menu.
func Standard() Layout {
	return Layout{
		Template:     "menu.bin",
		NumItems:     0x4046,
		NumPages:     0x404B,
		Params:       0x46FA,
		Titles:       0x4EA0,
		MenuTitle:    0x4272,
		MaxItems:     108,
		ItemsPerPage: 11,
		MetaBase:     0x1000,
		MetaSlots:    16,
	}
}

// CN is the layout of the menu with graphic title and subtitles.
func CN() Layout {
	return Layout{
		Template:     "menu_cn.bin",
		NumItems:     0x4043,
		NumPages:     0x4048,
		Params:       0x4655,
		Titles:       0x6F2F,
		MaxItems:     108,
		ItemsPerPage: 10,
		MetaBase:     0x1000,
		MetaSlots:    16,
		Subtitles: &SubtitleLayout{
			Lengths:   0x4D8B,
			Chars:     0x6CF7,
			MaxChars:  248,
			Glyphs:    0x4DF7,
			MaxGlyphs: 248,
			Font:      "font/unifont.otf",
		},
		TitleGfx: &TitleGfxLayout{
			Tiles:   0x4809,
			Map:     0x4A3B,
			Palette: 0x4BA3,
			Image:   "title_cn.png",
		},
	}
}

var builtins = map[string]func() Layout{
	"standard": Standard,
	"cn":       CN,
}

// Lookup returns the layout called name, looking in custom first.
func Lookup(name string, custom map[string]Layout) (Layout, error) {
	if l, ok := custom[name]; ok {
		return l, l.Validate()
	}
	if fn, ok := builtins[name]; ok {
		return fn(), nil
	}
	names := slices.Sorted(maps.Keys(builtins))
	names = append(names, slices.Sorted(maps.Keys(custom))...)
	return Layout{}, fmt.Errorf("unknown menu layout %q (available: %v)", name, names)
}

type region struct {
	name     string
	off, len int
}

func (l *Layout) regions() []region {
	rs := []region{
		{"num_items", l.NumItems, 1},
		{"num_pages", l.NumPages, 1},
		{"params", l.Params, l.MaxItems * dirent.ParamLen},
		{"titles", l.Titles, l.MaxItems * dirent.TitleLen},
		{"metadata", l.MetaBase, l.MetaSlots * dirent.MetaLen},
	}
	if l.MenuTitle != 0 {
		rs = append(rs, region{"menu_title", l.MenuTitle, dirent.TitleLen})
	}
	if s := l.Subtitles; s != nil {
		rs = append(rs,
			region{"subtitles.lengths", s.Lengths, l.MaxItems},
			region{"subtitles.chars", s.Chars, s.MaxChars},
			region{"subtitles.glyphs", s.Glyphs, s.MaxGlyphs * GlyphLen},
		)
	}
	if g := l.TitleGfx; g != nil {
		rs = append(rs,
			region{"title_gfx.tiles", g.Tiles, TitleTilesLen},
			region{"title_gfx.map", g.Map, TitleMapLen},
			region{"title_gfx.palette", g.Palette, PaletteLen},
		)
	}
	return rs
}

// Validate checks that all tables lie in the template, after the header.
func (l *Layout) Validate() error {
	if l.Template == "" {
		return fmt.Errorf("layout: no template file")
	}
	if l.MaxItems <= 0 || l.MaxItems > 0xFF || l.ItemsPerPage <= 0 {
		return fmt.Errorf("layout: invalid item counts %d/%d", l.MaxItems, l.ItemsPerPage)
	}
	if l.Subtitles != nil && l.Subtitles.MaxGlyphs > 0xFF {
		return fmt.Errorf("layout: at most 255 subtitle glyphs")
	}
	for _, r := range l.regions() {
		if r.off < headerEnd || r.off+r.len > TemplateSize {
			return fmt.Errorf("layout: %s region 0x%X+0x%X out of bounds", r.name, r.off, r.len)
		}
	}
	return nil
}
