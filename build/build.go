// Package build assembles a compilation: it places the modules, patches the
// menu with their directory and writes the final image and its save file.
package build

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"time"

	"multirom/alloc"
	"multirom/dirent"
	"multirom/gbrom"
	"multirom/glyph"
	"multirom/log"
	"multirom/menu"
	"multirom/romset"
)

const (
	SaveSlotSize = 0x8000
	SaveFileSize = alloc.NumBanks * SaveSlotSize
	PartSize     = 0x800000

	DefaultMenuTitle = "256M COLLECTION"
)

var ErrNoModules = errors.New("no module could be added, please place program files into the input directory")

// Options controls a build.
type Options struct {
	MenuTitle string
	Now       time.Time

	// Subtitle rendering, used when the layout has subtitles. The built-in
	// face is used if nil.
	Renderer *glyph.Renderer
	// Title banner, used when the layout has room for it.
	Banner *glyph.Banner
}

// Entry is a directory entry of the compilation.
type Entry struct {
	Slot int
	alloc.Placement
	Param    dirent.Param
	Subtitle []byte // glyph ids
}

// Context holds the state of a build, from the placement of the modules to
// the final image. Stages must run in order.
type Context struct {
	Template *menu.Template
	Modules  []*romset.Module
	Options  Options

	Space    alloc.Space
	Result   alloc.Result
	Entries  []Entry           // directory, in slot order
	Unlisted []alloc.Placement // placed but past the directory capacity
	Glyphs   *glyph.Table

	Output []byte // whole address space
	SRAM   []byte // save slots of all the banks

	Code  string
	Built time.Time
	Image []byte // final image, a prefix of Output
}

// NewContext returns a context for building mods with tmpl. tmpl is modified
// by the build.
func NewContext(tmpl *menu.Template, mods []*romset.Module, opts Options) *Context {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.MenuTitle == "" {
		opts.MenuTitle = DefaultMenuTitle
	}
	c := &Context{
		Template: tmpl,
		Modules:  mods,
		Options:  opts,
		Output:   bytes.Repeat([]byte{alloc.Fill}, alloc.SpaceSize),
		SRAM:     make([]byte, SaveFileSize),
	}
	c.Space.Reserve(0, menu.TemplateSize)
	return c
}

// Build runs all the stages.
func Build(tmpl *menu.Template, mods []*romset.Module, opts Options) (*Context, error) {
	c := NewContext(tmpl, mods, opts)
	stages := []struct {
		name string
		fn   func() error
	}{
		{"allocate", c.Allocate},
		{"write modules", c.WriteModules},
		{"directory", c.WriteDirectory},
		{"graphics", c.WriteGraphics},
		{"stamp", c.Stamp},
		{"finish", c.Finish},
	}
	for _, st := range stages {
		if err := st.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
		log.ModBuild.DebugZ("stage done").String("stage", st.name).End()
	}
	return c, nil
}

// Allocate places the modules.
func (c *Context) Allocate() error {
	c.Result = alloc.Allocate(&c.Space, c.Modules)
	if len(c.Result.Placed) == 0 {
		return ErrNoModules
	}
	return nil
}

// WriteModules copies the placed modules and their initial save data.
func (c *Context) WriteModules() error {
	for _, p := range c.Result.Placed {
		size := uint32(p.Module.Size)
		if !alloc.FillFree(c.Output, p.Offset, size) {
			return fmt.Errorf("%s: region 0x%X+0x%X overlaps another module", p.Module.Title, p.Offset, size)
		}
		copy(c.Output[p.Offset:], p.Module.ROM)

		if p.Bank != alloc.NoBank && len(p.Module.Save) > 0 {
			copy(c.SRAM[p.Bank*SaveSlotSize:], p.Module.Save)
		}
	}
	return nil
}

// WriteDirectory writes the directory entries, in discovery order, up to the
// capacity of the menu. Placed modules past the capacity stay in the image
// but can't be selected.
func (c *Context) WriteDirectory() error {
	l := c.Template.Layout
	placed := c.Result.ByIndex()
	if len(placed) > l.MaxItems {
		c.Unlisted = placed[l.MaxItems:]
		placed = placed[:l.MaxItems]
		log.ModBuild.WarnZ("directory full, some modules won't be listed").
			Int("capacity", l.MaxItems).
			Int("unlisted", len(c.Unlisted)).
			End()
	}

	items := make([]menu.Item, 0, len(placed))
	c.Entries = make([]Entry, 0, len(placed))
	for slot, p := range placed {
		m := p.Module
		param, err := dirent.EncodeParam(dirent.Entry{
			Offset: p.Offset,
			Size:   uint32(m.Size),
			Save:   p.Bank != alloc.NoBank,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", m.Title, err)
		}

		it := menu.Item{Title: m.Title, Param: param}
		if p.Bank != alloc.NoBank {
			var hash [16]byte
			copy(hash[:], m.Hash[:])
			it.Meta = &dirent.Meta{
				Index:    uint16(m.Index),
				Offset:   p.Offset,
				Size:     uint32(m.Size),
				SaveSize: uint32(m.SaveSize),
				Bank:     uint16(p.Bank),
				Hash:     hash,
			}
		}
		items = append(items, it)
		c.Entries = append(c.Entries, Entry{Slot: slot, Placement: p, Param: param})
	}
	return c.Template.WriteDirectory(items)
}

// WriteGraphics writes subtitles and the title banner, on layouts that
// have them.
func (c *Context) WriteGraphics() error {
	l := c.Template.Layout
	if l.Subtitles != nil {
		if err := c.writeSubtitles(); err != nil {
			return err
		}
	}
	if l.TitleGfx != nil && c.Options.Banner != nil {
		b := c.Options.Banner
		if err := c.Template.WriteTitleGfx(b.Tiles, b.Map, b.Palette); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) writeSubtitles() error {
	s := c.Template.Layout.Subtitles
	rd := c.Options.Renderer
	if rd == nil {
		var err error
		if rd, err = glyph.NewRenderer(""); err != nil {
			return err
		}
	}

	c.Glyphs = glyph.NewTable(s.MaxGlyphs)
	slots := make([][]byte, len(c.Entries))
	for i := range c.Entries {
		gs := subtitleGlyphs(rd, c.Entries[i].Module)
		slots[i] = c.Glyphs.AddAll(gs)
	}

	lengths, chars, replaced := glyph.Pack(slots, s.MaxChars)
	for _, i := range replaced {
		log.ModBuild.WarnZ("no space left for subtitle characters").String("title", c.Entries[i].Module.Title).End()
	}
	pos := 0
	for i := range c.Entries {
		c.Entries[i].Subtitle = chars[pos : pos+int(lengths[i])]
		pos += int(lengths[i])
	}
	return c.Template.WriteSubtitles(lengths, chars, c.Glyphs.Bytes())
}

// subtitleGlyphs returns the glyphs of the subtitle of m: its image strip if
// it has a valid one, else its rendered text, else a blank.
func subtitleGlyphs(rd *glyph.Renderer, m *romset.Module) []glyph.Glyph {
	if m.Strip != "" {
		gs, err := glyph.LoadStrip(m.Strip)
		if err == nil {
			return gs
		}
		log.ModGlyph.WarnZ("ignoring subtitle image").String("path", m.Strip).Error("err", err).End()
	}
	text := m.Subtitle
	if text == "" {
		text = " "
	}
	return rd.RenderString(text)
}

// Stamp writes the signature block, rom code, build date, menu title and
// boot logo into the menu.
func (c *Context) Stamp() error {
	c.Built = c.Options.Now
	c.Code = c.Template.Stamp(c.Built)
	c.Template.SetMenuTitle(c.Options.MenuTitle)
	if len(c.Entries) > 0 {
		hdr, err := gbrom.DecodeHeader(c.Entries[0].Module.ROM)
		if err != nil {
			return err
		}
		c.Template.SetLogo(hdr.Logo())
	}
	return nil
}

// Finish copies the menu in place, trims the unused end of the address
// space, rounds the image size up to a power of two and fixes the header.
func (c *Context) Finish() error {
	copy(c.Output, c.Template.Data)

	n := len(c.Output)
	for n > 0 && c.Output[n-1] == alloc.Fill {
		n--
	}
	size := ImageSize(n)
	c.Image = c.Output[:size]
	c.Image[gbrom.ROMSize] = SizeClass(size)
	gbrom.FixChecksums(c.Image)

	log.ModBuild.InfoZ("image done").
		Int("size", size).
		Hex8("class", c.Image[gbrom.ROMSize]).
		String("code", c.Code).
		End()
	return nil
}

// ImageSize returns the power of two image size holding n bytes, at least
// the size of the menu.
func ImageSize(n int) int {
	size := menu.TemplateSize
	for size < n {
		size *= 2
	}
	return size
}

// SizeClass returns the header ROM size byte of an image of the given size:
// the number of times 32KB must be doubled to reach it.
func SizeClass(size int) uint8 {
	var class uint8
	for temp := menu.TemplateSize; temp < alloc.SpaceSize && temp < size; temp *= 2 {
		class++
	}
	return class
}

// HasSaveData reports whether any save slot holds non-zero data.
func (c *Context) HasSaveData() bool {
	return slices.ContainsFunc(c.SRAM, func(b byte) bool { return b != 0 })
}
