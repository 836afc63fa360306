// Package extract reads back a compilation: its menu header, directory, the
// programs it holds and their save slots.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"multirom/alloc"
	"multirom/build"
	"multirom/gbrom"
	"multirom/log"
	"multirom/menu"
)

var (
	ErrSaveSize    = fmt.Errorf("the compilation save file must be %dKB", build.SaveFileSize/1024)
	ErrOutside     = errors.New("not found inside the compilation")
	ErrNoExportDir = errors.New("no files found for importing")
)

// Entry is a directory entry with the header of the program it points to.
type Entry struct {
	menu.Listed
	Header   gbrom.Header
	Bank     int // save slot bank, or alloc.NoBank
	SaveSize int // declared by the program header
}

// HasSave reports whether the entry was given a save slot.
func (e *Entry) HasSave() bool { return e.Bank != alloc.NoBank }

// ROMName returns the export file name of the program. A '#' after the title
// marks programs whose header declares a save but were packed without one.
func (e *Entry) ROMName() string {
	mark := ""
	if !e.HasSave() && e.SaveSize > 0 {
		mark = "#"
	}
	return fmt.Sprintf("#%03d %s%s%s", e.Slot+1, fileTitle(e.Title), mark, e.Header.Ext())
}

// SaveName returns the export file name of the save data.
func (e *Entry) SaveName() string {
	return fmt.Sprintf("#%03d %s.sav", e.Slot+1, fileTitle(e.Title))
}

func fileTitle(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, s)
}

// Compilation is an opened compilation image.
type Compilation struct {
	Path    string
	Image   []byte
	Info    menu.Info
	Layout  menu.Layout
	SRAM    []byte // nil when there's no save file
	Entries []Entry
	Skipped []error // entries that couldn't be read
}

// Open reads the compilation at path and its save file, if any.
func Open(path string, l menu.Layout) (*Compilation, error) {
	rom, err := gbrom.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info, err := menu.Inspect(rom.Data)
	if err != nil {
		return nil, err
	}

	c := &Compilation{Path: path, Image: rom.Data, Info: info, Layout: l}
	if err := c.loadSave(); err != nil {
		return nil, err
	}

	listed, errs := menu.ReadDirectory(c.Image, l)
	c.Skipped = errs
	for _, ls := range listed {
		if int(ls.Offset)+gbrom.HeaderEnd > len(c.Image) {
			err := &menu.SlotError{Slot: ls.Slot, Title: ls.Title, Err: ErrOutside}
			log.ModExtract.WarnZ("entry outside of the image").Int("slot", ls.Slot).Hex32("off", ls.Offset).End()
			c.Skipped = append(c.Skipped, err)
			continue
		}
		hdr, _ := gbrom.DecodeHeader(c.Image[ls.Offset:])
		e := Entry{Listed: ls, Header: hdr, Bank: alloc.NoBank, SaveSize: hdr.SaveSize()}
		if ls.Save {
			e.Bank = alloc.BankOf(ls.Offset)
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// SavePath returns the path of the save file of the compilation.
func (c *Compilation) SavePath() string { return build.SaveName(c.Path) }

// Dir returns the export directory of the compilation.
func (c *Compilation) Dir() string {
	return strings.TrimSuffix(c.Path, filepath.Ext(c.Path))
}

func (c *Compilation) loadSave() error {
	buf, err := os.ReadFile(c.SavePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(buf) != build.SaveFileSize {
		return fmt.Errorf("%w, got %d bytes", ErrSaveSize, len(buf))
	}
	c.SRAM = buf
	return nil
}

// ROM returns the bytes of the program of e. It may be shorter than the
// entry size if the image was truncated.
func (c *Compilation) ROM(e *Entry) []byte {
	end := min(int(e.Offset)+int(e.Size), len(c.Image))
	return c.Image[e.Offset:end]
}

// Save returns the save slot of e, or nil if e has no save slot or the
// compilation has no save file.
func (c *Compilation) Save(e *Entry) []byte {
	if !e.HasSave() || c.SRAM == nil {
		return nil
	}
	off := e.Bank * build.SaveSlotSize
	return c.SRAM[off : off+build.SaveSlotSize]
}

// exportedSave returns the part of the save slot of e that is written to
// its export file.
func (c *Compilation) exportedSave(e *Entry) []byte {
	slot := c.Save(e)
	if slot == nil || e.SaveSize == 0 {
		return slot
	}
	return slot[:min(e.SaveSize, len(slot))]
}
