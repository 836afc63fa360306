package extract

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"multirom/build"
	"multirom/log"
)

// File is a file written by Export or read by ImportSaves.
type File struct {
	Slot int
	Kind string // "rom" or "sram"
	Path string
	Size int
	Bank int
}

// Export writes every program, and its save data when there is a save file,
// to dir.
func (c *Compilation) Export(dir string) ([]File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var files []File
	for i := range c.Entries {
		e := &c.Entries[i]

		rom := c.ROM(e)
		path := filepath.Join(dir, e.ROMName())
		if err := os.WriteFile(path, rom, 0644); err != nil {
			return files, err
		}
		files = append(files, File{Slot: e.Slot, Kind: "rom", Path: path, Size: len(rom), Bank: e.Bank})

		if sav := c.exportedSave(e); sav != nil {
			path := filepath.Join(dir, e.SaveName())
			if err := os.WriteFile(path, sav, 0644); err != nil {
				return files, err
			}
			files = append(files, File{Slot: e.Slot, Kind: "sram", Path: path, Size: len(sav), Bank: e.Bank})
		}
	}
	log.ModExtract.InfoZ("exported").String("dir", dir).Int("files", len(files)).End()
	return files, nil
}

// ImportSaves reads the save files found in dir back into the save slots,
// then rewrites the save file of the compilation. A missing save file is
// created. It fails with ErrNoExportDir if dir doesn't exist.
func (c *Compilation) ImportSaves(dir string) ([]File, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoExportDir
	}
	if c.SRAM == nil {
		c.SRAM = make([]byte, build.SaveFileSize)
	}

	var files []File
	for i := range c.Entries {
		e := &c.Entries[i]
		if !e.HasSave() {
			continue
		}
		path := filepath.Join(dir, e.SaveName())
		n, err := c.importSave(e, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return files, err
		}
		files = append(files, File{Slot: e.Slot, Kind: "sram", Path: path, Size: n, Bank: e.Bank})
	}

	if len(files) > 0 {
		if err := os.WriteFile(c.SavePath(), c.SRAM, 0644); err != nil {
			return files, err
		}
	}
	return files, nil
}

// importSave copies at most a save slot worth of bytes from path, or the
// declared save size if smaller.
func (c *Compilation) importSave(e *Entry, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	slot := c.Save(e)
	if e.SaveSize > 0 {
		slot = slot[:min(e.SaveSize, len(slot))]
	}
	n, err := io.ReadFull(f, slot)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	log.ModExtract.DebugZ("imported save").String("path", path).Int("bank", e.Bank).Int("bytes", n).End()
	return n, err
}
