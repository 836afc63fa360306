package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"multirom/log"
)

// CodePlaceholder is replaced by the rom code in output names.
const CodePlaceholder = "<CODE>"

// DefaultOutput is the output name used when none is given.
const DefaultOutput = "256MROMSET_" + CodePlaceholder + ".gbc"

// OutputName substitutes the rom code in pattern.
func OutputName(pattern, code string) string {
	return strings.ReplaceAll(pattern, CodePlaceholder, code)
}

// PartName returns the name of the n-th (1-based) part of a split image.
func PartName(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_part%d%s", strings.TrimSuffix(path, ext), n, ext)
}

// SaveName returns the name of the save file going with the image at path.
func SaveName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".sav"
}

// File is an output file.
type File struct {
	Path string
	Kind string // "rom", "part" or "sram"
	Part int
	Size int
}

// Write writes the image to path, or to 8MB parts next to path when split is
// set, and the save file if any save slot holds data. It returns the files
// written.
func (c *Context) Write(path string, split bool) ([]File, error) {
	if c.Image == nil {
		return nil, fmt.Errorf("image not built")
	}

	var files []File
	if split {
		for i := 0; i*PartSize < len(c.Image); i++ {
			part := c.Image[i*PartSize : min((i+1)*PartSize, len(c.Image))]
			name := PartName(path, i+1)
			if err := os.WriteFile(name, part, 0644); err != nil {
				return files, err
			}
			files = append(files, File{Path: name, Kind: "part", Part: i + 1, Size: len(part)})
		}
	} else {
		if err := os.WriteFile(path, c.Image, 0644); err != nil {
			return files, err
		}
		files = append(files, File{Path: path, Kind: "rom", Size: len(c.Image)})
	}

	if c.HasSaveData() {
		name := SaveName(path)
		if err := os.WriteFile(name, c.SRAM, 0644); err != nil {
			return files, err
		}
		files = append(files, File{Path: name, Kind: "sram", Size: len(c.SRAM)})
	}

	for _, f := range files {
		log.ModBuild.DebugZ("wrote file").String("path", f.Path).Int("size", f.Size).End()
	}
	return files, nil
}
