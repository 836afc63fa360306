// Package romset turns the program images found in an input directory into
// the fixed-field module records consumed by the allocator and the builder.
package romset

import (
	"bytes"
	"crypto/sha1"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"multirom/gbrom"
)

const (
	MaxTitleLen    = 16
	MaxSubtitleLen = 10
	MaxSaveSize    = 0x8000
	Fill           = 0xFF
)

// Module is one program image to be packed into the compilation.
type Module struct {
	Index    int    // discovery position
	Path     string // source file, empty if built from memory
	Title    string
	Subtitle string // optional, rendered by the glyph package
	Strip    string // optional 160x16 subtitle image
	Mapper   string
	Size     Size
	SaveSize int
	Hash     [sha1.Size]byte // hash of the first 0x200 bytes, before checksums are fixed
	ROM      []byte          // Size bytes, checksums fixed
	Save     []byte          // optional initial save data
}

// HasSave reports whether the module needs a save slot.
func (m *Module) HasSave() bool { return m.SaveSize > 0 }

// Name is what can be learned from an input file name.
type Name struct {
	Title    string // empty when the name doesn't override the header title
	Subtitle string
	NoSave   bool // trailing '#' disables the save slot
}

var numbered = regexp.MustCompile(`^#[0-9]+ (.+)`)

// ParseName parses a file name without directory nor extension. Names of the
// form "#<num> <title>[#]" override the header title; when subtitles is set,
// anything after a '~' is the subtitle.
func ParseName(stem string, subtitles bool) Name {
	var n Name
	if subtitles {
		stem, n.Subtitle, _ = strings.Cut(stem, "~")
		n.Subtitle = truncate(n.Subtitle, MaxSubtitleLen)
	}
	if m := numbered.FindStringSubmatch(stem); m != nil {
		title := m[1]
		if strings.HasSuffix(title, "#") {
			title = strings.TrimSuffix(title, "#")
			n.NoSave = true
		}
		n.Title = title
	}
	return n
}

// NormalizeTitle upper-cases s, drops anything but A-Z, 0-9 and spaces, and
// truncates the result to MaxTitleLen characters.
func NormalizeTitle(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			return r
		}
		return -1
	}, strings.ToUpper(s))
	return strings.TrimSpace(truncate(strings.TrimSpace(s), MaxTitleLen))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Options controls how modules are built.
type Options struct {
	Subtitles bool // parse '~' subtitles in file names
}

// NewModule builds a module from a validated image. data is not modified.
func NewModule(index int, path string, data []byte, opts Options) (*Module, error) {
	hdr, err := gbrom.DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	size, err := RoundSize(len(data))
	if err != nil {
		return nil, err
	}

	m := &Module{
		Index:    index,
		Path:     path,
		Mapper:   hdr.Mapper(),
		Size:     size,
		SaveSize: hdr.SaveSize(),
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := ParseName(stem, opts.Subtitles)
	if name.Title != "" {
		m.Title = NormalizeTitle(name.Title)
	} else {
		m.Title = NormalizeTitle(hdr.Title())
	}
	if name.NoSave {
		m.SaveSize = 0
	}
	m.Subtitle = name.Subtitle

	// Pad trimmed images, they must fill their whole slot.
	m.ROM = make([]byte, size)
	copy(m.ROM, data)
	if pad := m.ROM[len(data):]; len(pad) > 0 {
		copy(pad, bytes.Repeat([]byte{Fill}, len(pad)))
	}
	m.Hash = sha1.Sum(m.ROM[:0x200])
	gbrom.FixChecksums(m.ROM)
	return m, nil
}

// SetSave attaches initial save data, truncated to the largest save size.
func (m *Module) SetSave(p []byte) {
	if len(p) > MaxSaveSize {
		p = p[:MaxSaveSize]
	}
	m.Save = bytes.Clone(p)
}
