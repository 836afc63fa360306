package menu

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"multirom/dirent"
	"multirom/gbrom"
)

const (
	TemplateSize = 0x8000

	SignatureOff = 0x150
	Signature    = "256M ROM Builder" + "by LK"
	sigTrailer   = "\x00\x02\x00"
	TimestampOff = 0x168
	TimeLayout   = "2006-01-02 15:04:05"
	CodeLen      = 4
	MinVersion   = 1

	headerEnd = TimestampOff + len(TimeLayout) + 1
)

var (
	ErrTemplateSize = errors.New("menu template must be 32KB")
	ErrSignature    = errors.New("not a valid compilation, please merge any split parts first")
	ErrVersion      = errors.New("compilation menu version is too old")
)

// Template is a menu image being patched.
type Template struct {
	Layout Layout
	Data   []byte
}

// OpenTemplate loads the template file at path.
func OpenTemplate(path string, l Layout) (*Template, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewTemplate(buf, l)
}

// NewTemplate wraps a copy of buf.
func NewTemplate(buf []byte, l Layout) (*Template, error) {
	if len(buf) != TemplateSize {
		return nil, fmt.Errorf("%w, got %d bytes", ErrTemplateSize, len(buf))
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &Template{Layout: l, Data: bytes.Clone(buf)}, nil
}

// SetMenuTitle writes the menu title, centered. It does nothing on layouts
// without a text title.
func (t *Template) SetMenuTitle(title string) {
	if t.Layout.MenuTitle == 0 {
		return
	}
	rec := dirent.CenterTitle(title)
	copy(t.Data[t.Layout.MenuTitle:], rec[:])
}

// SetLogo copies the boot logo bitmap into the menu header.
func (t *Template) SetLogo(logo []byte) {
	copy(t.Data[gbrom.LogoStart:gbrom.LogoEnd], logo)
}

// Stamp writes the signature block, the rom code and the build date. The rom
// code is derived from everything after the header, so Stamp must be called
// once all the tables are written. It returns the rom code.
func (t *Template) Stamp(now time.Time) string {
	copy(t.Data[SignatureOff:], Signature+sigTrailer)

	sum := sha1.Sum(t.Data[SignatureOff:])
	code := strings.ToUpper(hex.EncodeToString(sum[:CodeLen/2]))
	copy(t.Data[gbrom.MakerCode:], code)

	copy(t.Data[TimestampOff:], now.Format(TimeLayout))
	return code
}

// Info is what the menu header tells about a compilation.
type Info struct {
	Version uint8
	Code    string
	Built   string
}

// Inspect validates the signature block of a compilation.
func Inspect(img []byte) (Info, error) {
	if len(img) < TemplateSize {
		return Info{}, ErrSignature
	}
	info := Info{
		Version: img[gbrom.MaskVersion],
		Code:    string(img[gbrom.MakerCode : gbrom.MakerCode+CodeLen]),
		Built:   strings.TrimRight(string(img[TimestampOff:TimestampOff+len(TimeLayout)]), "\x00"),
	}
	if info.Version < MinVersion {
		return info, fmt.Errorf("%w (version %d)", ErrVersion, info.Version)
	}
	if string(img[SignatureOff:SignatureOff+len(Signature)]) != Signature {
		return info, ErrSignature
	}
	return info, nil
}
