// Package gbrom reads the cartridge header of Game Boy and Game Boy Color
// program images and computes the two header checksums.
package gbrom

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Header field offsets.
const (
	LogoStart      = 0x104
	LogoEnd        = 0x134
	TitleStart     = 0x134
	MakerCode      = 0x13F
	CGBFlag        = 0x143
	SGBFlag        = 0x146
	CartType       = 0x147
	ROMSize        = 0x148
	RAMSize        = 0x149
	MaskVersion    = 0x14C
	HeaderChecksum = 0x14D
	GlobalChecksum = 0x14E
	HeaderEnd      = 0x150
)

var (
	ErrTruncated = errors.New("image too small for a cartridge header")
	ErrNoLogo    = errors.New("boot logo does not match")
)

// SHA-1 of the 48 bytes of boot logo bitmap every licensed cartridge carries.
var logoDigest = [sha1.Size]byte{
	0x07, 0x45, 0xFD, 0xEF, 0x34, 0x13, 0x2D, 0x1B, 0x3D, 0x48,
	0x8C, 0xFB, 0xDF, 0x03, 0x79, 0xA3, 0x9F, 0xD5, 0x4B, 0x4C,
}

// HasLogo reports whether p carries the reference boot logo.
func HasLogo(p []byte) bool {
	if len(p) < LogoEnd {
		return false
	}
	return sha1.Sum(p[LogoStart:LogoEnd]) == logoDigest
}

type Rom struct {
	Header
	Data []byte // whole image, header included
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if err := rom.Header.decode(buf); err != nil {
		return int64(len(buf)), err
	}
	if !HasLogo(buf) {
		return int64(len(buf)), ErrNoLogo
	}
	rom.Data = buf
	return int64(len(buf)), nil
}

// Header is a copy of the first 0x150 bytes of a cartridge image.
type Header struct {
	raw [HeaderEnd]byte
}

// DecodeHeader copies the header found at the start of p.
func DecodeHeader(p []byte) (Header, error) {
	var hdr Header
	err := hdr.decode(p)
	return hdr, err
}

func (hdr *Header) decode(p []byte) error {
	if len(p) < HeaderEnd {
		return fmt.Errorf("%w: %d bytes", ErrTruncated, len(p))
	}
	copy(hdr.raw[:], p[:HeaderEnd])
	return nil
}

// Title returns the raw title field. It is 15 bytes long on images that use
// the CGB flag byte, 16 bytes otherwise. Bytes outside of the ASCII range are
// replaced with utf8.RuneError.
func (hdr *Header) Title() string {
	end := TitleStart + 16
	switch hdr.raw[CGBFlag] {
	case 0x00, 0x80, 0xC0:
		end--
	}
	var sb strings.Builder
	for _, b := range hdr.raw[TitleStart:end] {
		if b < utf8.RuneSelf {
			sb.WriteByte(b)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
	}
	return sb.String()
}

// CGB reports whether the image supports Game Boy Color features.
func (hdr *Header) CGB() bool {
	return hdr.raw[CGBFlag] == 0x80 || hdr.raw[CGBFlag] == 0xC0
}

// SGB reports whether the image supports Super Game Boy features.
func (hdr *Header) SGB() bool {
	return hdr.raw[SGBFlag] == 0x03
}

func (hdr *Header) CartType() uint8 { return hdr.raw[CartType] }
func (hdr *Header) Version() uint8  { return hdr.raw[MaskVersion] }

var ramSizes = [...]int{0, 0x800, 0x2000, 0x8000}

// SaveSize returns the size of the battery-backed ram declared by the header.
// MBC2 carts have 512 half-bytes of built-in ram and declare none.
func (hdr *Header) SaveSize() int {
	code := hdr.raw[RAMSize]
	switch {
	case code > 0 && int(code) < len(ramSizes):
		return ramSizes[code]
	case code > 0:
		return 0x8000
	case hdr.raw[CartType] == 0x06:
		return 512
	}
	return 0
}

// Mapper returns the name of the memory bank controller.
func (hdr *Header) Mapper() string {
	switch hdr.raw[CartType] {
	case 0x00:
		return "None"
	case 0x01, 0x02, 0x03:
		return "MBC1"
	case 0x05, 0x06:
		return "MBC2"
	case 0x0B, 0x0D:
		return "MMM01"
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return "MBC3"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5"
	case 0x20:
		return "MBC6"
	case 0x22:
		return "MBC7"
	case 0xFC:
		return "GBD"
	case 0xFD:
		return "TAMA5"
	case 0xFE:
		return "HuC-3"
	case 0xFF:
		return "HuC-1"
	}
	return "Unknown"
}

// Ext returns the conventional file extension for the image.
func (hdr *Header) Ext() string {
	switch {
	case hdr.CGB():
		return ".gbc"
	case hdr.SGB():
		return ".sgb"
	}
	return ".gb"
}

// Logo returns the boot logo bitmap.
func (hdr *Header) Logo() []byte {
	return bytes.Clone(hdr.raw[LogoStart:LogoEnd])
}
