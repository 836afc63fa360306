// Package tests provides synthetic cartridge images and file helpers for the
// tests of other packages.
package tests

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Logo is the boot logo bitmap found at 0x104 in every valid image.
var Logo = []byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0C, 0x00, 0x0D, 0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99, 0xBB, 0xBB, 0x67, 0x63,
	0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// ROM describes a synthetic image.
type ROM struct {
	Title    string
	Len      int   // image length, defaults to 32KB
	CGB      uint8 // 0x143
	SGB      uint8 // 0x146
	CartType uint8 // 0x147
	RAMSize  uint8 // 0x149
	Seed     byte  // varies the body bytes between images
}

// Image returns the bytes of the described image. Body bytes never equal the
// 0xFF fill value, so that trimming doesn't eat into them.
func (r ROM) Image() []byte {
	n := r.Len
	if n == 0 {
		n = 0x8000
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i*7+int(r.Seed)) % 0xF0
	}
	copy(buf[0x104:], Logo)
	title := make([]byte, 16)
	copy(title, r.Title)
	copy(buf[0x134:0x144], title)
	buf[0x143] = r.CGB
	buf[0x146] = r.SGB
	buf[0x147] = r.CartType
	buf[0x149] = r.RAMSize
	return buf
}

// Menu returns a 32KB menu template with a valid header and the given menu
// version. The metadata area at 0x1000 and the region [fillFrom, fillTo) are
// set to 0xFF.
func Menu(version uint8, fillFrom, fillTo int) []byte {
	buf := ROM{Title: "MENU", Seed: 0x55}.Image()
	buf[0x14C] = version
	copy(buf[0x1000:0x1200], bytes.Repeat([]byte{0xFF}, 0x200))
	copy(buf[fillFrom:fillTo], bytes.Repeat([]byte{0xFF}, fillTo-fillFrom))
	return buf
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		tb.Fatal(err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(tb testing.TB, path string) []byte {
	tb.Helper()

	buf, err := os.ReadFile(path)
	if err != nil {
		tb.Fatal(err)
	}
	return buf
}
