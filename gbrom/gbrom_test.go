package gbrom

import (
	"bytes"
	"errors"
	"testing"

	"multirom/tests"
)

func TestRomReadFrom(t *testing.T) {
	img := tests.ROM{Title: "POKEMON RED", CartType: 0x13, RAMSize: 0x03}.Image()

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	if got := rom.Title(); got != "POKEMON RED\x00\x00\x00\x00" {
		t.Errorf("Title() = %q", got)
	}
	if got := rom.Mapper(); got != "MBC3" {
		t.Errorf("Mapper() = %q, want MBC3", got)
	}
	if got := rom.SaveSize(); got != 0x8000 {
		t.Errorf("SaveSize() = 0x%X, want 0x8000", got)
	}
	if got := rom.Ext(); got != ".gb" {
		t.Errorf("Ext() = %q, want .gb", got)
	}
}

func TestRomReadFromErrors(t *testing.T) {
	img := tests.ROM{}.Image()
	img[0x110] ^= 0xFF

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(img)); !errors.Is(err, ErrNoLogo) {
		t.Errorf("ReadFrom() error = %v, want %v", err, ErrNoLogo)
	}
	if _, err := rom.ReadFrom(bytes.NewReader(img[:0x100])); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadFrom() error = %v, want %v", err, ErrTruncated)
	}
}

func TestHeaderTitle(t *testing.T) {
	tcs := []struct {
		cgb   uint8
		title string
		want  string
	}{
		{cgb: 0x00, title: "ABCDEFGHIJKLMNOP", want: "ABCDEFGHIJKLMNO"},
		{cgb: 0x80, title: "ABCDEFGHIJKLMNOP", want: "ABCDEFGHIJKLMNO"},
		{cgb: 0xC0, title: "ABCDEFGHIJKLMNOP", want: "ABCDEFGHIJKLMNO"},
		{cgb: 'P', title: "ABCDEFGHIJKLMNOP", want: "ABCDEFGHIJKLMNOP"},
		{cgb: 0x00, title: "T\xE9TRIS", want: "T�TRIS\x00\x00\x00\x00\x00\x00\x00\x00\x00"},
	}
	for _, tt := range tcs {
		img := tests.ROM{Title: tt.title}.Image()
		img[CGBFlag] = tt.cgb
		hdr, err := DecodeHeader(img)
		if err != nil {
			t.Fatal(err)
		}
		if got := hdr.Title(); got != tt.want {
			t.Errorf("cgb=%02X: Title() = %q, want %q", tt.cgb, got, tt.want)
		}
	}
}

func TestHeaderSaveSize(t *testing.T) {
	tcs := []struct {
		cartType, ramSize uint8
		want              int
	}{
		{0x00, 0x00, 0},
		{0x03, 0x01, 0x800},
		{0x03, 0x02, 0x2000},
		{0x1B, 0x03, 0x8000},
		{0x1B, 0x04, 0x8000},
		{0x1B, 0x05, 0x8000},
		{0x06, 0x00, 512},
		{0x05, 0x00, 0},
	}
	for _, tt := range tcs {
		hdr, err := DecodeHeader(tests.ROM{CartType: tt.cartType, RAMSize: tt.ramSize}.Image())
		if err != nil {
			t.Fatal(err)
		}
		if got := hdr.SaveSize(); got != tt.want {
			t.Errorf("type=%02X ram=%02X: SaveSize() = 0x%X, want 0x%X", tt.cartType, tt.ramSize, got, tt.want)
		}
	}
}

func TestHeaderExt(t *testing.T) {
	tcs := []struct {
		rom  tests.ROM
		want string
	}{
		{tests.ROM{}, ".gb"},
		{tests.ROM{CGB: 0x80}, ".gbc"},
		{tests.ROM{CGB: 0xC0, SGB: 0x03}, ".gbc"},
		{tests.ROM{SGB: 0x03}, ".sgb"},
	}
	for _, tt := range tcs {
		hdr, _ := DecodeHeader(tt.rom.Image())
		if got := hdr.Ext(); got != tt.want {
			t.Errorf("Ext() = %q, want %q", got, tt.want)
		}
	}
}
