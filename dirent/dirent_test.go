package dirent

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParamRoundTrip(t *testing.T) {
	for size := range sizeCodes {
		for off := uint32(0); off+size <= maxOffset; off += size {
			for _, save := range []bool{false, true} {
				e := Entry{Offset: off, Size: size, Save: save}
				p, err := EncodeParam(e)
				if err != nil {
					t.Fatalf("EncodeParam(%+v): %v", e, err)
				}
				if !p.Consistent() {
					t.Fatalf("EncodeParam(%+v) = %v, byte 0 inconsistent", e, p)
				}
				got, err := p.Decode()
				if err != nil {
					t.Fatalf("%v.Decode(): %v", p, err)
				}
				if got != e {
					t.Fatalf("%v.Decode() = %+v, want %+v", p, got, e)
				}
				if p2, _ := EncodeParam(got); p2 != p {
					t.Fatalf("re-encoding %v gave %v", p, p2)
				}
			}
		}
	}
}

func TestEncodeParam(t *testing.T) {
	tcs := []struct {
		e    Entry
		want Param
	}{
		{Entry{Offset: 0x8000, Size: 0x8000, Save: true}, Param{0x00, 0x90, 0xFF, 0x01}},
		{Entry{Offset: 0x200000, Size: 0x8000, Save: true}, Param{0x00, 0x90, 0xFF, 0x40}},
		{Entry{Offset: 0x800000, Size: 0x800000}, Param{0x01, 0xF1, 0x00, 0x00}},
		{Entry{Offset: 0x1000000, Size: 0x400000}, Param{0x10, 0xF2, 0x80, 0x00}},
		{Entry{Offset: 0x1E00000, Size: 0x200000, Save: true}, Param{0x11, 0x93, 0xC0, 0xC0}},
		{Entry{Offset: 0x1FF8000, Size: 0x8000}, Param{0x11, 0xF3, 0xFF, 0xFF}},
	}
	for _, tc := range tcs {
		got, err := EncodeParam(tc.e)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("EncodeParam(%+v) = %v, want %v", tc.e, got, tc.want)
		}
	}
}

func TestEncodeParamErrors(t *testing.T) {
	if _, err := EncodeParam(Entry{Offset: 0x8000, Size: 0x4000}); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("got %v, want %v", err, ErrUnsupportedSize)
	}
	if _, err := EncodeParam(Entry{Offset: 0x2000000, Size: 0x8000}); !errors.Is(err, ErrBadOffset) {
		t.Errorf("got %v, want %v", err, ErrBadOffset)
	}
	if _, err := EncodeParam(Entry{Offset: 0x8001, Size: 0x8000}); !errors.Is(err, ErrBadOffset) {
		t.Errorf("got %v, want %v", err, ErrBadOffset)
	}
}

func TestParamDecodeErrors(t *testing.T) {
	if _, err := (Param{0, 0xF0, 0x7F, 0}).Decode(); !errors.Is(err, ErrUnknownSizeCode) {
		t.Errorf("got %v, want %v", err, ErrUnknownSizeCode)
	}
	if _, err := (Param{0, 0x30, 0xFF, 0}).Decode(); !errors.Is(err, ErrUnknownTypeTag) {
		t.Errorf("got %v, want %v", err, ErrUnknownTypeTag)
	}
}

func TestParamDecodeIgnoresByte0(t *testing.T) {
	p := Param{0xAA, 0x92, 0xF0, 0x10}
	if p.Consistent() {
		t.Errorf("Consistent() = true")
	}
	got, err := p.Decode()
	if err != nil {
		t.Fatal(err)
	}
	want := Entry{Offset: 0x1000000 + 0x10*0x8000, Size: 0x80000, Save: true}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestTitle(t *testing.T) {
	rec := EncodeTitle("TETRIS")
	if string(rec[:]) != "TETRIS          " {
		t.Errorf("EncodeTitle() = %q", rec)
	}
	if got := DecodeTitle(rec[:]); got != "TETRIS" {
		t.Errorf("DecodeTitle() = %q", got)
	}
	rec = CenterTitle("256M COLLECTION")
	if string(rec[:]) != "256M COLLECTION " {
		t.Errorf("CenterTitle() = %q", rec)
	}
	rec = CenterTitle("ABCD")
	if string(rec[:]) != "      ABCD      " {
		t.Errorf("CenterTitle() = %q", rec)
	}
	if got := DecodeTitle([]byte("\xE9ZELDA\x00\x00 ")); got != "ZELDA" {
		t.Errorf("DecodeTitle() = %q", got)
	}

	end := [TitleLen]byte{}
	for i := range end {
		end[i] = 0xFF
	}
	if !IsEnd(end[:]) {
		t.Errorf("IsEnd() = false on sentinel")
	}
	end[3] = 0
	if IsEnd(end[:]) {
		t.Errorf("IsEnd() = true on non-sentinel")
	}
}

func TestMeta(t *testing.T) {
	m := Meta{
		Index:    3,
		Offset:   0x200000,
		Size:     0x8000,
		SaveSize: 0x2000,
		Bank:     1,
		Hash:     [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}
	buf, err := m.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x03, 0x00,
		0x00, 0x00, 0x20, 0x00,
		0x00, 0x80, 0x00, 0x00,
		0x00, 0x20, 0x00, 0x00,
		0x01, 0x00,
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	}
	if diff := cmp.Diff(want, buf); diff != "" {
		t.Errorf("MarshalBinary() mismatch (-want +got):\n%s", diff)
	}

	var got Meta
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Errorf("UnmarshalBinary() = %+v, want %+v", got, m)
	}
}
