package romset

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"multirom/gbrom"
	"multirom/tests"
)

func TestRoundSize(t *testing.T) {
	tcs := []struct {
		n    int
		want Size
	}{
		{1, 0x8000},
		{0x4000, 0x8000},
		{0x8000, 0x8000},
		{0x8001, 0x10000},
		{0x180000, 0x200000},
		{0x800000, 0x800000},
	}
	for _, tc := range tcs {
		got, err := RoundSize(tc.n)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want || !got.Valid() {
			t.Errorf("RoundSize(0x%X) = %v, want %v", tc.n, got, tc.want)
		}
	}

	if _, err := RoundSize(0x800001); err == nil {
		t.Errorf("RoundSize(0x800001) should fail")
	}
}

func TestNormalizeTitle(t *testing.T) {
	tcs := map[string]string{
		"Tetris":                   "TETRIS",
		"  super mario land 2  ":   "SUPER MARIO LAND 2",
		"Pokémon - Red Version":    "POKMON  RED VERS",
		"ZELDA\x00\x00\x00":        "ZELDA",
		"Dr. Mario (World) (Rev 1)": "DR MARIO WORLD R",
		"":                         "",
	}
	for in, want := range tcs {
		if got := NormalizeTitle(in); got != want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseName(t *testing.T) {
	tcs := []struct {
		stem      string
		subtitles bool
		want      Name
	}{
		{"Tetris (World)", false, Name{}},
		{"#001 Tetris", false, Name{Title: "Tetris"}},
		{"#12 Pokemon Red#", false, Name{Title: "Pokemon Red", NoSave: true}},
		{"#1Tetris", false, Name{}},
		{"#003 Tetris~Block Game Deluxe", true, Name{Title: "Tetris", Subtitle: "Block Game"}},
		{"#003 Tetris~Blocks", false, Name{Title: "Tetris~Blocks"}},
	}
	for _, tc := range tcs {
		got := ParseName(tc.stem, tc.subtitles)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseName(%q) mismatch (-want +got):\n%s", tc.stem, diff)
		}
	}
}

func TestNewModulePads(t *testing.T) {
	img := tests.ROM{Title: "BIG GAME", Len: 0x180000, CartType: 0x1B, RAMSize: 0x02}.Image()
	orig := bytes.Clone(img)

	m, err := NewModule(3, "roms/big.gbc", img, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img, orig) {
		t.Errorf("NewModule modified its input")
	}
	if m.Size != 0x200000 || len(m.ROM) != 0x200000 {
		t.Fatalf("size = %v (len %X), want 2MB", m.Size, len(m.ROM))
	}
	if !bytes.Equal(m.ROM[0x180000:], bytes.Repeat([]byte{0xFF}, 0x80000)) {
		t.Errorf("padding is not filled with 0xFF")
	}
	if !gbrom.ValidChecksums(m.ROM) {
		t.Errorf("checksums not fixed")
	}
	if m.Title != "BIG GAME" || m.SaveSize != 0x2000 || m.Index != 3 || m.Mapper != "MBC5" {
		t.Errorf("unexpected module %+v", m)
	}
}

func TestNewModuleNameOverride(t *testing.T) {
	img := tests.ROM{Title: "POKEMON RED", CartType: 0x13, RAMSize: 0x03}.Image()

	m, err := NewModule(0, "roms/#001 Red Version#.gb", img, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "RED VERSION" {
		t.Errorf("Title = %q, want %q", m.Title, "RED VERSION")
	}
	if m.HasSave() {
		t.Errorf("trailing '#' should disable the save slot")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests.WriteFile(t, dir, "b.gb", tests.ROM{Title: "SECOND", CartType: 0x03, RAMSize: 0x02}.Image())
	tests.WriteFile(t, dir, "b.sav", bytes.Repeat([]byte{0x42}, 0x9000))
	tests.WriteFile(t, dir, "a.gb", tests.ROM{Title: "FIRST"}.Image())
	tests.WriteFile(t, dir, "readme.txt", []byte("not a rom"))
	tests.WriteFile(t, dir, "huge.gb", make([]byte, 0x800001))

	bad := tests.ROM{Title: "BADLOGO"}.Image()
	bad[0x104] = 0
	tests.WriteFile(t, dir, "c.gb", bad)

	mods, err := Load(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, m := range mods {
		got = append(got, filepath.Base(m.Path)+":"+m.Title)
	}
	if diff := cmp.Diff([]string{"a.gb:FIRST", "b.gb:SECOND"}, got); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
	if mods[1].Index != 1 {
		t.Errorf("Index = %d, want 1", mods[1].Index)
	}
	if len(mods[1].Save) != MaxSaveSize {
		t.Errorf("save len = 0x%X, want truncated to 0x%X", len(mods[1].Save), MaxSaveSize)
	}
	if mods[0].Save != nil {
		t.Errorf("module without save slot got save data")
	}
}
