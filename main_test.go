package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"multirom/build"
	"multirom/dirent"
	"multirom/menu"
	"multirom/report"
	"multirom/tests"
)

func parse(t *testing.T, args ...string) (CLI, error) {
	t.Helper()

	var cli CLI
	parser, err := newParser(&cli)
	tcheck(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return cli, err
	}
	cli.mode = commandMode(ctx.Command())
	return cli, nil
}

func TestParseArgs(t *testing.T) {
	tcs := []struct {
		args []string
		mode mode
		want func(*CLI) bool
	}{
		{nil, buildMode, func(c *CLI) bool { return c.Build.TOC == "index" && c.Build.Output == "" }},
		{[]string{"out.gbc", "--split", "--toc", "offset"}, buildMode, func(c *CLI) bool {
			return c.Build.Output == "out.gbc" && c.Build.Split && c.Build.TOC == "offset"
		}},
		{[]string{"build", "--title", "my games", "--no-wait", "--no-log"}, buildMode, func(c *CLI) bool {
			return c.Build.Title == "my games" && c.NoWait && c.NoLog
		}},
		{[]string{"--layout", "cn", "version"}, versionMode, func(c *CLI) bool { return c.Layout == "cn" }},
		{[]string{"config", "--stdout"}, configMode, func(c *CLI) bool { return c.Config.Stdout }},
	}
	for _, tc := range tcs {
		cli, err := parse(t, tc.args...)
		tcheckf(t, err, "parse %q", tc.args)
		if cli.mode != tc.mode || !tc.want(&cli) {
			t.Errorf("parse %q = %+v", tc.args, cli)
		}
	}
}

func TestParseArgsFiles(t *testing.T) {
	path := tests.WriteFile(t, t.TempDir(), "set.gbc", []byte{0})

	cli, err := parse(t, "export", path)
	tcheck(t, err)
	if cli.mode != exportMode || cli.Export.File != path {
		t.Errorf("export: %+v", cli)
	}
	cli, err = parse(t, "import-sram", path, "--manifest", "m.json")
	tcheck(t, err)
	if cli.mode != importMode || cli.ImportSRAM.File != path || !strings.HasSuffix(cli.Manifest, "m.json") {
		t.Errorf("import-sram: %+v", cli)
	}

	if _, err := parse(t, "export", filepath.Join(t.TempDir(), "missing.gbc")); err == nil {
		t.Errorf("export of a missing file should fail")
	}
	if _, err := parse(t, "--toc", "random"); err == nil {
		t.Errorf("invalid --toc value should fail")
	}
}

func TestLogModMask(t *testing.T) {
	if _, err := parse(t, "--log", "alloc,dir", "version"); err != nil {
		t.Errorf("--log alloc,dir: %v", err)
	}
	for _, arg := range []string{"bogus", "all,no", "no,alloc"} {
		if _, err := parse(t, "--log", arg, "version"); err == nil {
			t.Errorf("--log %s should fail", arg)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := tests.WriteFile(t, dir, "config.toml", []byte(`
menu_title = "MY GAMES"
layout = "mine"

[layouts.mine]
template = "mine.bin"
num_items = 0x4046
num_pages = 0x404B
params = 0x46FA
titles = 0x4EA0
menu_title = 0x4272
max_items = 100
items_per_page = 10
meta_base = 0x1000
meta_slots = 16
`))

	cfg, err := LoadConfig(path)
	tcheck(t, err)
	if cfg.MenuTitle != "MY GAMES" || cfg.Roms != "roms" || cfg.Output != build.DefaultOutput {
		t.Errorf("cfg = %+v", cfg)
	}
	l, err := lookupLayout(cfg, &CLI{})
	tcheck(t, err)
	if l.Template != "mine.bin" || l.MaxItems != 100 {
		t.Errorf("layout = %+v", l)
	}

	// Command line wins.
	l, err = lookupLayout(cfg, &CLI{Layout: "cn"})
	tcheck(t, err)
	if l.Template != "menu_cn.bin" {
		t.Errorf("layout = %+v", l)
	}

	bad := tests.WriteFile(t, dir, "bad.toml", []byte("[layouts.x]\ntemplate = \"x.bin\"\n"))
	if _, err := LoadConfig(bad); err == nil {
		t.Errorf("LoadConfig(invalid layout) should fail")
	}
	if _, err := LoadConfig(filepath.Join(dir, "none.toml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v", err)
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := defaultConfig
	cfg.MenuTitle = "SAVED"
	tcheck(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	tcheck(t, err)
	want := cfg
	want.Layouts = map[string]menu.Layout{"standard": menu.Standard(), "cn": menu.CN()}
	tdiff(t, "config", want, got)

	var buf bytes.Buffer
	cli := CLI{ConfigFile: path}
	cli.Config.Stdout = true
	tcheck(t, writeConfig(&buf, &cli))
	if !strings.Contains(buf.String(), `menu_title = "SAVED"`) {
		t.Errorf("writeConfig() = %s", buf.String())
	}
}

func TestResource(t *testing.T) {
	tcs := []struct{ tmpl, name, want string }{
		{"menu_cn.bin", "font/unifont.otf", filepath.Join(".", "font/unifont.otf")},
		{"/opt/menus/menu_cn.bin", "title_cn.png", "/opt/menus/title_cn.png"},
		{"menu.bin", "", ""},
		{"menu.bin", "/abs/font.otf", "/abs/font.otf"},
	}
	for _, tc := range tcs {
		if got := resource(tc.tmpl, tc.name); got != tc.want {
			t.Errorf("resource(%q, %q) = %q, want %q", tc.tmpl, tc.name, got, tc.want)
		}
	}
}

// workspace lays out a menu template and an input directory in a temporary
// directory and returns a CLI set up to use them.
func workspace(t *testing.T) (string, CLI) {
	t.Helper()

	dir := t.TempDir()
	l := menu.Standard()
	tmpl := tests.Menu(1, l.Titles, l.Titles+l.MaxItems*dirent.TitleLen)
	tests.WriteFile(t, dir, "menu.bin", tmpl)

	roms := filepath.Join(dir, "roms")
	tests.WriteFile(t, roms, "tetris.gb", tests.ROM{Title: "TETRIS", Seed: 1}.Image())
	tests.WriteFile(t, roms, "red.gb", tests.ROM{Title: "POKEMON RED", Len: 0x40000, CartType: 0x13, RAMSize: 3, Seed: 2}.Image())
	tests.WriteFile(t, roms, "red.sav", bytes.Repeat([]byte{0x5A}, 0x8000))
	tests.WriteFile(t, roms, "readme.txt", []byte("not a program"))

	cli := CLI{
		NoWait:   true,
		NoLog:    true,
		Manifest: filepath.Join(dir, "manifest.json"),
		Build: Build{
			Output: filepath.Join(dir, "set_<CODE>.gbc"),
			TOC:    "index",
			Roms:   roms,
			Menu:   filepath.Join(dir, "menu.bin"),
		},
	}
	return dir, cli
}

func TestRunBuildExportImport(t *testing.T) {
	dir, cli := workspace(t)

	var out bytes.Buffer
	tcheck(t, runBuild(context.Background(), report.NewTranscript(&out), defaultConfig, &cli))
	if !strings.Contains(out.String(), "Found 2 ROM(s)") || !strings.Contains(out.String(), "POKEMON RED") {
		t.Errorf("build output:\n%s", out.String())
	}

	roms, _ := filepath.Glob(filepath.Join(dir, "set_*.gbc"))
	saves, _ := filepath.Glob(filepath.Join(dir, "set_*.sav"))
	if len(roms) != 1 || len(saves) != 1 {
		t.Fatalf("outputs: %v %v", roms, saves)
	}
	if _, err := os.Stat(cli.Manifest); err != nil {
		t.Errorf("no manifest: %v", err)
	}
	set := roms[0]

	// Import without an export directory exports instead.
	out.Reset()
	tcheck(t, runExport(report.NewTranscript(&out), defaultConfig, &cli, set, true))
	exportDir := strings.TrimSuffix(set, ".gbc")
	if !strings.Contains(out.String(), "No files found for importing") {
		t.Errorf("import output:\n%s", out.String())
	}
	sav := filepath.Join(exportDir, "#001 POKEMON RED.sav")
	if got := tests.ReadFile(t, sav); len(got) != 0x8000 || got[0] != 0x5A {
		t.Fatalf("exported save is %d bytes", len(got))
	}

	edited := bytes.Repeat([]byte{0xA5}, 0x8000)
	tests.WriteFile(t, exportDir, "#001 POKEMON RED.sav", edited)
	out.Reset()
	tcheck(t, runExport(report.NewTranscript(&out), defaultConfig, &cli, set, true))
	if !strings.Contains(out.String(), "Importing") {
		t.Errorf("import output:\n%s", out.String())
	}
	// red.gb is the first save module, it gets bank 0.
	if got := tests.ReadFile(t, saves[0]); !bytes.Equal(got[:0x8000], edited) {
		t.Errorf("save not imported")
	}
}

func TestRunBuildErrors(t *testing.T) {
	dir, cli := workspace(t)
	tr := report.NewTranscript(io.Discard)

	named := cli
	named.Build.Output = filepath.Join(dir, "menu.bin")
	if err := runBuild(context.Background(), tr, defaultConfig, &named); err == nil {
		t.Errorf("output named like the template should fail")
	}

	missing := cli
	missing.Build.Menu = filepath.Join(dir, "nomenu.bin")
	if err := runBuild(context.Background(), tr, defaultConfig, &missing); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing template: %v", err)
	}

	empty := cli
	empty.Build.Roms = t.TempDir()
	if err := runBuild(context.Background(), tr, defaultConfig, &empty); err == nil || !strings.Contains(err.Error(), "please place") {
		t.Errorf("empty input: %v", err)
	}

	if files, _ := filepath.Glob(filepath.Join(dir, "*.gbc")); len(files) != 0 {
		t.Errorf("files written on error: %v", files)
	}
}
