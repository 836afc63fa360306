package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"multirom/build"
	"multirom/extract"
	"multirom/glyph"
	"multirom/log"
	"multirom/menu"
	"multirom/report"
	"multirom/romset"
)

var version = "devel"

const logFile = "log.txt"

func main() {
	cli := parseArgs(os.Args[1:])
	waitOnExit = !cli.NoWait

	switch cli.mode {
	case versionMode:
		fmt.Println("multirom", version)
		return
	case configMode:
		checkf(writeConfig(os.Stdout, &cli), "failed to write configuration")
		return
	}

	cfg := loadConfig(cli.ConfigFile)
	tr := report.NewTranscript(os.Stdout)
	tr.Printf("multirom %s\n", version)

	var err error
	switch cli.mode {
	case buildMode:
		err = runBuild(context.Background(), tr, cfg, &cli)
	case exportMode:
		err = runExport(tr, cfg, &cli, cli.Export.File, false)
	case importMode:
		err = runExport(tr, cfg, &cli, cli.ImportSRAM.File, true)
	}
	checkf(err, "%s failed", commandName(cli.mode))

	if !cli.NoLog {
		if err := tr.AppendLog(logFile, os.Args[1:]); err != nil {
			log.ModMain.WarnZ("failed to write log file").Error("err", err).End()
		}
	}
	wait("Press ENTER to exit.")
}

func commandName(m mode) string {
	switch m {
	case exportMode:
		return "export"
	case importMode:
		return "import"
	}
	return "build"
}

func loadConfig(path string) Config {
	if path == "" {
		return LoadConfigOrDefault()
	}
	cfg, err := LoadConfig(path)
	checkf(err, "failed to load configuration %s", path)
	return cfg
}

// writeConfig writes the current configuration, or the default one if there
// is none yet, to the configuration file or to stdout.
func writeConfig(stdout io.Writer, cli *CLI) error {
	path := cli.ConfigFile
	if path == "" {
		path = filepath.Join(ConfigDir(), cfgFilename)
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = defaultConfig
	} else if err != nil {
		return err
	}

	if cli.Config.Stdout {
		return EncodeConfig(stdout, cfg)
	}
	if err := SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Configuration written to “%s”\n", path)
	return nil
}

// firstOf returns the first non-empty string.
func firstOf(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

func lookupLayout(cfg Config, cli *CLI) (menu.Layout, error) {
	return menu.Lookup(firstOf(cli.Layout, cfg.Layout, "standard"), cfg.Layouts)
}

// resource resolves the path of a file shipped with a menu template.
func resource(tmplPath, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(tmplPath), name)
}

func runBuild(ctx context.Context, tr *report.Transcript, cfg Config, cli *CLI) error {
	layout, err := lookupLayout(cfg, cli)
	if err != nil {
		return err
	}
	tmplPath := firstOf(cli.Build.Menu, cfg.Menu, layout.Template)
	output := firstOf(cli.Build.Output, cfg.Output, build.DefaultOutput)
	if filepath.Base(output) == filepath.Base(tmplPath) {
		return fmt.Errorf("the output file must not be named %s", filepath.Base(tmplPath))
	}

	tmpl, err := menu.OpenTemplate(tmplPath, layout)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("menu template file %s not found", tmplPath)
	}
	if err != nil {
		return err
	}

	opts := build.Options{MenuTitle: build.DefaultMenuTitle}
	if title := romset.NormalizeTitle(firstOf(cli.Build.Title, cfg.MenuTitle)); title != "" {
		opts.MenuTitle = title
	}
	if opts.MenuTitle != build.DefaultMenuTitle && layout.MenuTitle != 0 {
		tr.Printf("Setting menu title to: %s\n", opts.MenuTitle)
	}

	if s := layout.Subtitles; s != nil {
		if opts.Renderer, err = glyph.NewRenderer(resource(tmplPath, s.Font)); err != nil {
			return err
		}
	}
	if g := layout.TitleGfx; g != nil {
		path := resource(tmplPath, g.Image)
		if opts.Banner, err = glyph.LoadBanner(path); err != nil {
			tr.Printf("\nError: %v, the menu keeps its title graphics.", err)
		}
	}

	roms := firstOf(cli.Build.Roms, cfg.Roms)
	mods, err := romset.Load(ctx, roms, romset.Options{Subtitles: layout.Subtitles != nil})
	if err != nil {
		return err
	}
	report.Found(tr, mods)

	c, err := build.Build(tmpl, mods, opts)
	if errors.Is(err, build.ErrNoModules) {
		return fmt.Errorf("please place program files into the “%s” directory", roms)
	}
	if err != nil {
		return err
	}
	report.Placed(tr, c)
	report.TOC(tr, c.Entries, report.Order(firstOf(cli.Build.TOC, string(report.OrderIndex))), layout.ItemsPerPage)

	files, err := c.Write(build.OutputName(output, c.Code), cli.Build.Split)
	if err != nil {
		return err
	}
	report.Summary(tr, c, files)

	if cli.Manifest != "" {
		return report.WriteManifest(cli.Manifest, report.BuildManifest(c, files))
	}
	return nil
}

func runExport(tr *report.Transcript, cfg Config, cli *CLI, path string, importSaves bool) error {
	layout, err := lookupLayout(cfg, cli)
	if err != nil {
		return err
	}
	c, err := extract.Open(path, layout)
	if err != nil {
		return err
	}
	report.Opened(tr, c)

	var files []extract.File
	if importSaves {
		files, err = c.ImportSaves(c.Dir())
		if errors.Is(err, extract.ErrNoExportDir) {
			tr.Printf("Error: No files found for importing!\nWill now instead export files to the “%s” directory.\nYou can then replace the individual .sav files and run the import again.", c.Dir())
			wait("Press ENTER to continue or Ctrl+C to cancel.")
			importSaves = false
		} else if err != nil {
			return err
		} else {
			report.Imported(tr, files)
		}
	}
	if !importSaves {
		if files, err = c.Export(c.Dir()); err != nil {
			return err
		}
		report.Exported(tr, files)
	}

	if cli.Manifest != "" {
		return report.WriteManifest(cli.Manifest, report.ExportManifest(c, files))
	}
	return nil
}

var waitOnExit bool

// wait prints msg and waits for the user to press enter.
func wait(msg string) {
	if !waitOnExit {
		return
	}
	fmt.Printf("\n%s\n", msg)
	bufio.NewReader(os.Stdin).ReadString('\n')
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf("%s.\n\t%v", fmt.Sprintf(format, args...), err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	wait("Press ENTER to exit.")
	os.Exit(1)
}
