package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"multirom/log"
)

type mode byte

const (
	buildMode   mode = iota // Build a compilation
	exportMode              // Export programs and saves of a compilation
	importMode              // Import saves into a compilation save file
	configMode              // Write the default configuration
	versionMode             // Show multirom version
)

type (
	CLI struct {
		Build      Build      `cmd:"" help:"Build a compilation from the programs of the input directory. (default command)" default:"withargs"`
		Export     Export     `cmd:"" help:"${export_help}"`
		ImportSRAM ImportSRAM `cmd:"" help:"${import_help}" name:"import-sram"`
		Config     ConfigCmd  `cmd:"" help:"Write a configuration file holding the default settings."`
		Version    Version    `cmd:"" help:"Show multirom version."`

		ConfigFile string     `name:"config" help:"Configuration file. (default: ${config_path})" type:"path" placeholder:"FILE"`
		Layout     string     `name:"layout" help:"${layout_help}"`
		NoWait     bool       `name:"no-wait" help:"Don't wait for user input when finished."`
		NoLog      bool       `name:"no-log" help:"Don't write the log.txt file."`
		Manifest   string     `name:"manifest" help:"Write a JSON description of the result to FILE." type:"path" placeholder:"FILE"`
		Log        logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Build struct {
		Output string `arg:"" optional:"" name:"file" help:"${output_help}"`
		Title  string `name:"title" help:"Custom menu title."`
		Split  bool   `name:"split" help:"Split the output into 8MB parts."`
		TOC    string `name:"toc" help:"Order of the table of contents." enum:"index,offset,hide" default:"index"`
		Roms   string `name:"roms" help:"Input directory." type:"path" placeholder:"DIR"`
		Menu   string `name:"menu" help:"Menu template file." type:"path" placeholder:"FILE"`
	}

	Export struct {
		File string `arg:"" name:"file" help:"Compilation file." type:"existingfile"`
	}

	ImportSRAM struct {
		File string `arg:"" name:"file" help:"Compilation file." type:"existingfile"`
	}

	ConfigCmd struct {
		Stdout bool `name:"stdout" help:"Print the configuration instead of writing it."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"export_help": "Export the programs and save data of a compilation to the directory named after it.",
	"import_help": "Import the save files of the export directory into the compilation save file.",
	"layout_help": "Menu layout: standard, cn, or one defined in the configuration file.",
	"output_help": "Output file name, <CODE> is replaced by the rom code.",
	"log_help":    "Enable logging for specified modules.",
	"config_path": "<user config dir>/multirom/config.toml",
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("multirom"),
		kong.Description("Game Boy multicart compilation builder."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
}

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	cli.mode = commandMode(ctx.Command())
	return cli
}

func commandMode(cmd string) mode {
	switch {
	case strings.HasPrefix(cmd, "export"):
		return exportMode
	case strings.HasPrefix(cmd, "import-sram"):
		return importMode
	case cmd == "config":
		return configMode
	case cmd == "version":
		return versionMode
	}
	return buildMode
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}
