package report

import (
	"fmt"
	"io"

	"multirom/alloc"
	"multirom/build"
	"multirom/extract"
	"multirom/menu"
	"multirom/romset"
)

// Found reports the modules found in the input directory.
func Found(w io.Writer, mods []*romset.Module) {
	fmt.Fprintf(w, "Found %d ROM(s)\n\n", len(mods))
}

// Placed reports the modules that couldn't be placed and how many were.
func Placed(w io.Writer, c *build.Context) {
	var saves, plain int
	for _, p := range c.Result.Placed {
		if p.Bank != alloc.NoBank {
			saves++
		} else {
			plain++
		}
	}
	for _, r := range c.Result.Rejected {
		switch r.Reason {
		case alloc.ReasonNoSaveBank:
			fmt.Fprintf(w, "Error: Can't add %s because no SRAM slots are available or it would exceed the maximum size of the compilation!\n", r.Module.Title)
		default:
			fmt.Fprintf(w, "Error: Can't add %s (size: 0x%X) because it exceeds the maximum size of the compilation!\n", r.Module.Path, uint32(r.Module.Size))
		}
	}
	fmt.Fprintf(w, "Added %d ROM(s) that use SRAM to the compilation\n", saves)
	fmt.Fprintf(w, "Added %d ROM(s) that do not use SRAM to the compilation\n", plain)
	for _, p := range c.Unlisted {
		fmt.Fprintf(w, "Error: No space left in the menu for %s, it won't be listed.\n", p.Module.Title)
	}
}

// Summary reports the used space, the build date, the rom code and the
// files written.
func Summary(w io.Writer, c *build.Context, files []build.File) {
	fmt.Fprintf(w, "\nUsed space: %s\nBuild date: %s\nROM code: %s\n\n",
		FormatFileSize(c.Space.Used()), c.Built.Format(menu.TimeLayout), c.Code)
	for _, f := range files {
		switch f.Kind {
		case "part":
			fmt.Fprintf(w, "Compilation part %d saved to “%s”\n", f.Part, f.Path)
		case "sram":
			fmt.Fprintf(w, "Compilation SRAM saved to “%s”\n", f.Path)
		default:
			fmt.Fprintf(w, "Compilation ROM saved to “%s”\n", f.Path)
		}
	}
}

// Opened reports what the menu header of a compilation tells.
func Opened(w io.Writer, c *extract.Compilation) {
	fmt.Fprintln(w, "Compilation ROM loaded.")
	fmt.Fprintf(w, "\nMenu Version: %d\nBuild date: %s\nROM code: %s\n", c.Info.Version, c.Info.Built, c.Info.Code)
	if c.SRAM == nil {
		fmt.Fprintln(w, "SRAM file not found.")
	}
	fmt.Fprintln(w)
	for _, err := range c.Skipped {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// Exported reports the files written by an export.
func Exported(w io.Writer, files []extract.File) {
	for _, f := range files {
		if f.Kind == "sram" {
			fmt.Fprintf(w, "Exporting SRAM #%d to “%s”\n", f.Bank, f.Path)
		} else {
			fmt.Fprintf(w, "Exporting ROM #%d to “%s”\n", f.Slot+1, f.Path)
		}
	}
}

// Imported reports the save files read by an import.
func Imported(w io.Writer, files []extract.File) {
	for _, f := range files {
		fmt.Fprintf(w, "Importing “%s” into SRAM #%d\n", f.Path, f.Bank)
	}
}
