package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"multirom/alloc"
	"multirom/build"
)

// Order is the ordering of the table of contents.
type Order string

const (
	OrderIndex  Order = "index"
	OrderOffset Order = "offset"
	OrderHide   Order = "hide"
)

const (
	tocHeader = "    | Title            | Offset    | Size     | Mapper | Parameters  | SRAM ID"
	tocSep    = "----+------------------+-----------+----------+--------+-------------+---------"
)

// TOCLine formats the table of contents line of e.
func TOCLine(e *build.Entry) string {
	m := e.Module
	bank := ""
	if e.Bank != alloc.NoBank {
		bank = strconv.Itoa(e.Bank)
		if len(m.Save) > 0 {
			bank += " (sav)"
		}
	}
	return fmt.Sprintf("%3d | %-16s | 0x%07X | 0x%06X | %-5s  | %s | %-4s",
		e.Slot+1, m.Title, e.Offset, uint32(m.Size), m.Mapper, e.Param, bank)
}

// TOC writes the table of contents of a build. In index order, a separator
// is printed after each menu page.
func TOC(w io.Writer, entries []build.Entry, order Order, perPage int) {
	if order == OrderHide {
		return
	}

	sorted := slices.Clone(entries)
	if order == OrderOffset {
		slices.SortFunc(sorted, func(a, b build.Entry) int {
			return cmp.Compare(a.Offset, b.Offset)
		})
	}

	fmt.Fprintf(w, "\n%s\n%s\n", tocHeader, tocSep)
	for i := range sorted {
		fmt.Fprintln(w, TOCLine(&sorted[i]))
		if order == OrderIndex && perPage > 0 && (i+1)%perPage == 0 {
			fmt.Fprintln(w, tocSep)
		}
	}
}
