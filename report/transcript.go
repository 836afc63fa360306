// Package report formats what the builder and the extractor tell the user:
// the console transcript and its log file, the table of contents of a
// compilation and the JSON manifests.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const logSeparator = "\n################################\n\n"

// Transcript writes to an output and keeps a copy of everything written.
type Transcript struct {
	out io.Writer
	buf bytes.Buffer
}

func NewTranscript(out io.Writer) *Transcript {
	return &Transcript{out: out}
}

func (t *Transcript) Write(p []byte) (int, error) {
	t.buf.Write(p)
	return t.out.Write(p)
}

// Printf prints a line.
func (t *Transcript) Printf(format string, args ...any) {
	fmt.Fprintf(t, format+"\n", args...)
}

// Println prints a line.
func (t *Transcript) Println(args ...any) {
	fmt.Fprintln(t, args...)
}

func (t *Transcript) String() string { return t.buf.String() }

// AppendLog appends the transcript, the command line arguments and a
// separator to the log file at path.
func (t *Transcript) AppendLog(path string, args []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.Write(t.buf.Bytes())
	fmt.Fprintf(&sb, "\nArgument List: %s\n", argList(args))
	sb.WriteString(logSeparator)
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func argList(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `\'`) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// FormatFileSize formats a byte count the way the report shows sizes.
func FormatFileSize(n int) string {
	switch {
	case n == 1:
		return "1 Byte"
	case n < 1024:
		return fmt.Sprintf("%d Bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}
