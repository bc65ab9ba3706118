// Package cliutil provides shared output helpers for CLI commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writef writes formatted output to the writer. A failed write is reported
// on stderr rather than returned; command output is best effort.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Banner writes a section title underlined with '=' to match its width.
func Banner(w io.Writer, title string) {
	Writef(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}
