// Package format renders campaigns, donations and cache entities for the
// terminal.
package format

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

type fdWriter interface {
	Fd() uintptr
}

// ColorEnabled reports whether w is a terminal and NO_COLOR is unset.
// Writers without an Fd method are never colored.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f, ok := w.(fdWriter); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Colorize wraps text in ANSI escape codes if enabled is true.
func Colorize(enabled bool, code, text string) string {
	if !enabled || code == "" {
		return text
	}
	return code + text + Reset
}

// PadColor pads text to width, then colors it. The padding stays outside the
// color codes so columns line up.
func PadColor(enabled bool, code, text string, width int) string {
	padding := ""
	if n := len([]rune(text)); n < width {
		padding = strings.Repeat(" ", width-n)
	}
	return Colorize(enabled, code, text) + padding
}
