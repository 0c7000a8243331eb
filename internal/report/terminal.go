package report

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	colorBar            = "\x1b[36m"
	colorWarn           = "\x1b[31m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// TerminalWidth returns the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colour should be written to w.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func colorize(s, code string, useColor bool) string {
	if !useColor || s == "" {
		return s
	}
	return code + s + colorReset
}
