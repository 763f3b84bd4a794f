package display

import (
	"os"

	"golang.org/x/term"
)

const (
	defaultWidth = 74
	minWidth     = 40
	maxWidth     = 120
)

// WidthFunc reports the usable terminal width
type WidthFunc func() int

// TerminalWidth returns the width of stdout with a fallback for pipes and tiny terminals
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return defaultWidth
	}
	// Leave a margin, cap at a readable maximum
	width -= 2
	if width > maxWidth {
		width = maxWidth
	}
	return width
}

// FixedWidth returns a WidthFunc that always reports width
func FixedWidth(width int) WidthFunc {
	return func() int { return width }
}

// IsTerminal reports whether both stdin and stdout are terminals
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
