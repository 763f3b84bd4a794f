package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorGray    = "\033[90m"
	ColorWhite   = "\033[97m"
	ColorBlack   = "\033[30m"
	ColorBold    = "\033[1m"

	ClearScreen    = "\033[2J"
	ClearLine      = "\033[2K"
	MoveCursorHome = "\033[H"
	HideCursor     = "\033[?25l"
	ShowCursor     = "\033[?25h"

	EnterAltScreen = "\033[?1049h"
	ExitAltScreen  = "\033[?1049l"
)

// Palette groups the colors used by the live view
type Palette struct {
	Title  string
	Accent string
	Text   string
	Muted  string
	Alert  string
}

// DarkPalette suits dark terminal backgrounds
var DarkPalette = Palette{
	Title:  ColorBold + ColorMagenta,
	Accent: ColorCyan,
	Text:   ColorWhite,
	Muted:  ColorGray,
	Alert:  ColorYellow,
}

// LightPalette suits light terminal backgrounds
var LightPalette = Palette{
	Title:  ColorBold + ColorBlue,
	Accent: ColorMagenta,
	Text:   ColorBlack,
	Muted:  ColorGray,
	Alert:  ColorRed,
}

// PaletteFor returns the palette for the dark mode setting
func PaletteFor(darkMode bool) Palette {
	if darkMode {
		return DarkPalette
	}
	return LightPalette
}

// Paint wraps text in a color sequence
func Paint(color, text string) string {
	if color == "" {
		return text
	}
	return fmt.Sprintf("%s%s%s", color, text, ColorReset)
}

// GetDisplayWidth calculates the display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s to width display cells
func PadString(s string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(s)
	if actual >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateString shortens s to width display cells with an ellipsis
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
