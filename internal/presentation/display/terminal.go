package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

// DisplayConfig tunes the live view
type DisplayConfig struct {
	// MaxRows caps the totals table; 0 fits everything
	MaxRows int
	Width   WidthFunc
}

// TerminalDisplay renders tracker snapshots as a full-screen live view
type TerminalDisplay struct {
	out               io.Writer
	config            DisplayConfig
	inAlternateScreen bool
	previousScreen    []string
}

func NewTerminalDisplay(out io.Writer, config DisplayConfig) *TerminalDisplay {
	if config.Width == nil {
		config.Width = TerminalWidth
	}
	return &TerminalDisplay{out: out, config: config}
}

// EnterAlternateScreen switches to the alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen+util.ClearScreen+util.MoveCursorHome+util.HideCursor)
	td.inAlternateScreen = true
	td.previousScreen = nil
}

// ExitAlternateScreen returns to the normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	td.inAlternateScreen = false
}

// Render draws snap. Unchanged frames are skipped.
func (td *TerminalDisplay) Render(snap model.Snapshot, state model.InteractionState) {
	lines := td.BuildScreen(snap, state)
	if equalLines(lines, td.previousScreen) {
		return
	}
	td.previousScreen = lines

	var b strings.Builder
	b.WriteString(util.MoveCursorHome)
	for _, line := range lines {
		b.WriteString(util.ClearLine)
		b.WriteString(line)
		b.WriteString("\n")
	}
	// Wipe leftovers from a longer previous frame
	b.WriteString("\033[J")
	io.WriteString(td.out, b.String())
}

// BuildScreen returns the lines of one frame
func (td *TerminalDisplay) BuildScreen(snap model.Snapshot, state model.InteractionState) []string {
	palette := util.PaletteFor(bool(snap.Settings.DarkMode))
	width := td.config.Width()
	now := snap.TakenAt
	if now.IsZero() {
		now = time.Now()
	}

	var lines []string
	add := func(color, text string) {
		lines = append(lines, util.Paint(color, util.TruncateString(text, width)))
	}

	title := "Tracking: " + snap.CurrentSubject.String()
	if !snap.CurrentSubject.IsNone() {
		title += fmt.Sprintf(" (%s)", util.FormatDuration(snap.CurrentElapsed()))
	}
	add(palette.Title, title)
	add(palette.Muted, strings.Repeat("─", width))

	add(palette.Accent, "Recent")
	for i := 0; i < constants.RecentAppsLimit; i++ {
		if i >= len(snap.RecentApps) {
			lines = append(lines, "")
			continue
		}
		add(palette.Text, "  "+RecentLine(snap, snap.RecentApps[i]))
	}
	lines = append(lines, "")

	rows := snap.Usage(true)
	interaction.NewAppSorter(state.SortField).Sort(rows)
	rows = interaction.Limit(rows, td.config.MaxRows)

	add(palette.Accent, fmt.Sprintf("Totals (%d apps, by %s)", len(snap.Ledger), state.SortField))
	lines = append(lines, td.tableLines(rows, now, width, palette, snap.CurrentSubject.ID())...)
	lines = append(lines, "")

	if state.StatusMessage != "" {
		add(palette.Alert, state.StatusMessage)
	}
	if state.IsPaused {
		add(palette.Alert, "Display paused")
	}
	if state.ShowHelp {
		for _, h := range helpLines {
			add(palette.Muted, h)
		}
	} else {
		add(palette.Muted, "q quit · s sort · e export · w whitelist current · d dark mode · ? help")
	}
	return lines
}

var helpLines = []string{
	"q, Esc, Ctrl+C  stop tracking and exit",
	"s               toggle sort between duration and last used",
	"e               export a text report",
	"w               add the current application to the whitelist",
	"d               toggle dark mode",
	"p               pause or resume the display",
	"?               toggle this help",
}

func (td *TerminalDisplay) tableLines(rows []model.AppUsage, now time.Time, width int, palette util.Palette, current model.AppID) []string {
	const durationWidth = 9 // 999:59:59
	ageWidth := 16
	appWidth := width - durationWidth - ageWidth - 6
	if appWidth < 10 {
		appWidth = 10
	}

	lines := make([]string, 0, len(rows)+1)
	header := fmt.Sprintf("  %s  %s  %s",
		util.PadString("Application", appWidth, true),
		util.PadString("Duration", durationWidth, false),
		util.PadString("Last used", ageWidth, true))
	lines = append(lines, util.Paint(palette.Muted, util.TruncateString(header, width)))

	for _, row := range rows {
		age := "Never"
		if !row.LastUsed.IsZero() {
			age = util.FormatAge(now.Sub(row.LastUsed))
		}
		marker := "  "
		color := palette.Text
		if row.App == current {
			marker = "▶ "
			color = palette.Accent
		}
		line := fmt.Sprintf("%s%s  %s  %s",
			marker,
			util.PadString(util.TruncateString(row.App, appWidth), appWidth, true),
			util.PadString(util.FormatClock(row.Seconds), durationWidth, false),
			util.PadString(age, ageWidth, true))
		lines = append(lines, util.Paint(color, util.TruncateString(line, width)))
	}
	return lines
}

// RecentLine renders a recent-apps entry as "app - HH:MM:SS (Last used: ts)"
func RecentLine(snap model.Snapshot, app model.AppID) string {
	lastUsed := "Never"
	if at, ok := snap.LastUsedAt(app); ok {
		lastUsed = util.GetTimeProvider().FormatTimestamp(at)
	}
	return fmt.Sprintf("%s - %s (Last used: %s)", app, util.FormatClock(snap.Seconds(app)), lastUsed)
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
