package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

// TextFormatter writes one line per application:
//
//	code.exe: 01:02:03 (Last used: 2024-05-01 09:00:00, 5 minutes ago)
type TextFormatter struct {
	now Clock
}

func NewTextFormatter(now Clock) *TextFormatter {
	return &TextFormatter{now: now}
}

func (f *TextFormatter) Format(w io.Writer, rows []model.AppUsage) error {
	now := f.now()
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, TextLine(row, now)); err != nil {
			return err
		}
	}
	return nil
}

// TextLine renders a single report line
func TextLine(row model.AppUsage, now time.Time) string {
	ts, age := formatLastUsed(row.LastUsed, now)
	lastUsed := ts
	if age != "" {
		lastUsed = ts + ", " + age
	}
	return fmt.Sprintf("%s: %s (Last used: %s)", row.App, util.FormatClock(row.Seconds), lastUsed)
}
