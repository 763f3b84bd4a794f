package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

// Formatter writes a usage report
type Formatter interface {
	Format(w io.Writer, rows []model.AppUsage) error
}

// Clock supplies the reference time for relative ages
type Clock func() time.Time

// Supported report formats
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, now Clock) (Formatter, error) {
	if now == nil {
		now = time.Now
	}

	switch strings.ToLower(name) {
	case "", FormatText:
		return NewTextFormatter(now), nil
	case FormatTable:
		return NewTableFormatter(now), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, table, csv or json)", name)
	}
}

// formatLastUsed renders the absolute timestamp and its age, or "Never"
func formatLastUsed(at, now time.Time) (string, string) {
	if at.IsZero() {
		return "Never", ""
	}
	return util.GetTimeProvider().FormatTimestamp(at), util.FormatAge(now.Sub(at))
}
