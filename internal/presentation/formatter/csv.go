package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(out io.Writer, rows []model.AppUsage) error {
	w := csv.NewWriter(out)

	headers := []string{"Application", "Seconds", "Duration", "Last Used"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		lastUsed := ""
		if !row.LastUsed.IsZero() {
			lastUsed = util.GetTimeProvider().FormatTimestamp(row.LastUsed)
		}
		record := []string{
			row.App,
			fmt.Sprintf("%.0f", row.Seconds),
			util.FormatClock(row.Seconds),
			lastUsed,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
