package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

type TableFormatter struct {
	headers []string
	now     Clock
}

func NewTableFormatter(now Clock) *TableFormatter {
	return &TableFormatter{
		headers: []string{"Application", "Duration", "Last Used", "Age"},
		now:     now,
	}
}

func (f *TableFormatter) Format(w io.Writer, rows []model.AppUsage) error {
	now := f.now()

	var total float64
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		ts, age := formatLastUsed(row.LastUsed, now)
		body = append(body, []string{row.App, util.FormatClock(row.Seconds), ts, age})
		total += row.Seconds
	}
	totalRow := []string{"Total", util.FormatClock(total), "", ""}

	widths := f.calculateColumnWidths(append(body, totalRow))

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, values := range body {
		f.printRow(&b, values, widths)
	}
	f.printBorder(&b, widths, "middle")
	f.printRow(&b, totalRow, widths)
	f.printBorder(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

// calculateColumnWidths determines the display width of each column
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}

	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Apply minimum widths for readability
	minWidths := []int{12, 8, 8, 4}
	for i, minWidth := range minWidths {
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
	}
	return widths
}

// printBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

// printRow writes a row; the application column is left-aligned, the rest right-aligned
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		fmt.Fprintf(b, " %s │", util.PadString(value, widths[i], i == 0))
	}
	b.WriteString("\n")
}
