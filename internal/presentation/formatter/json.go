package formatter

import (
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonRow struct {
	App      string     `json:"app"`
	Seconds  float64    `json:"seconds"`
	Duration string     `json:"duration"`
	LastUsed *time.Time `json:"last_used"`
}

func (f *JSONFormatter) Format(w io.Writer, rows []model.AppUsage) error {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		r := jsonRow{
			App:      row.App,
			Seconds:  row.Seconds,
			Duration: util.FormatClock(row.Seconds),
		}
		if !row.LastUsed.IsZero() {
			at := row.LastUsed
			r.LastUsed = &at
		}
		out = append(out, r)
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
