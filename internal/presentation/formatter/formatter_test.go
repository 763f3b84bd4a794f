package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return reportNow }

func sampleRows() []model.AppUsage {
	return []model.AppUsage{
		{App: "code.exe", Seconds: 3723, LastUsed: reportNow.Add(-5 * time.Minute)},
		{App: "Idle Time", Seconds: 90000, LastUsed: reportNow.Add(-26 * time.Hour)},
		{App: "notes", Seconds: 0},
	}
}

func setUTC(t *testing.T) {
	t.Helper()
	require.NoError(t, util.InitializeTimeProvider("UTC"))
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "TEXT", "table", "csv", "json"} {
		f, err := NewFormatter(name, nil)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("xml", nil)
	assert.Error(t, err)
}

func TestTextFormatter(t *testing.T) {
	setUTC(t)

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(fixedClock).Format(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "code.exe: 01:02:03 (Last used: 2024-05-01 11:55:00, 5 minutes ago)", lines[0])
	assert.Equal(t, "Idle Time: 25:00:00 (Last used: 2024-04-30 10:00:00, 1 day ago)", lines[1])
	assert.Equal(t, "notes: 00:00:00 (Last used: Never)", lines[2])
}

func TestTableFormatter(t *testing.T) {
	setUTC(t)

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(fixedClock).Format(&buf, sampleRows()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "┌"))
	assert.Contains(t, out, "Application")
	assert.Contains(t, out, "01:02:03")
	assert.Contains(t, out, "Never")
	// Total row sums durations
	assert.Contains(t, out, "26:02:03")

	// Every line has the same display width
	lines := strings.Split(strings.TrimSpace(out), "\n")
	width := util.GetDisplayWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, util.GetDisplayWidth(line), line)
	}
}

func TestCSVFormatter(t *testing.T) {
	setUTC(t)

	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Application", "Seconds", "Duration", "Last Used"}, records[0])
	assert.Equal(t, []string{"code.exe", "3723", "01:02:03", "2024-05-01 11:55:00"}, records[1])
	assert.Equal(t, "", records[3][3])
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, sampleRows()))

	var decoded []map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "code.exe", decoded[0]["app"])
	assert.Equal(t, 3723.0, decoded[0]["seconds"])
	assert.Equal(t, "01:02:03", decoded[0]["duration"])
	assert.Nil(t, decoded[2]["last_used"])
}

func TestEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(fixedClock).Format(&buf, nil))
	assert.Empty(t, buf.String())

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
