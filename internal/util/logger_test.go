package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelWarn, fields: map[string]interface{}{}}
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	logger.Info("hidden")
	logger.Warn("shown", F("app", "code.exe"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown app=code.exe")
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug, fields: map[string]interface{}{}}
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	child := logger.With(F("document", "data"))
	child.Debug("flushed", F("bytes", 12))

	assert.Contains(t, buf.String(), "flushed bytes=12 document=data")
}

func TestFormatEntryJSON(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "started",
	}

	line, err := formatEntry(entry, FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"message":"started"`)
}

func TestNewLoggerCreatesLogDirectory(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger("debug", logFile, false)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelInfo, ParseLogLevel("unknown"))
}
