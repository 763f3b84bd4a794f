package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so commands can run repeatedly in one process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with a private home and storage directory
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--dir", dir, "--timezone", "UTC"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func seedLedger(t *testing.T, dir string, totals, lastUsed map[string]float64) {
	t.Helper()
	st, err := store.New(dir)
	require.NoError(t, err)
	require.NoError(t, st.Document(constants.DocumentData).Write(totals))
	require.NoError(t, st.Document(constants.DocumentLastUsed).Write(lastUsed))
}

func readSettings(t *testing.T, dir string) model.Settings {
	t.Helper()
	st, err := store.New(dir)
	require.NoError(t, err)
	var s model.Settings
	st.Document(constants.DocumentSettings).ReadOnly(&s)
	return s
}

func TestReportText(t *testing.T) {
	dir := t.TempDir()
	seedLedger(t, dir,
		map[string]float64{"code": 3723, "browser": 60, "notes": 5},
		map[string]float64{"code": 1714554000, "browser": 1714557600})

	out, err := execute(t, dir, "report")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "code: 01:02:03 (Last used: 2024-05-01 09:00:00, "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "browser: 00:01:00 (Last used: 2024-05-01 10:00:00, "), lines[1])
	assert.Equal(t, "notes: 00:00:05 (Last used: Never)", lines[2])

	out, err = execute(t, dir, "report", "--sort", "last-used", "--limit", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "browser:"), out)
}

func TestReportFormatsAndErrors(t *testing.T) {
	dir := t.TempDir()
	seedLedger(t, dir, map[string]float64{"code": 10}, nil)

	out, err := execute(t, dir, "report", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Application,Seconds,Duration,Last Used")
	assert.Contains(t, out, "code,10,00:00:10,")

	target := filepath.Join(t.TempDir(), "out.json")
	_, err = execute(t, dir, "report", "--format", "json", "--output", target)
	require.NoError(t, err)
	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"app": "code"`)

	_, err = execute(t, dir, "report", "--sort", "name")
	assert.Error(t, err)
	_, err = execute(t, dir, "report", "--format", "xml")
	assert.Error(t, err)
}

func TestReportEmptyStore(t *testing.T) {
	out, err := execute(t, t.TempDir(), "report")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestReportLeavesInFlightDocumentsAlone(t *testing.T) {
	dir := t.TempDir()
	seedLedger(t, dir, map[string]float64{"code": 10}, map[string]float64{"code": 1714554000})

	// A running tracker between rotating the stable file and renaming its new copy in
	data := filepath.Join(dir, constants.DocumentData+".json")
	require.NoError(t, os.Rename(data, data+".bak"))

	out, err := execute(t, dir, "report")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "code: 00:00:10 "), out)

	_, err = os.Stat(data)
	assert.True(t, os.IsNotExist(err), "report must not recreate the stable document")

	out, err = execute(t, dir, "whitelist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "every application is tracked")
	_, err = os.Stat(filepath.Join(dir, constants.DocumentSettings+".json"))
	assert.True(t, os.IsNotExist(err))
}

func TestWhitelistCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "whitelist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "every application is tracked")

	out, err = execute(t, dir, "whitelist", "add", "/usr/bin/firefox", "code")
	require.NoError(t, err)
	assert.Contains(t, out, "firefox: added")
	assert.Equal(t, []string{"code", "firefox"}, readSettings(t, dir).Whitelist)

	out, err = execute(t, dir, "whitelist", "add", "code")
	require.NoError(t, err)
	assert.Contains(t, out, "code: already whitelisted")

	out, err = execute(t, dir, "whitelist", "list")
	require.NoError(t, err)
	assert.Equal(t, "code\nfirefox\n", out)

	_, err = execute(t, dir, "whitelist", "remove", "firefox")
	require.NoError(t, err)
	assert.Equal(t, []string{"code"}, readSettings(t, dir).Whitelist)

	_, err = execute(t, dir, "whitelist", "add")
	assert.Error(t, err, "at least one app is required")
}

func TestSettingsCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "dark_mode:       off")

	_, err = execute(t, dir, "settings", "--dark-mode", "on", "--start-minimized", "1")
	require.NoError(t, err)
	s := readSettings(t, dir)
	assert.True(t, bool(s.DarkMode))
	assert.True(t, bool(s.StartMinimized))

	// Untouched flags keep their values
	out, err = execute(t, dir, "settings", "--dark-mode", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "start_minimized: on")
	assert.False(t, bool(readSettings(t, dir).DarkMode))

	_, err = execute(t, dir, "settings", "--dark-mode", "maybe")
	assert.Error(t, err)
}

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{"1", true, false},
		{"off", false, false},
		{"0", false, false},
		{"false", false, false},
		{"", false, true},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		got, err := parseSwitch(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestEnsureDir(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "test", "nested", "dir")

	require.NoError(t, ensureDir(testDir))
	info, err := os.Stat(testDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	assert.NoError(t, ensureDir(testDir))
}
