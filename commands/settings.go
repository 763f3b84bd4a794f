package commands

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	settingsDarkMode       string
	settingsStartMinimized string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Long: `Without flags, prints the current preferences.

  --dark-mode on|off         live view palette
  --start-minimized on|off   "run" starts headless unless --ui is given`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().StringVar(&settingsDarkMode, "dark-mode", "",
		"Dark live view palette (on, off)")
	settingsCmd.Flags().StringVar(&settingsStartMinimized, "start-minimized", "",
		"Start tracking headless (on, off)")
}

func runSettings(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	defer util.CloseLogger()

	st, err := openStore()
	if err != nil {
		return err
	}
	doc := st.Document(constants.DocumentSettings)

	var s model.Settings
	doc.ReadOnly(&s)

	changed := false
	if cmd.Flags().Changed("dark-mode") {
		v, err := parseSwitch(settingsDarkMode)
		if err != nil {
			return fmt.Errorf("--dark-mode: %w", err)
		}
		changed = changed || bool(s.DarkMode) != v
		s.DarkMode = model.Flag(v)
	}
	if cmd.Flags().Changed("start-minimized") {
		v, err := parseSwitch(settingsStartMinimized)
		if err != nil {
			return fmt.Errorf("--start-minimized: %w", err)
		}
		changed = changed || bool(s.StartMinimized) != v
		s.StartMinimized = model.Flag(v)
	}

	if changed {
		if err := doc.Write(s); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		util.LogInfo("Settings saved")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dark_mode:       %s\n", onOff(bool(s.DarkMode)))
	fmt.Fprintf(out, "start_minimized: %s\n", onOff(bool(s.StartMinimized)))
	fmt.Fprintf(out, "whitelist:       %d entries\n", len(s.Whitelist))
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "1", "true", "yes":
		return true, nil
	case "off", "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q: must be 'on' or 'off'", v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
