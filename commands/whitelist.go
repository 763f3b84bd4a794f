package commands

import (
	"fmt"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/core/whitelist"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"github.com/spf13/cobra"
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage the applications that may receive time",
	Long: `An empty whitelist tracks every application. Once it has entries, only those
applications are tracked; while another application is focused, the last whitelisted
one keeps accruing time.

Names are executable base names; directory parts are stripped, so
"/usr/bin/firefox" and "firefox" are the same entry. A running tracker picks up
changes within a second.`,
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <app>...",
	Short: "Add applications to the whitelist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWhitelist(cmd, args, (*whitelist.Whitelist).Add, "added", "already whitelisted")
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:     "remove <app>...",
	Aliases: []string{"rm"},
	Short:   "Remove applications from the whitelist",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWhitelist(cmd, args, (*whitelist.Whitelist).Remove, "removed", "not whitelisted")
	},
}

var whitelistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List whitelisted applications",
	Args:    cobra.NoArgs,
	RunE:    runWhitelistList,
}

func init() {
	rootCmd.AddCommand(whitelistCmd)
	whitelistCmd.AddCommand(whitelistAddCmd, whitelistRemoveCmd, whitelistListCmd)
}

func editWhitelist(cmd *cobra.Command, apps []string, op func(*whitelist.Whitelist, model.AppID) bool, done, unchanged string) error {
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
	wl := whitelist.New(s.Whitelist)

	changed := false
	for _, app := range apps {
		name := whitelist.Normalize(app)
		if op(wl, name) {
			changed = true
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, done)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, unchanged)
		}
	}
	if !changed {
		return nil
	}

	s.Whitelist = wl.List()
	if err := doc.Write(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	util.LogInfo("Whitelist saved", util.F("entries", wl.Len()))
	return nil
}

func runWhitelistList(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	defer util.CloseLogger()

	st, err := openStore()
	if err != nil {
		return err
	}

	var s model.Settings
	st.Document(constants.DocumentSettings).ReadOnly(&s)
	apps := whitelist.New(s.Whitelist).List()
	if len(apps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Whitelist is empty: every application is tracked")
		return nil
	}
	for _, app := range apps {
		fmt.Fprintln(cmd.OutOrStdout(), app)
	}
	return nil
}
