package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/ledger"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
	"github.com/penwyp/go-focus-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-focus-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	reportSort   string
	reportFormat string
	reportOutput string
	reportLimit  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print accumulated application time",
	Long: `Prints one line per application with its cumulative time as HH:MM:SS and when it
was last used, for example:

  code: 01:02:03 (Last used: 2024-05-01 09:00:00, 5 minutes ago)

Reads the persisted totals, so it works while "run" is active (up to one save
interval behind) or after it exits.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportSort, "sort", "s", "duration",
		"Sort order (duration, last-used)")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", formatter.FormatText,
		"Output format (text, table, csv, json)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "",
		"Write the report to a file instead of stdout")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0,
		"Limit result count (0 = unlimited)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	defer util.CloseLogger()

	field, ok := model.ParseSortField(reportSort)
	if !ok {
		return fmt.Errorf("invalid sort %q: must be 'duration' or 'last-used'", reportSort)
	}
	f, err := formatter.NewFormatter(reportFormat, time.Now)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	rows := loadUsage(st)
	interaction.NewAppSorter(field).Sort(rows)
	rows = interaction.Limit(rows, reportLimit)

	var out io.Writer = cmd.OutOrStdout()
	if reportOutput != "" {
		file, err := os.Create(util.ExpandPath(reportOutput))
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := f.Format(out, rows); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	util.LogDebug("Report written", util.F("apps", len(rows)), util.F("format", reportFormat))
	return nil
}

// loadUsage reads the persisted ledger documents into report rows. A running tracker
// owns the documents, so nothing is healed from here.
func loadUsage(st *store.Store) []model.AppUsage {
	var totals, lastUsed map[model.AppID]float64
	st.Document(constants.DocumentData).ReadOnly(&totals)
	st.Document(constants.DocumentLastUsed).ReadOnly(&lastUsed)

	l := ledger.New(totals, lastUsed)
	snap := model.Snapshot{Ledger: l.Totals(), LastUsed: l.LastUsedMap()}
	return snap.Usage(false)
}
