package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Storage
	dataDir string

	// Output related
	timezone string

	rootCmd = &cobra.Command{
		Use:   "go-focus-monitor",
		Short: "Foreground application time tracker",
		Long: `go-focus-monitor records how long each application holds the foreground.

Time is sampled once per second and attributed to the focused application, or to
"Idle Time" after five minutes without input. Totals survive restarts and crashes.

Examples:
  go-focus-monitor run                           # Track with a live view
  go-focus-monitor run --headless                # Track without a view
  go-focus-monitor report --sort last-used       # Print totals, most recent first
  go-focus-monitor whitelist add code firefox    # Only track these applications
  go-focus-monitor settings --dark-mode on       # Dark live view palette`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", constants.DefaultDataDir,
		"Working storage directory")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for timestamps (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func Execute() error {
	return rootCmd.Execute()
}

// initRuntime sets up logging and the time provider shared by every command
func initRuntime() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := util.ExpandPath(constants.DefaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return util.InitializeTimeProvider(timezone)
}

// openStore opens the working storage directory, creating it if needed
func openStore() (*store.Store, error) {
	st, err := store.New(util.ExpandPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	return st, nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
