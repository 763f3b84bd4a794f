package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/application/monitor"
	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/sampler"
	"github.com/penwyp/go-focus-monitor/internal/presentation/display"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	runHeadless      bool
	runForceUI       bool
	runIdleThreshold time.Duration
	runSaveInterval  time.Duration
	runSampleTimeout time.Duration
	runRefreshRate   float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track foreground application time",
	Long: `Samples the foreground application once per second until interrupted.

The live view shows the current subject, the three most recently left applications
and the accumulated totals. Keys: q quit, s sort, e export, w whitelist the current
application, d dark mode, p pause, ? help.

With start_minimized enabled in settings, or when stdout is not a terminal, tracking
runs headless. Ctrl+C always commits the current subject and flushes before exiting.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runHeadless, "headless", false,
		"Track without the live view")
	runCmd.Flags().BoolVar(&runForceUI, "ui", false,
		"Show the live view even when start_minimized is set")
	runCmd.Flags().DurationVar(&runIdleThreshold, "idle-threshold", constants.IdleThreshold,
		"Input idle time after which time goes to Idle Time")
	runCmd.Flags().DurationVar(&runSaveInterval, "save-interval", constants.SaveInterval,
		"Maximum delay before changes are written to disk")
	runCmd.Flags().DurationVar(&runSampleTimeout, "sample-timeout", constants.DefaultSampleTimeout,
		"Upper bound for one foreground or idle query")
	runCmd.Flags().Float64Var(&runRefreshRate, "refresh-rate", constants.DefaultRefreshRate,
		"Live view refresh rate (0.1-20 Hz)")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	defer util.CloseLogger()

	headless := runHeadless
	if !headless && !runForceUI && !display.IsTerminal() {
		util.LogInfo("Not attached to a terminal, running headless")
		headless = true
	}

	config := &monitor.MonitorConfig{
		DataDir:       dataDir,
		ExportDir:     constants.DefaultExportDir,
		Timezone:      timezone,
		Headless:      headless,
		ForceUI:       runForceUI,
		UIRefreshRate: runRefreshRate,
		IdleThreshold: runIdleThreshold,
		SaveInterval:  runSaveInterval,
		SampleTimeout: runSampleTimeout,
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := sampler.New()
	probeCtx, cancelProbe := context.WithTimeout(ctx, runSampleTimeout)
	if ok, reason := sampler.Available(probeCtx, s); !ok {
		// Not fatal: every tick is simply unattributed until the sampler recovers
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", reason)
		util.LogWarn("Activity sampler unavailable", util.F("reason", reason))
	}
	cancelProbe()

	orchestrator, err := monitor.NewOrchestrator(config, monitor.Dependencies{Sampler: s})
	if err != nil {
		return err
	}

	if orchestrator.Headless() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Tracking in the background, press Ctrl+C to stop")
	}
	return orchestrator.Run(ctx)
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
