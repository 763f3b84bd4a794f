package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/core/sampler"
	"github.com/penwyp/go-focus-monitor/internal/core/settings"
	"github.com/penwyp/go-focus-monitor/internal/core/tracker"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
	"github.com/penwyp/go-focus-monitor/internal/presentation/display"
	"github.com/penwyp/go-focus-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-focus-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-focus-monitor/internal/util"
	"golang.org/x/sync/errgroup"
)

// Dependencies are the platform-facing collaborators of the orchestrator.
// Nil fields get the real implementations.
type Dependencies struct {
	Sampler  sampler.Sampler
	Keyboard KeySource
	Display  DisplayController
	Output   io.Writer
	Now      func() time.Time
}

// Orchestrator coordinates all components for the run command
type Orchestrator struct {
	config *MonitorConfig
	now    func() time.Time

	// Core components
	store   *store.Store
	tracker *tracker.Tracker
	watcher *settings.Watcher

	// UI components
	display      DisplayController
	keyboard     KeySource
	sorter       *interaction.AppSorter
	stateManager *StateManager
}

// NewOrchestrator opens the working directory and loads the tracker state
func NewOrchestrator(config *MonitorConfig, deps Dependencies) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	st, err := store.New(util.ExpandPath(config.DataDir))
	if err != nil {
		return nil, err
	}

	if deps.Sampler == nil {
		deps.Sampler = sampler.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Output == nil {
		deps.Output = os.Stdout
	}
	if deps.Display == nil {
		deps.Display = display.NewTerminalDisplay(deps.Output, display.DisplayConfig{})
	}

	tr := tracker.New(sampler.WithTimeout(deps.Sampler, config.SampleTimeout), tracker.OpenDocuments(st), tracker.Config{
		TrackInterval: config.TrackInterval,
		IdleThreshold: config.IdleThreshold,
		SaveInterval:  config.SaveInterval,
		Now:           deps.Now,
	})

	// Settings edits from other processes are a convenience; tracking works without them
	watcher, err := settings.NewWatcher(st.Document(constants.DocumentSettings), tr)
	if err != nil {
		util.LogWarnf("Settings watcher unavailable: %v", err)
		watcher = nil
	}

	return &Orchestrator{
		config:       config,
		now:          deps.Now,
		store:        st,
		tracker:      tr,
		watcher:      watcher,
		display:      deps.Display,
		keyboard:     deps.Keyboard,
		sorter:       interaction.NewAppSorter(model.SortByDuration),
		stateManager: NewStateManager(model.SortByDuration),
	}, nil
}

// Tracker exposes the underlying tracker
func (o *Orchestrator) Tracker() *tracker.Tracker {
	return o.tracker
}

// Headless reports whether the run should skip the live view
func (o *Orchestrator) Headless() bool {
	if o.config.Headless {
		return true
	}
	return bool(o.tracker.Settings().StartMinimized) && !o.config.ForceUI
}

// Run tracks until ctx is cancelled or the user quits the live view.
// The final commit and flush always happen before Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting Focus Monitor...", util.F("dir", o.store.Dir()))

	runCtx, quit := context.WithCancel(ctx)
	defer quit()

	if err := o.tracker.Start(runCtx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(runCtx)

	if o.watcher != nil {
		g.Go(func() error {
			return o.watcher.Run(gctx)
		})
	}

	if o.Headless() {
		util.LogInfo("Running headless")
		g.Go(func() error {
			<-gctx.Done()
			return nil
		})
	} else {
		g.Go(func() error {
			return o.runView(gctx, quit)
		})
	}

	runErr := g.Wait()

	if o.watcher != nil {
		o.watcher.Close()
	}
	if err := o.tracker.Stop(); err != nil {
		util.LogErrorf("Final flush failed: %v", err)
		return errors.Join(runErr, fmt.Errorf("final flush: %w", err))
	}

	util.LogInfo("Shutting down Focus Monitor...")
	return runErr
}

// runView drives the live view until ctx ends or the user asks to quit
func (o *Orchestrator) runView(ctx context.Context, quit context.CancelFunc) error {
	if o.keyboard == nil {
		keyboard, err := interaction.NewKeyboardReader()
		if err != nil {
			// Without raw mode the view still renders; Ctrl+C reaches us as a signal
			util.LogWarnf("Keyboard input unavailable: %v", err)
		} else {
			o.keyboard = keyboard
		}
	}
	var keys <-chan interaction.KeyEvent
	if o.keyboard != nil {
		defer o.keyboard.Close()
		keys = o.keyboard.Events()
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	ticker := time.NewTicker(o.config.refreshInterval())
	defer ticker.Stop()

	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if !o.stateManager.GetInteractionState().IsPaused {
				o.updateDisplay()
			}

		case event, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if o.handleKeyboard(event) {
				quit()
				return nil
			}
			o.updateDisplay()
		}
	}
}

func (o *Orchestrator) updateDisplay() {
	o.display.Render(o.tracker.Snapshot(), o.stateManager.GetInteractionState())
}

// handleKeyboard applies a key press and reports whether the user asked to quit
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	switch event.Type {
	case interaction.KeyInterrupt:
		return true

	case interaction.KeyEscape:
		// If help is shown, close it; otherwise quit
		if o.stateManager.GetInteractionState().ShowHelp {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = false
			})
			return false
		}
		return true

	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q':
			return true
		case 's', 'S':
			field := o.sorter.Toggle()
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.SortField = field
				s.StatusMessage = "Sorted by " + field.String()
			})
		case 'e', 'E':
			path, err := o.Export()
			if err != nil {
				util.LogErrorf("Export failed: %v", err)
				o.stateManager.SetStatus("Export failed: " + err.Error())
			} else {
				o.stateManager.SetStatus("Exported to " + path)
			}
		case 'w', 'W':
			o.whitelistCurrent()
		case 'd', 'D':
			dark := !bool(o.tracker.Settings().DarkMode)
			o.tracker.SetDarkMode(dark)
			o.stateManager.SetStatus(fmt.Sprintf("Dark mode %s", onOff(dark)))
		case 'p', 'P':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.IsPaused = !s.IsPaused
			})
		case '?', 'h', 'H':
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = !s.ShowHelp
			})
		}
	}
	return false
}

func (o *Orchestrator) whitelistCurrent() {
	current := o.tracker.Snapshot().CurrentSubject
	if current.Kind != model.SubjectApp {
		o.stateManager.SetStatus("No application to whitelist")
		return
	}
	if o.tracker.AddToWhitelist(current.App) {
		o.stateManager.SetStatus(current.App + " added to whitelist")
	} else {
		o.stateManager.SetStatus(current.App + " is already whitelisted")
	}
}

// Export writes a text report of the committed totals to the export directory
func (o *Orchestrator) Export() (string, error) {
	snap := o.tracker.Snapshot()
	rows := snap.Usage(false)
	interaction.NewAppSorter(o.stateManager.GetInteractionState().SortField).Sort(rows)

	dir := util.ExpandPath(o.config.ExportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, o.now().Format(constants.ExportFilePattern))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := formatter.NewTextFormatter(o.now).Format(f, rows); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	util.LogInfo("Report exported", util.F("path", path), util.F("apps", len(rows)))
	return path, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
