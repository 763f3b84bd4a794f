package settings

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

// DefaultDebounce coalesces the burst of events produced by one atomic rewrite
const DefaultDebounce = 100 * time.Millisecond

// Document is the settings document as read by the watcher
type Document interface {
	ReadOnly(out any) store.ReadResult
	Path() string
}

// Target receives settings changed by other processes
type Target interface {
	Settings() model.Settings
	ApplySettings(model.Settings)
}

// Watcher reloads the settings document when it changes on disk
type Watcher struct {
	watcher  *fsnotify.Watcher
	doc      Document
	target   Target
	name     string
	debounce time.Duration
	events   chan model.FileEvent
}

// NewWatcher watches the directory holding doc. Watching the directory rather than the
// file keeps the watch alive across the rename that replaces the stable file.
func NewWatcher(doc Document, target Target) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(doc.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		doc:      doc,
		target:   target,
		name:     filepath.Base(doc.Path()),
		debounce: DefaultDebounce,
		events:   make(chan model.FileEvent, 16),
	}, nil
}

// SetDebounce overrides the reload delay
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Events reports the settings file events that led to a reload attempt.
// Sends never block; events are dropped when nobody listens.
func (w *Watcher) Events() <-chan model.FileEvent {
	return w.events
}

// Run processes events until ctx is cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.events <- model.FileEvent{Path: event.Name, Operation: event.Op.String()}:
			default:
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.Reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			util.LogError("Settings watcher error: " + err.Error())
		}
	}
}

// Reload reads the document and applies it when it differs from the target's settings.
// It returns true when settings were applied.
func (w *Watcher) Reload() bool {
	var next model.Settings
	res := w.doc.ReadOnly(&next)
	if res.Source != store.SourceStable {
		// Missing stable file: either a write is in flight, whose rename triggers another
		// reload, or it is unreadable. Either way keep what we have.
		return false
	}

	if Equal(next, w.target.Settings()) {
		return false
	}

	w.target.ApplySettings(next)
	util.LogInfo("Applied external settings change", util.F("document", w.name))
	return true
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Equal compares settings ignoring whitelist order and duplicates
func Equal(a, b model.Settings) bool {
	if a.DarkMode != b.DarkMode || a.StartMinimized != b.StartMinimized {
		return false
	}
	return slices.Equal(normalized(a.Whitelist), normalized(b.Whitelist))
}

func normalized(apps []model.AppID) []model.AppID {
	out := slices.Clone(apps)
	slices.Sort(out)
	return slices.Compact(out)
}
