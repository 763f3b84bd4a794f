package tracker

import (
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

// Settings returns the current settings
func (t *Tracker) Settings() model.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settingsLocked()
}

func (t *Tracker) settingsLocked() model.Settings {
	s := t.settings.Clone()
	s.Whitelist = t.whitelist.List()
	return s
}

// AddToWhitelist allows app; takes effect on the next tick
func (t *Tracker) AddToWhitelist(app model.AppID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.whitelist.Add(app) {
		return false
	}
	t.rev[docSettings]++
	util.LogInfo("Whitelist updated", util.F("added", app))
	return true
}

// RemoveFromWhitelist disallows app; an emptied whitelist allows everything again
func (t *Tracker) RemoveFromWhitelist(app model.AppID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.whitelist.Remove(app) {
		return false
	}
	t.rev[docSettings]++
	util.LogInfo("Whitelist updated", util.F("removed", app))
	return true
}

// SetDarkMode records the display preference and marks settings for saving
func (t *Tracker) SetDarkMode(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bool(t.settings.DarkMode) == enabled {
		return
	}
	t.settings.DarkMode = model.Flag(enabled)
	t.rev[docSettings]++
}

// SetStartMinimized records whether run starts headless and marks settings for saving
func (t *Tracker) SetStartMinimized(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bool(t.settings.StartMinimized) == enabled {
		return
	}
	t.settings.StartMinimized = model.Flag(enabled)
	t.rev[docSettings]++
}

// ApplySettings adopts settings persisted by someone else. They are not marked dirty.
func (t *Tracker) ApplySettings(s model.Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rev[docSettings] != t.saved[docSettings] {
		util.LogWarn("External settings change replaces unsaved local edits")
		t.saved[docSettings] = t.rev[docSettings]
	}
	t.whitelist.Replace(s.Whitelist)
	t.settings = s.Clone()
	util.LogInfo("Settings reloaded", util.F("whitelist", t.whitelist.Len()))
}
