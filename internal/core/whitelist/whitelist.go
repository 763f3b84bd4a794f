package whitelist

import (
	"sort"
	"strings"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

// Whitelist is the set of applications allowed to receive attributed time.
// An empty whitelist allows everything. Not safe for concurrent use.
type Whitelist struct {
	apps map[model.AppID]struct{}
}

func New(apps []model.AppID) *Whitelist {
	w := &Whitelist{apps: make(map[model.AppID]struct{}, len(apps))}
	for _, app := range apps {
		w.Add(app)
	}
	return w
}

// Allowed reports whether app may become the attributed subject
func (w *Whitelist) Allowed(app model.AppID) bool {
	if len(w.apps) == 0 {
		return true
	}
	_, ok := w.apps[app]
	return ok
}

// Add inserts app and reports whether the set changed
func (w *Whitelist) Add(app model.AppID) bool {
	app = Normalize(app)
	if app == "" {
		return false
	}
	if _, ok := w.apps[app]; ok {
		return false
	}
	w.apps[app] = struct{}{}
	return true
}

// Remove deletes app and reports whether the set changed
func (w *Whitelist) Remove(app model.AppID) bool {
	app = Normalize(app)
	if _, ok := w.apps[app]; !ok {
		return false
	}
	delete(w.apps, app)
	return true
}

// Replace swaps the whole set
func (w *Whitelist) Replace(apps []model.AppID) {
	w.apps = make(map[model.AppID]struct{}, len(apps))
	for _, app := range apps {
		w.Add(app)
	}
}

func (w *Whitelist) Len() int {
	return len(w.apps)
}

// List returns the members sorted
func (w *Whitelist) List() []model.AppID {
	out := make([]model.AppID, 0, len(w.apps))
	for app := range w.apps {
		out = append(out, app)
	}
	sort.Strings(out)
	return out
}

// Normalize trims whitespace and any directory part, keeping the executable base name.
// Case is preserved.
func Normalize(app string) string {
	app = strings.TrimSpace(app)
	if i := strings.LastIndexAny(app, `/\`); i >= 0 {
		app = app[i+1:]
	}
	return app
}
