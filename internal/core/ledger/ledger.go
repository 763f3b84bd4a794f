package ledger

import (
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

// Ledger holds accumulated seconds and last-used timestamps per application.
// It is not safe for concurrent use; the tracker guards it with its own lock.
type Ledger struct {
	totals   map[model.AppID]float64
	lastUsed map[model.AppID]float64
}

// New builds a ledger seeded from persisted documents. Nil maps are treated as empty.
func New(totals, lastUsed map[model.AppID]float64) *Ledger {
	l := &Ledger{
		totals:   make(map[model.AppID]float64, len(totals)),
		lastUsed: make(map[model.AppID]float64, len(lastUsed)),
	}
	for app, seconds := range totals {
		if seconds < 0 {
			seconds = 0
		}
		l.totals[app] = seconds
	}
	for app, ts := range lastUsed {
		l.lastUsed[app] = ts
		// Every last-used key is addressable in the totals
		if _, ok := l.totals[app]; !ok {
			l.totals[app] = 0
		}
	}
	return l
}

// RecordElapsed adds elapsed time to app, creating the entry at zero if absent
func (l *Ledger) RecordElapsed(app model.AppID, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	l.totals[app] += elapsed.Seconds()
}

// TouchLastUsed overwrites the last-used timestamp for app
func (l *Ledger) TouchLastUsed(app model.AppID, at time.Time) {
	if _, ok := l.totals[app]; !ok {
		l.totals[app] = 0
	}
	l.lastUsed[app] = model.ToUnixSeconds(at)
}

// Seconds returns the accumulated seconds for app
func (l *Ledger) Seconds(app model.AppID) float64 {
	return l.totals[app]
}

// LastUsed returns the last-used timestamp for app
func (l *Ledger) LastUsed(app model.AppID) (time.Time, bool) {
	ts, ok := l.lastUsed[app]
	if !ok {
		return time.Time{}, false
	}
	return model.UnixSeconds(ts), true
}

// Len returns the number of tracked applications
func (l *Ledger) Len() int {
	return len(l.totals)
}

// Totals returns a copy of the accumulated seconds
func (l *Ledger) Totals() map[model.AppID]float64 {
	return copyMap(l.totals)
}

// LastUsedMap returns a copy of the last-used timestamps
func (l *Ledger) LastUsedMap() map[model.AppID]float64 {
	return copyMap(l.lastUsed)
}

func copyMap(in map[model.AppID]float64) map[model.AppID]float64 {
	out := make(map[model.AppID]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// RecentApps is a bounded most-recently-switched-from list, most recent first.
type RecentApps struct {
	apps  []model.AppID
	limit int
}

func NewRecentApps() *RecentApps {
	return &RecentApps{
		apps:  make([]model.AppID, 0, constants.RecentAppsLimit),
		limit: constants.RecentAppsLimit,
	}
}

// NoteSwitch inserts app at the front unless it is already present anywhere in the buffer
func (r *RecentApps) NoteSwitch(app model.AppID) {
	if app == "" {
		return
	}
	for _, existing := range r.apps {
		if existing == app {
			return
		}
	}

	r.apps = append([]model.AppID{app}, r.apps...)
	if len(r.apps) > r.limit {
		r.apps = r.apps[:r.limit]
	}
}

// List returns a copy, most recent first
func (r *RecentApps) List() []model.AppID {
	return append([]model.AppID(nil), r.apps...)
}
