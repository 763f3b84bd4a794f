package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-focus-monitor/internal/core/constants"
)

// AppID identifies an application, typically the executable base name.
// Equality is an exact string match.
type AppID = string

// SubjectKind distinguishes what is currently receiving attributed time
type SubjectKind int

const (
	SubjectNone SubjectKind = iota
	SubjectApp
	SubjectIdle
)

// Subject is the entity receiving attributed time: an application, the idle sentinel, or nothing.
type Subject struct {
	Kind SubjectKind
	App  AppID
}

func NoSubject() Subject {
	return Subject{Kind: SubjectNone}
}

func AppSubject(app AppID) Subject {
	if app == "" {
		return NoSubject()
	}
	return Subject{Kind: SubjectApp, App: app}
}

func IdleSubject() Subject {
	return Subject{Kind: SubjectIdle}
}

// ID returns the ledger key for the subject, or "" when there is none.
func (s Subject) ID() AppID {
	switch s.Kind {
	case SubjectApp:
		return s.App
	case SubjectIdle:
		return constants.IdleSubject
	default:
		return ""
	}
}

func (s Subject) IsNone() bool {
	return s.Kind == SubjectNone
}

func (s Subject) String() string {
	switch s.Kind {
	case SubjectApp:
		return s.App
	case SubjectIdle:
		return constants.IdleSubject
	default:
		return "No active window"
	}
}

// Flag is a 0|1 setting that also tolerates JSON booleans
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	// First try the canonical numeric form
	var n float64
	if err := sonic.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	var b bool
	if err := sonic.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	return fmt.Errorf("flag must be 0, 1 or a boolean, got %s", string(data))
}

// Settings is the persisted user configuration
type Settings struct {
	Whitelist      []AppID `json:"whitelist"`
	DarkMode       Flag    `json:"dark_mode"`
	StartMinimized Flag    `json:"start_minimized"`
}

// Clone returns a deep copy
func (s Settings) Clone() Settings {
	out := s
	out.Whitelist = append([]AppID(nil), s.Whitelist...)
	return out
}

// Snapshot is a consistent, detached copy of the tracker state for presentation layers.
type Snapshot struct {
	RecentApps     []AppID
	Ledger         map[AppID]float64
	LastUsed       map[AppID]float64
	CurrentSubject Subject
	SubjectSince   time.Time
	Settings       Settings
	TakenAt        time.Time
}

// Seconds returns the accumulated seconds for app
func (s Snapshot) Seconds(app AppID) float64 {
	return s.Ledger[app]
}

// LastUsedAt returns when app last stopped being the attributed subject
func (s Snapshot) LastUsedAt(app AppID) (time.Time, bool) {
	ts, ok := s.LastUsed[app]
	if !ok {
		return time.Time{}, false
	}
	return UnixSeconds(ts), true
}

// CurrentElapsed returns how long the current subject has been accruing uncommitted time
func (s Snapshot) CurrentElapsed() time.Duration {
	if s.CurrentSubject.IsNone() || s.SubjectSince.IsZero() {
		return 0
	}
	return s.TakenAt.Sub(s.SubjectSince)
}

// UnixSeconds converts fractional unix seconds to time.Time
func UnixSeconds(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// ToUnixSeconds converts t to fractional unix seconds
func ToUnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// AppUsage is one application's row in a report or the live view
type AppUsage struct {
	App      AppID
	Seconds  float64
	LastUsed time.Time // zero when never used
}

// Usage lists every application in the ledger. With includeCurrent the in-progress
// elapsed time of the current subject is added to its row.
func (s Snapshot) Usage(includeCurrent bool) []AppUsage {
	rows := make([]AppUsage, 0, len(s.Ledger)+1)
	seen := make(map[AppID]bool, len(s.Ledger))
	current := ""
	if includeCurrent && !s.CurrentSubject.IsNone() {
		current = s.CurrentSubject.ID()
	}

	for app, seconds := range s.Ledger {
		row := AppUsage{App: app, Seconds: seconds}
		if at, ok := s.LastUsedAt(app); ok {
			row.LastUsed = at
		}
		if app == current {
			row.Seconds += s.CurrentElapsed().Seconds()
		}
		rows = append(rows, row)
		seen[app] = true
	}

	if current != "" && !seen[current] {
		rows = append(rows, AppUsage{App: current, Seconds: s.CurrentElapsed().Seconds()})
	}
	return rows
}
