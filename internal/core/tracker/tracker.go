package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/ledger"
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/core/sampler"
	"github.com/penwyp/go-focus-monitor/internal/core/whitelist"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

// ErrAlreadyStarted is returned by Start when the loop is already running
var ErrAlreadyStarted = errors.New("tracker already started")

type docID int

const (
	docData docID = iota
	docLastUsed
	docSettings
	docCount
)

func (d docID) String() string {
	switch d {
	case docData:
		return "data"
	case docLastUsed:
		return "last_used"
	default:
		return "settings"
	}
}

// Tracker attributes elapsed wall-clock time to the foreground application.
//
// All tracked state lives behind mu. Every transition commits the outgoing subject's
// elapsed time, last-used timestamp and recency entry in one critical section. Disk writes
// happen outside mu, serialized by flushMu.
type Tracker struct {
	cfg     Config
	sampler sampler.Sampler
	docs    [docCount]Document

	mu           sync.Mutex
	ledger       *ledger.Ledger
	recent       *ledger.RecentApps
	whitelist    *whitelist.Whitelist
	settings     model.Settings
	current      model.Subject
	subjectStart time.Time
	running      bool
	stopped      bool

	// revision counters: a document is dirty while rev > saved
	rev   [docCount]uint64
	saved [docCount]uint64

	flushMu   sync.Mutex
	scheduler *flushScheduler

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
	idleWarn sync.Once
}

// New loads persisted state from docs and returns a tracker in the unattributed state
func New(s sampler.Sampler, docs Documents, cfg Config) *Tracker {
	cfg.applyDefaults()

	var totals, lastUsed map[model.AppID]float64
	var settings model.Settings
	docs.Data.Read(&totals)
	docs.LastUsed.Read(&lastUsed)
	docs.Settings.Read(&settings)

	now := cfg.Now()
	t := &Tracker{
		cfg:          cfg,
		sampler:      s,
		docs:         [docCount]Document{docs.Data, docs.LastUsed, docs.Settings},
		ledger:       ledger.New(totals, lastUsed),
		recent:       ledger.NewRecentApps(),
		whitelist:    whitelist.New(settings.Whitelist),
		settings:     settings.Clone(),
		current:      model.NoSubject(),
		subjectStart: now,
		scheduler:    newFlushScheduler(cfg.SaveInterval, now),
	}

	util.LogInfo("Tracker state loaded",
		util.F("apps", t.ledger.Len()),
		util.F("whitelist", t.whitelist.Len()))
	return t
}

// Start launches the sampling loop. Stop must be called to commit and flush.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.stopped {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	t.running = true
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.loop(loopCtx, t.done)
	util.LogInfo("Tracking started", util.F("interval", t.cfg.TrackInterval))
	return nil
}

func (t *Tracker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.cfg.TrackInterval)
	defer ticker.Stop()

	for {
		if !t.isRunning() {
			return
		}
		t.Tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (t *Tracker) isRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Stop ends the loop, commits the current subject and flushes every dirty document.
// It blocks until the flush completes and is safe to call more than once.
func (t *Tracker) Stop() error {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.running = false
		t.stopped = true
		cancel, done := t.cancel, t.done
		t.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}

		now := t.cfg.Now()
		t.mu.Lock()
		outgoing := t.current
		t.commitLocked(now)
		t.current = model.NoSubject()
		t.subjectStart = now
		t.mu.Unlock()

		t.stopErr = t.flush(now, true)
		util.LogInfo("Tracking stopped", util.F("last_subject", outgoing.String()))
	})
	return t.stopErr
}

// Tick performs one sampling step followed by a coalesced flush check
func (t *Tracker) Tick(ctx context.Context) {
	target, ok := t.sample(ctx)
	now := t.cfg.Now()

	if ok {
		t.mu.Lock()
		t.transitionLocked(target, now)
		t.mu.Unlock()
	}

	if err := t.flush(now, false); err != nil {
		util.LogWarnf("Flush failed, will retry: %v", err)
	}
}

// sample returns the target subject for this tick, or ok=false when nothing is attributable
func (t *Tracker) sample(ctx context.Context) (model.Subject, bool) {
	idle, err := t.sampler.IdleDuration(ctx)
	switch {
	case errors.Is(err, sampler.ErrIdleUnavailable):
		// Idle detection is off for good; keep attributing the foreground app
		t.idleWarn.Do(func() {
			util.LogWarn("Idle detection unavailable, tracking foreground only", util.F("reason", err))
		})
		idle = 0
	case err != nil:
		util.LogDebugf("Idle query failed: %v", err)
		return model.Subject{}, false
	}
	if idle >= t.cfg.IdleThreshold {
		return model.IdleSubject(), true
	}

	app, err := t.sampler.ForegroundApplication(ctx)
	if err != nil || app == "" {
		if err != nil {
			util.LogDebugf("Foreground query failed: %v", err)
		}
		return model.Subject{}, false
	}

	t.mu.Lock()
	allowed := t.whitelist.Allowed(app)
	t.mu.Unlock()
	if !allowed {
		return model.Subject{}, false
	}
	return model.AppSubject(app), true
}

// transitionLocked switches the attributed subject. Same-subject targets are no-ops.
func (t *Tracker) transitionLocked(target model.Subject, now time.Time) {
	if target == t.current {
		return
	}

	util.LogDebug("Subject changed", util.F("from", t.current.String()), util.F("to", target.String()))
	t.commitLocked(now)
	t.current = target
	t.subjectStart = now
}

// commitLocked credits the current subject with the time since subjectStart
func (t *Tracker) commitLocked(now time.Time) {
	if t.current.IsNone() {
		return
	}

	id := t.current.ID()
	t.ledger.RecordElapsed(id, now.Sub(t.subjectStart))
	t.ledger.TouchLastUsed(id, now)
	t.recent.NoteSwitch(id)
	t.rev[docData]++
	t.rev[docLastUsed]++
}

type pendingWrite struct {
	doc     docID
	rev     uint64
	payload any
}

// flush writes dirty documents when the save window has elapsed, or unconditionally when forced
func (t *Tracker) flush(now time.Time, force bool) error {
	t.flushMu.Lock()
	defer t.flushMu.Unlock()

	if !force && !t.scheduler.Due(now) {
		return nil
	}
	t.scheduler.Mark(now)

	t.mu.Lock()
	pending := t.pendingLocked()
	t.mu.Unlock()

	var errs []error
	for _, p := range pending {
		if err := t.docs[p.doc].Write(p.payload); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.doc, err))
			continue
		}

		t.mu.Lock()
		if p.rev > t.saved[p.doc] {
			t.saved[p.doc] = p.rev
		}
		t.mu.Unlock()
	}

	if len(pending) > 0 && len(errs) == 0 {
		util.LogDebug("Flushed documents", util.F("count", len(pending)))
	}
	return errors.Join(errs...)
}

func (t *Tracker) pendingLocked() []pendingWrite {
	var pending []pendingWrite
	for id := docID(0); id < docCount; id++ {
		if t.rev[id] == t.saved[id] {
			continue
		}

		var payload any
		switch id {
		case docData:
			payload = t.ledger.Totals()
		case docLastUsed:
			payload = t.ledger.LastUsedMap()
		case docSettings:
			payload = t.settingsLocked()
		}
		pending = append(pending, pendingWrite{doc: id, rev: t.rev[id], payload: payload})
	}
	return pending
}

// Flush writes every dirty document now, regardless of the save window
func (t *Tracker) Flush() error {
	return t.flush(t.cfg.Now(), true)
}

// Snapshot returns a detached copy of the tracker state
func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return model.Snapshot{
		RecentApps:     t.recent.List(),
		Ledger:         t.ledger.Totals(),
		LastUsed:       t.ledger.LastUsedMap(),
		CurrentSubject: t.current,
		SubjectSince:   t.subjectStart,
		Settings:       t.settingsLocked(),
		TakenAt:        t.cfg.Now(),
	}
}

// Dirty reports which documents hold unflushed changes
func (t *Tracker) Dirty() (data, lastUsed, settings bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rev[docData] != t.saved[docData],
		t.rev[docLastUsed] != t.saved[docLastUsed],
		t.rev[docSettings] != t.saved[docSettings]
}
