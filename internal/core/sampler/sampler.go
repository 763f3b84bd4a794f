package sampler

import (
	"context"
	"errors"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

var (
	// ErrUnsupported is returned on platforms without a foreground/idle query
	ErrUnsupported = errors.New("activity sampling not supported on this platform")
	// ErrNoForeground means no application owns the foreground right now
	ErrNoForeground = errors.New("no foreground application")
	// ErrIdleUnavailable means idle time cannot be queried at all, e.g. the helper tool is
	// not installed. Foreground sampling may still work.
	ErrIdleUnavailable = errors.New("idle time query unavailable")
)

// Sampler reports which application owns the user's attention and how long input has been idle.
// Errors are transient: the tracker treats them as "nothing attributable" for that tick.
// ErrIdleUnavailable is the exception, it disables idle detection only.
type Sampler interface {
	// ForegroundApplication returns the identifier of the foregrounded application
	ForegroundApplication(ctx context.Context) (model.AppID, error)
	// IdleDuration returns how long the input devices have been idle
	IdleDuration(ctx context.Context) (time.Duration, error)
}

// New returns the sampler for the current platform
func New() Sampler {
	return newPlatformSampler()
}

// Available reports whether the platform sampler can answer queries right now
func Available(ctx context.Context, s Sampler) (bool, string) {
	_, err := s.IdleDuration(ctx)
	if errors.Is(err, ErrUnsupported) {
		return false, err.Error()
	}
	if errors.Is(err, ErrIdleUnavailable) {
		return false, err.Error() + ", idle time will not be tracked"
	}
	if err != nil {
		return false, "idle query failed: " + err.Error()
	}
	return true, ""
}
