//go:build linux

package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

// x11Sampler queries the X server through xdotool and xprintidle
type x11Sampler struct {
	procRoot string
}

func newPlatformSampler() Sampler {
	return &x11Sampler{procRoot: "/proc"}
}

func (s *x11Sampler) ForegroundApplication(ctx context.Context) (model.AppID, error) {
	out, err := runCommand(ctx, "xdotool", "getactivewindow", "getwindowpid")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoForeground, err)
	}

	pid, err := parsePID(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoForeground, err)
	}
	return processName(s.procRoot, pid)
}

func (s *x11Sampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	out, err := runCommand(ctx, "xprintidle")
	if err != nil {
		return 0, idleQueryError(err)
	}
	return parseMillis(out)
}
