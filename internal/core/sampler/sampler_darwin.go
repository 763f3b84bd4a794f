//go:build darwin

package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

type darwinSampler struct{}

func newPlatformSampler() Sampler {
	return &darwinSampler{}
}

func (s *darwinSampler) ForegroundApplication(ctx context.Context) (model.AppID, error) {
	out, err := runCommand(ctx, "osascript", "-e", frontmostScript)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoForeground, err)
	}
	if out == "" {
		return "", ErrNoForeground
	}
	return out, nil
}

func (s *darwinSampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	out, err := runCommand(ctx, "ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return 0, idleQueryError(err)
	}
	return parseHIDIdleTime(out)
}
