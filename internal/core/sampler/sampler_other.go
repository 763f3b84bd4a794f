//go:build !linux && !darwin

package sampler

import (
	"context"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

type unsupportedSampler struct{}

func newPlatformSampler() Sampler {
	return unsupportedSampler{}
}

func (unsupportedSampler) ForegroundApplication(ctx context.Context) (model.AppID, error) {
	return "", ErrUnsupported
}

func (unsupportedSampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	return 0, ErrUnsupported
}
