package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

type timeoutSampler struct {
	inner   Sampler
	timeout time.Duration
}

// WithTimeout bounds every call on s. A call that outlives the timeout returns an error
// and its eventual result is discarded.
func WithTimeout(s Sampler, timeout time.Duration) Sampler {
	if timeout <= 0 {
		return s
	}
	return &timeoutSampler{inner: s, timeout: timeout}
}

type appResult struct {
	app model.AppID
	err error
}

func (t *timeoutSampler) ForegroundApplication(ctx context.Context) (model.AppID, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	ch := make(chan appResult, 1)
	go func() {
		app, err := t.inner.ForegroundApplication(ctx)
		ch <- appResult{app: app, err: err}
	}()

	select {
	case r := <-ch:
		return r.app, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("foreground query: %w", ctx.Err())
	}
}

type idleResult struct {
	idle time.Duration
	err  error
}

func (t *timeoutSampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	ch := make(chan idleResult, 1)
	go func() {
		idle, err := t.inner.IdleDuration(ctx)
		ch <- idleResult{idle: idle, err: err}
	}()

	select {
	case r := <-ch:
		return r.idle, r.err
	case <-ctx.Done():
		return 0, fmt.Errorf("idle query: %w", ctx.Err())
	}
}
