package verify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

// WaitStage names one step of WaitForDynamicContent.
type WaitStage string

const (
	StageNetworkIdle      WaitStage = "network-idle"
	StageSelector         WaitStage = "selector"
	StageDOMContentLoaded WaitStage = "dom-content-loaded"
	StageGrace            WaitStage = "grace"
)

// WaitFailure records a stage that did not complete.
type WaitFailure struct {
	Stage WaitStage
	Err   error
}

// WaitReport is the outcome of WaitForDynamicContent.
type WaitReport struct {
	Failures []WaitFailure
	Elapsed  time.Duration
}

// TimedOut reports whether any stage ran out of time.
func (r WaitReport) TimedOut() bool {
	for _, f := range r.Failures {
		if errors.Is(f.Err, platform.ErrTimeout) || errors.Is(f.Err, context.DeadlineExceeded) {
			return true
		}
	}
	return false
}

// OK reports whether every stage completed.
func (r WaitReport) OK() bool {
	return len(r.Failures) == 0
}

// WaitForDynamicContent waits, in order, for network idle, the optional
// selector, DOMContentLoaded and a grace period. Each stage has its own
// budget. Failures are logged and recorded, never returned, so verification
// always proceeds and reports what it finds.
func WaitForDynamicContent(ctx context.Context, waiter platform.Waiter, opts platform.WaitOptions) WaitReport {
	start := time.Now()
	var report WaitReport

	run := func(stage WaitStage, timeout time.Duration, fn func(context.Context) error) {
		if timeout <= 0 {
			return
		}
		stageCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := fn(stageCtx); err != nil {
			log.Warn().Err(err).Str("stage", string(stage)).Dur("timeout", timeout).Msg("wait for dynamic content")
			report.Failures = append(report.Failures, WaitFailure{Stage: stage, Err: err})
		}
	}

	if waiter != nil {
		if opts.NetworkIdle {
			run(StageNetworkIdle, opts.NetworkIdleTimeout, func(c context.Context) error {
				return waiter.WaitForNetworkIdle(c, opts.NetworkIdleTimeout)
			})
		}
		if opts.Selector != "" {
			run(StageSelector, opts.SelectorTimeout, func(c context.Context) error {
				return waiter.WaitForSelector(c, opts.Selector, opts.SelectorTimeout)
			})
		}
		run(StageDOMContentLoaded, opts.DOMTimeout, func(c context.Context) error {
			return waiter.WaitForDOMContentLoaded(c, opts.DOMTimeout)
		})
	}

	if opts.GracePeriod > 0 {
		timer := time.NewTimer(opts.GracePeriod)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			log.Warn().Err(ctx.Err()).Str("stage", string(StageGrace)).Msg("wait for dynamic content")
			report.Failures = append(report.Failures, WaitFailure{Stage: StageGrace, Err: ctx.Err()})
		}
	}

	report.Elapsed = time.Since(start)
	return report
}
