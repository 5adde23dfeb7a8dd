package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/syncer"
)

// Drainer empties the pending queue.
type Drainer interface {
	SyncPending(ctx context.Context) syncer.Report
}

// SyncRunner drains the pending queue on start, on every interval and
// whenever something is sent on the trigger channel.
type SyncRunner struct {
	drainer Drainer
	logger  logger.Logger
	loop    *loop
}

// NewSyncRunner creates a runner. A zero interval disables the ticker.
func NewSyncRunner(d Drainer, log logger.Logger, interval time.Duration, trigger <-chan struct{}) *SyncRunner {
	return &SyncRunner{
		drainer: d,
		logger:  log,
		loop:    newLoop(interval, trigger),
	}
}

// Start syncs once, as the app does on foreground, then keeps going in the background.
func (r *SyncRunner) Start(ctx context.Context) error {
	r.run(ctx)
	r.loop.start(ctx, r.run, func(ctx context.Context) {
		r.logger.Info("manual pending sync triggered")
		r.run(ctx)
	})
	return nil
}

// Stop stops the runner and waits for an in-flight sync to finish.
func (r *SyncRunner) Stop() {
	r.loop.stop()
}

func (r *SyncRunner) run(ctx context.Context) {
	rep := r.drainer.SyncPending(ctx)
	if rep.Failed > 0 {
		r.logger.Warn("pending records lost during sync",
			logger.Int("failed", rep.Failed),
			logger.Int("attempted", rep.Attempted))
	}
}
