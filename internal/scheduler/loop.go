package scheduler

import (
	"context"
	"sync"
	"time"
)

// loop runs fn on every tick until Stop or ctx is done.
// An extra channel, when set, runs fn out of band.
type loop struct {
	interval time.Duration
	extra    <-chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	once     sync.Once
	started  bool
}

func newLoop(interval time.Duration, extra <-chan struct{}) *loop {
	return &loop{
		interval: interval,
		extra:    extra,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (l *loop) start(ctx context.Context, onTick, onExtra func(context.Context)) {
	l.started = true
	go func() {
		defer close(l.doneCh)

		var tick <-chan time.Time
		if l.interval > 0 {
			ticker := time.NewTicker(l.interval)
			defer ticker.Stop()
			tick = ticker.C
		}
		for {
			select {
			case <-tick:
				onTick(ctx)
			case <-l.extra:
				onExtra(ctx)
			case <-l.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// stop signals the goroutine and waits for it to return.
func (l *loop) stop() {
	l.once.Do(func() { close(l.stopCh) })
	if l.started {
		<-l.doneCh
	}
}
