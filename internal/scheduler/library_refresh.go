package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// Refresher reloads the folder cache.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// LibraryRefresher periodically reloads the library while a user is logged in.
type LibraryRefresher struct {
	library  Refresher
	loggedIn func(ctx context.Context) bool
	logger   logger.Logger
	loop     *loop
}

func NewLibraryRefresher(
	lib Refresher,
	loggedIn func(ctx context.Context) bool,
	log logger.Logger,
	interval time.Duration,
) *LibraryRefresher {
	return &LibraryRefresher{
		library:  lib,
		loggedIn: loggedIn,
		logger:   log,
		loop:     newLoop(interval, nil),
	}
}

// Start refreshes once and then on every interval. The first refresh
// failing is logged, not returned: the server may simply be down.
func (lr *LibraryRefresher) Start(ctx context.Context) error {
	lr.Refresh(ctx)
	lr.loop.start(ctx, lr.Refresh, nil)
	return nil
}

func (lr *LibraryRefresher) Stop() {
	lr.loop.stop()
}

// Refresh reloads the library unless no user is logged in.
func (lr *LibraryRefresher) Refresh(ctx context.Context) {
	if lr.loggedIn != nil && !lr.loggedIn(ctx) {
		lr.logger.Debug("skipping library refresh, not logged in")
		return
	}
	if err := lr.library.Refresh(ctx); err != nil {
		lr.logger.Error("failed to refresh library", logger.Error(err))
	}
}
