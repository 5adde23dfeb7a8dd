package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/media"
	"github.com/MrSnakeDoc/tuck/internal/pending"
)

// DefaultMediaGrace is how old an unreferenced media file must be before it is removed.
const DefaultMediaGrace = 24 * time.Hour

// AssetLister reports the media paths held by cached bookmarks.
type AssetLister interface {
	AssetPaths() []string
}

// MediaCollector removes media files no pending record and no cached
// bookmark refers to.
type MediaCollector struct {
	store  *media.Store
	queue  pending.Queue
	assets AssetLister
	logger logger.Logger
	grace  time.Duration
	loop   *loop
}

func NewMediaCollector(
	store *media.Store,
	queue pending.Queue,
	assets AssetLister,
	log logger.Logger,
	interval time.Duration,
	grace time.Duration,
) *MediaCollector {
	if grace == 0 {
		grace = DefaultMediaGrace
	}
	return &MediaCollector{
		store:  store,
		queue:  queue,
		assets: assets,
		logger: log,
		grace:  grace,
		loop:   newLoop(interval, nil),
	}
}

func (mc *MediaCollector) Start(ctx context.Context) error {
	if _, err := mc.Collect(ctx); err != nil {
		mc.logger.Warn("initial media collection failed", logger.Error(err))
	}
	mc.loop.start(ctx, func(ctx context.Context) {
		if _, err := mc.Collect(ctx); err != nil {
			mc.logger.Error("media collection failed", logger.Error(err))
		}
	}, nil)
	return nil
}

func (mc *MediaCollector) Stop() {
	mc.loop.stop()
}

// Collect sweeps the media directory and returns the removed paths.
func (mc *MediaCollector) Collect(ctx context.Context) ([]string, error) {
	keep := map[string]struct{}{}
	for _, p := range mc.queue.Load(ctx) {
		if p.AssetRelativePath != nil {
			keep[*p.AssetRelativePath] = struct{}{}
		}
	}
	if mc.assets != nil {
		for _, rel := range mc.assets.AssetPaths() {
			keep[rel] = struct{}{}
		}
	}

	removed, err := mc.store.Sweep(keep, time.Now().Add(-mc.grace))
	for _, rel := range removed {
		mc.logger.Info("removed orphaned media file", logger.String("path", rel))
	}
	if err != nil {
		return removed, fmt.Errorf("sweep media: %w", err)
	}
	if len(removed) == 0 {
		mc.logger.Debug("no media to collect")
	}
	return removed, nil
}
