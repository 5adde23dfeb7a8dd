package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// DefaultDebounce lets a burst of spool writes settle into one sync.
const DefaultDebounce = 500 * time.Millisecond

// SpoolWatcher triggers a sync when record files appear in the spool directory.
type SpoolWatcher struct {
	dir      string
	trigger  chan<- struct{}
	debounce time.Duration
	logger   logger.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

func NewSpoolWatcher(dir string, trigger chan<- struct{}, debounce time.Duration, log logger.Logger) *SpoolWatcher {
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	return &SpoolWatcher{
		dir:      dir,
		trigger:  trigger,
		debounce: debounce,
		logger:   log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins watching. The directory must exist.
func (w *SpoolWatcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.watcher = fw
	w.logger.Info("watching pending spool", logger.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine.
func (w *SpoolWatcher) Stop() {
	w.once.Do(func() { close(w.stopCh) })
	if w.watcher == nil {
		return
	}
	<-w.doneCh
}

func (w *SpoolWatcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("failed to close spool watcher", logger.Error(err))
		}
	}()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isRecordEvent(ev) {
				continue
			}
			w.logger.Debug("spool event", logger.String("file", ev.Name), logger.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("spool watcher error", logger.Error(err))

		case <-timer.C:
			select {
			case w.trigger <- struct{}{}:
			default:
				// a sync is already queued
			}
		}
	}
}

// isRecordEvent keeps creates and renames of finished record files.
// Temp files start with a dot; removals come from Clear.
func isRecordEvent(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".json" {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write)
}
