package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/config"
	"github.com/MrSnakeDoc/tuck/internal/httpserver"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/library"
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/scheduler"
	"github.com/MrSnakeDoc/tuck/internal/syncer"
	"github.com/MrSnakeDoc/tuck/internal/version"
)

// App is the long-running app role: sync loop, library cache, media
// collector and the local HTTP surface.
type App struct {
	env       *Env
	cfg       *config.Config
	logger    logger.Logger
	library   *library.Library
	syncer    *syncer.Syncer
	server    *httpserver.Server
	runner    *scheduler.SyncRunner
	refresher *scheduler.LibraryRefresher
	collector *scheduler.MediaCollector
	watcher   *scheduler.SpoolWatcher
}

func New(env *Env) *App {
	cfg, log := env.Config, env.Logger

	lib := library.New(env.Client, cfg.FanOut, log.Named("library"))
	s := syncer.New(env.Queue, env.Client, lib, log.Named("syncer"))

	trigger := make(chan struct{}, 1)
	a := &App{
		env:     env,
		cfg:     cfg,
		logger:  log,
		library: lib,
		syncer:  s,
		runner:  scheduler.NewSyncRunner(s, log.Named("sync-runner"), cfg.SyncInterval, trigger),
		refresher: scheduler.NewLibraryRefresher(lib, env.Client.IsLoggedIn,
			log.Named("library-refresher"), cfg.RefreshInterval),
		collector: scheduler.NewMediaCollector(env.Media, env.Queue, lib,
			log.Named("media-collector"), cfg.MediaGCInterval, cfg.MediaGrace),
	}
	if cfg.WatchSpool && cfg.QueueKind == config.QueueSpool {
		a.watcher = scheduler.NewSpoolWatcher(cfg.SpoolDir, trigger, cfg.WatchDebounce, log.Named("spool-watcher"))
	}

	httpLog := log.Named("http")
	a.server = httpserver.New(cfg, httpLog, deps.Deps{
		Logger:           httpLog,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRs:     cfg.AllowedCIDRs,
		TrustProxy:       cfg.TrustProxy,
		SyncBurst:        cfg.SyncBurst,
		SyncRefillPerMin: cfg.SyncRefillPerMin,
		Namespace:        env.Namespace,
		Queue:            env.Queue,
		QueueKind:        cfg.QueueKind,
		Library:          lib,
		Sync:             s,
		SyncTrigger:      trigger,
	})
	return a
}

// Run blocks until SIGINT/SIGTERM or until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunOn(ctx, nil)
}

// RunOn is Run without signal handling, serving on ln when it is not nil.
func (a *App) RunOn(ctx context.Context, ln net.Listener) error {
	a.logger.Info("starting tuck",
		logger.String("version", version.Version),
		logger.String("commit", version.Commit),
		logger.String("namespace", a.env.Namespace.Name()))

	// The library goes first so url records synced at start land in known folders.
	if err := a.refresher.Start(ctx); err != nil {
		return fmt.Errorf("start library refresher: %w", err)
	}
	defer a.refresher.Stop()

	if err := a.runner.Start(ctx); err != nil {
		return fmt.Errorf("start sync runner: %w", err)
	}
	defer a.runner.Stop()

	if err := a.collector.Start(ctx); err != nil {
		return fmt.Errorf("start media collector: %w", err)
	}
	defer a.collector.Stop()

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			return fmt.Errorf("start spool watcher: %w", err)
		}
		defer a.watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(ln)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	<-errCh

	a.logger.Info("tuck stopped cleanly")
	return nil
}

// SyncOnce drains the queue once without starting the loops.
func (a *App) SyncOnce(ctx context.Context) syncer.Report {
	if a.env.Client.IsLoggedIn(ctx) {
		if err := a.library.Refresh(ctx); err != nil {
			a.logger.Warn("library refresh before sync failed", logger.Error(err))
		}
	}
	return a.syncer.SyncPending(ctx)
}
