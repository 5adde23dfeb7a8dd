package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/tuck/internal/api"
	"github.com/MrSnakeDoc/tuck/internal/config"
	"github.com/MrSnakeDoc/tuck/internal/kv"
	_ "github.com/MrSnakeDoc/tuck/internal/kv/loader" // register drivers
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/media"
	"github.com/MrSnakeDoc/tuck/internal/pending"
	"github.com/MrSnakeDoc/tuck/internal/rules"
	"github.com/MrSnakeDoc/tuck/internal/utils"
	"github.com/MrSnakeDoc/tuck/internal/version"
)

// Env is what both roles share: the namespace, the queue, the media
// directory, the rule table and the API client.
type Env struct {
	Config    *config.Config
	Logger    logger.Logger
	Namespace kv.Namespace
	Queue     pending.Queue
	Media     *media.Store
	Rules     rules.Table
	Client    *api.Client
}

// OpenEnv opens the shared namespace and everything built on it.
func OpenEnv(ctx context.Context, cfg *config.Config, log logger.Logger) (*Env, error) {
	ns, err := kv.Open(ctx, kv.Config{
		Driver:  cfg.KVDriver,
		Dir:     cfg.ContainerDir,
		Suite:   cfg.Suite,
		Options: cfg.KVOptions,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("open shared namespace: %w", err)
	}

	store, err := media.Open(cfg.ContainerDir)
	if err != nil {
		utils.CloseLogged(ns, "namespace", log)
		return nil, err
	}

	queue, err := pending.New(cfg.QueueKind, ns, cfg.SpoolDir, log)
	if err != nil {
		utils.CloseLogged(ns, "namespace", log)
		return nil, err
	}

	table, err := rules.LoadOrDefault(cfg.RulesFile)
	if err != nil {
		utils.CloseLogged(ns, "namespace", log)
		return nil, err
	}

	client := api.New(cfg.BaseURL, api.NewTokens(ns),
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithLogger(log.Named("api")),
		api.WithUserAgent(cfg.UserAgent+"/"+version.Version),
	)

	log.Debug("shared environment ready",
		logger.String("namespace", ns.Name()),
		logger.String("queue", cfg.QueueKind),
		logger.String("media", store.Dir()))

	return &Env{
		Config:    cfg,
		Logger:    log,
		Namespace: ns,
		Queue:     queue,
		Media:     store,
		Rules:     table,
		Client:    client,
	}, nil
}

func (e *Env) Close() {
	utils.CloseLogged(e.Namespace, "namespace", e.Logger)
}
