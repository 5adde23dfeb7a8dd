package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
	"github.com/MrSnakeDoc/tuck/internal/config"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logLevel   string
	pretty     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "tuck",
		Short: "Save links, notes and files now, sort them later",
		Long: `tuck captures shared content into a pending queue and syncs it
into your bookmark library.

Capture side:
  share    - queue a url, text, file or image
  pending  - inspect or clear the queue

App side:
  serve    - run the sync loop and the local HTTP surface
  sync     - drain the queue once
  folders, bookmarks, auth, analyze, smart-sort - talk to the server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "TOML config file (or set TUCK_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.pretty, "pretty", false, "Human readable logs")

	root.AddCommand(
		newServeCmd(g),
		newSyncCmd(g),
		newShareCmd(g),
		newPendingCmd(g),
		newAuthCmd(g),
		newFoldersCmd(g),
		newBookmarksCmd(g),
		newAnalyzeCmd(g),
		newSmartSortCmd(g),
		newVersionCmd(),
	)
	return root
}

// load resolves the effective config. Flags win over the file and env.
func (g *globalFlags) load() (*config.Config, logger.Logger, error) {
	if g.configFile != "" {
		if err := os.Setenv("TUCK_CONFIG_FILE", g.configFile); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.pretty {
		cfg.PrettyLog = true
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}

// withEnv opens the shared environment, runs fn and closes it.
func (g *globalFlags) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *app.Env) error) error {
	cfg, log, err := g.load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := app.OpenEnv(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(ctx, env)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
