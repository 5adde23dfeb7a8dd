package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the app role until interrupted",
		Long: `Run the background sync loop, the library refresher, the media
collector and the local HTTP surface. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				return app.New(env).Run(ctx)
			})
		},
	}
}

func newSyncCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Drain the pending queue once and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				report := app.New(env).SyncOnce(ctx)
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}
