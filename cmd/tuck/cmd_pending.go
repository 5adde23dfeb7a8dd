package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
)

func newPendingCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Inspect the pending queue",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print queued records as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					return printJSON(cmd.OutOrStdout(), env.Queue.Load(ctx))
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every queued record without syncing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					n := len(env.Queue.Load(ctx))
					if err := env.Queue.Clear(ctx); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d pending record(s)\n", n)
					return nil
				})
			},
		},
	)
	return cmd
}
