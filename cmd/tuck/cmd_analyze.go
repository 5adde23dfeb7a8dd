package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
	"github.com/MrSnakeDoc/tuck/internal/version"
)

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	var (
		title, notes string
		save         bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Ask the server which folder a link belongs in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				t, n := optString(title), optString(notes)
				if save {
					saved, err := env.Client.AnalyzeAndSaveBookmark(ctx, args[0], t, n)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), saved)
				}
				res, err := env.Client.AnalyzeBookmark(ctx, args[0], t, n)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title hint")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes hint")
	cmd.Flags().BoolVar(&save, "save", false, "Also save the bookmark into the suggested folder")
	return cmd
}

func newSmartSortCmd(g *globalFlags) *cobra.Command {
	var examples string
	cmd := &cobra.Command{
		Use:   "smart-sort <text>",
		Short: "Classify free text into folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				res, err := env.Client.SmartSort(ctx, args[0], optString(examples))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&examples, "examples", "", "Example items to steer the classifier")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
