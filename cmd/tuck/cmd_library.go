package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
	"github.com/MrSnakeDoc/tuck/internal/domain"
)

func newFoldersCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage server folders",
	}

	var color string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				var c *string
				if color != "" {
					c = &color
				}
				f, err := env.Client.CreateFolder(ctx, args[0], c)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), f)
			})
		},
	}
	create.Flags().StringVar(&color, "color", "", "Folder color (default: server pick)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List folders with their bookmarks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					folders, err := env.Client.GetFolders(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), folders)
				})
			},
		},
		create,
		newFolderUpdateCmd(g),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid folder id: %w", err)
				}
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					return env.Client.DeleteFolder(ctx, id)
				})
			},
		},
	)
	return cmd
}

func newFolderUpdateCmd(g *globalFlags) *cobra.Command {
	var (
		name, description, color, icon, outcome string
		public                                  bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a folder's editable fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid folder id: %w", err)
			}
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				folders, err := env.Client.GetFolders(ctx)
				if err != nil {
					return err
				}
				var f *domain.Folder
				for i := range folders {
					if folders[i].ID == id {
						f = &folders[i]
						break
					}
				}
				if f == nil {
					return fmt.Errorf("folder %s not found", id)
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					f.Name = name
				}
				if flags.Changed("description") {
					f.Description = description
				}
				if flags.Changed("color") {
					f.Color = color
				}
				if flags.Changed("icon") {
					f.Icon = icon
				}
				if flags.Changed("outcome") {
					f.Outcome = domain.FolderOutcome(outcome)
				}
				if flags.Changed("public") {
					f.IsPublic = public
				}

				updated, err := env.Client.UpdateFolder(ctx, *f)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), updated)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon")
	cmd.Flags().StringVar(&outcome, "outcome", "", "New outcome (Learn, Buy, Watch, ...)")
	cmd.Flags().BoolVar(&public, "public", false, "Share the folder publicly")
	return cmd
}

func newBookmarksCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage server bookmarks",
	}

	var folder string
	list := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks, optionally for one folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var folderID *uuid.UUID
			if folder != "" {
				id, err := uuid.Parse(folder)
				if err != nil {
					return fmt.Errorf("invalid folder id: %w", err)
				}
				folderID = &id
			}
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				bms, err := env.Client.GetBookmarks(ctx, folderID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), bms)
			})
		},
	}
	list.Flags().StringVar(&folder, "folder", "", "Folder id")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a bookmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid bookmark id: %w", err)
				}
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					return env.Client.DeleteBookmark(ctx, id)
				})
			},
		},
	)
	return cmd
}
