package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
	"github.com/MrSnakeDoc/tuck/internal/media"
	"github.com/MrSnakeDoc/tuck/internal/share"
)

type shareFlags struct {
	folder string
	auto   bool
}

func newShareCmd(g *globalFlags) *cobra.Command {
	sf := &shareFlags{}
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Queue something for the app to sync",
		Long: `Capture one item the way the share sheet does.

  share url <link>      - a link; --auto sends it to smart sort
  share text <text>     - a note or quote
  share file <path>     - any file, copied into the media directory
  share image <path>    - an image, re-encoded as JPEG`,
	}
	cmd.PersistentFlags().StringVar(&sf.folder, "folder", "", "Folder to save into (default: suggested)")
	cmd.PersistentFlags().BoolVar(&sf.auto, "auto", false, "Let smart sort pick the folder (urls only)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "url <link>",
			Short: "Share a link",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return sf.run(cmd, g, share.StaticProvider{share.TypeURL: {URL: args[0]}})
			},
		},
		&cobra.Command{
			Use:   "text <text>",
			Short: "Share a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return sf.run(cmd, g, share.StaticProvider{share.TypePlainText: {Text: args[0]}})
			},
		},
		&cobra.Command{
			Use:   "file <path>",
			Short: "Share a local file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				return sf.run(cmd, g, share.StaticProvider{share.TypeFileURL: {
					Path:     path,
					Filename: filepath.Base(path),
					UTI:      media.UTIForExtension(filepath.Ext(path)),
				}})
			},
		},
		&cobra.Command{
			Use:   "image <path>",
			Short: "Share an image",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				return sf.run(cmd, g, share.StaticProvider{share.TypeImage: {Path: path}})
			},
		},
	)
	return cmd
}

func (sf *shareFlags) run(cmd *cobra.Command, g *globalFlags, p share.Provider) error {
	return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
		sess := share.NewSession(share.Config{
			Queue:  env.Queue,
			Media:  env.Media,
			Sorter: env.Client,
			Rules:  env.Rules,
			Logger: env.Logger,
		})
		if err := sess.Load(ctx, []share.Provider{p}); err != nil {
			return err
		}
		if sf.folder != "" {
			if err := sess.SelectFolder(sf.folder); err != nil {
				return err
			}
		}

		var err error
		if sf.auto {
			err = sess.AutoSort(ctx)
		} else {
			err = sess.Save(ctx)
		}
		if err != nil {
			return err
		}

		<-sess.Done()
		if rec, ok := sess.Saved(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q to %s\n", rec.Title, rec.Folder)
		}
		return nil
	})
}
