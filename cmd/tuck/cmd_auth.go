package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tuck/internal/app"
	"github.com/MrSnakeDoc/tuck/internal/domain"
)

type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "Account email")
	cmd.Flags().StringVar(&c.password, "password", "", "Account password (or set TUCK_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
}

func (c *credentials) resolve() (string, string, error) {
	pw := c.password
	if pw == "" {
		pw = os.Getenv("TUCK_PASSWORD")
	}
	if pw == "" {
		return "", "", errors.New("password is required (--password or TUCK_PASSWORD)")
	}
	return c.email, pw, nil
}

func newAuthCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the server session",
		Long: `Manage the bearer token stored in the shared namespace.

  register - create an account and store its token
  login    - store a token for an existing account
  logout   - forget the token locally
  whoami   - print the stored user`,
	}

	cmd.AddCommand(
		authenticateCmd(g, "register", "Create an account", func(ctx context.Context, env *app.Env, email, pw string) (domain.AuthResponse, error) {
			return env.Client.Register(ctx, email, pw)
		}),
		authenticateCmd(g, "login", "Log in to an existing account", func(ctx context.Context, env *app.Env, email, pw string) (domain.AuthResponse, error) {
			return env.Client.Login(ctx, email, pw)
		}),
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					return env.Client.Logout(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Print the logged in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
					user, err := env.Client.Tokens().CurrentUser(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), user)
				})
			},
		},
	)
	return cmd
}

type authFunc func(ctx context.Context, env *app.Env, email, password string) (domain.AuthResponse, error)

func authenticateCmd(g *globalFlags, use, short string, fn authFunc) *cobra.Command {
	creds := &credentials{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, pw, err := creds.resolve()
			if err != nil {
				return err
			}
			return g.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				resp, err := fn(ctx, env, email, pw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User.Email)
				return nil
			})
		},
	}
	creds.bind(cmd)
	return cmd
}
