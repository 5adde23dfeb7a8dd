package api

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, email, password string) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, false, credentials{Email: email, Password: password}, &resp); err != nil {
		return domain.AuthResponse{}, err
	}
	if err := c.tokens.Save(ctx, resp); err != nil {
		return domain.AuthResponse{}, err
	}
	return resp, nil
}

// Logout forgets the session locally. The server is not contacted.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

// IsLoggedIn reports whether a token is stored.
func (c *Client) IsLoggedIn(ctx context.Context) bool {
	_, err := c.tokens.Token(ctx)
	return err == nil
}
