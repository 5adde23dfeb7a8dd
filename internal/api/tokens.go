package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/kv"
)

// Tokens keeps the session in the shared namespace so that every role
// sharing the namespace sees the same login.
type Tokens struct {
	ns kv.Namespace
}

func NewTokens(ns kv.Namespace) *Tokens {
	return &Tokens{ns: ns}
}

// Token returns the stored bearer token or ErrNotAuthenticated.
func (t *Tokens) Token(ctx context.Context) (string, error) {
	v, err := t.ns.Get(ctx, kv.KeyAuthToken)
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("read auth token: %w", err)
	}
	tok := strings.TrimSpace(string(v))
	if tok == "" {
		return "", ErrNotAuthenticated
	}
	return tok, nil
}

// Save stores the token and the current-user blob.
func (t *Tokens) Save(ctx context.Context, resp domain.AuthResponse) error {
	user, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := t.ns.Set(ctx, kv.KeyAuthToken, []byte(resp.Token)); err != nil {
		return fmt.Errorf("store auth token: %w", err)
	}
	if err := t.ns.Set(ctx, kv.KeyCurrentUser, user); err != nil {
		return fmt.Errorf("store current user: %w", err)
	}
	return nil
}

// Clear removes the token and the current user.
func (t *Tokens) Clear(ctx context.Context) error {
	return errors.Join(
		t.ns.Delete(ctx, kv.KeyAuthToken),
		t.ns.Delete(ctx, kv.KeyCurrentUser),
	)
}

// CurrentUser returns the user saved at login.
func (t *Tokens) CurrentUser(ctx context.Context) (domain.PublicUser, error) {
	v, err := t.ns.Get(ctx, kv.KeyCurrentUser)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.PublicUser{}, ErrNotAuthenticated
	}
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("read current user: %w", err)
	}
	var u domain.PublicUser
	if err := json.Unmarshal(v, &u); err != nil {
		return domain.PublicUser{}, fmt.Errorf("decode current user: %w", err)
	}
	return u, nil
}
