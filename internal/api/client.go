// Package api is the client for the remote bookmark service: auth, folders,
// bookmarks and smart sort. One Client is built at startup and handed to
// every caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20
)

// Client talks JSON to the remote service.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    *Tokens
	log       logger.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.http.Timeout = d } }

func WithLogger(l logger.Logger) Option { return func(c *Client) { c.log = l } }

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// New returns a client for baseURL. tokens backs every authenticated call.
func New(baseURL string, tokens *Tokens, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		tokens:    tokens,
		log:       logger.New("error", false),
		userAgent: "tuck",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the session store.
func (c *Client) Tokens() *Tokens { return c.tokens }

// do sends one request. When auth is set the token is read first and a
// missing token returns ErrNotAuthenticated without touching the network.
func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var token string
	if auth {
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		token = t
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s%s", ErrInvalidURL, c.baseURL, path)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s %s body: %w", ErrInvalidResponse, method, path, err)
	}

	c.log.Debug("api request",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		if err := json.Unmarshal(data, &env); err == nil && env.Reason != "" {
			return &ServerError{Status: resp.StatusCode, Reason: env.Reason}
		}
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
