// Package backend is the dispatcher client's HTTP transport to the coldchain
// API. Error responses are mapped back onto domain error codes so callers
// can branch on dErrors.HasCode the same way the server does.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
)

const maxResponseBytes = 4 << 20

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

type Client struct {
	baseURL string
	http    HTTPDoer
	tokens  TokenSource
	logger  *slog.Logger
}

type Option func(*Client)

// WithTokenSource enables authenticated calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource attaches the token source after construction. The auth
// provider needs the client to exist before it can act as the source.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		if c.tokens == nil {
			return dErrors.New(dErrors.CodeUnauthorized, "not signed in")
		}
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "backend request timed out")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "backend unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode backend response")
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var envelope httputil.ErrorResponse
	_ = json.Unmarshal(raw, &envelope)
	code := httputil.HTTPCodeToDomainCode(status, envelope.Error)
	msg := envelope.ErrorDescription
	if msg == "" {
		msg = fmt.Sprintf("backend returned %d", status)
	}
	return dErrors.New(code, msg)
}
