// Package backend is the single entry point for calls to the event
// manager API. It attaches the JSON content type and bearer token,
// normalizes error bodies into one message, and tears down the session
// on any authorization failure.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/eventmanager/admin-bff/middleware"
	"github.com/rs/zerolog"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	// onUnauthorized runs before ErrNotAuthenticated is returned, so the
	// session is already cleared when callers observe the failure.
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

// WithHTTPClient overrides the default tracing client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUnauthorizedHook registers the session-clear reaction to 401s.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &middleware.TracingTransport{Base: http.DefaultTransport},
			Timeout:   10 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues one authenticated JSON request. A nil out skips response
// decoding; 204 and empty bodies always yield no result. Success bodies
// that are not valid JSON are assigned raw when out is a *string.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		req.Header.Set(middleware.HeaderXRequestID, reqID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("backend_request_failed")
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend_request_completed")

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrNotAuthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return decodeError(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if s, ok := out.(*string); ok {
			*s = string(raw)
			return nil
		}
		return err
	}
	return nil
}
