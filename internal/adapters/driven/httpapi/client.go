// Package httpapi is the JSON transport shared by the model provider adapters.
//
// It owns request construction, status classification and provider error
// extraction so each adapter only describes its wire types.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Provider string
	Status   int
	Message  string
	kind     error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s error (status %d)", e.kind, e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: %s error (status %d): %s", e.kind, e.Provider, e.Status, e.Message)
}

// Unwrap exposes the domain error the status maps to.
func (e *StatusError) Unwrap() error { return e.kind }

// Client sends JSON requests to one provider.
type Client struct {
	name     string
	baseURL  string
	http     *http.Client
	header   http.Header
	fallback error
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithBearer authorizes requests with token. An empty token sends nothing.
func WithBearer(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithFallback sets the error that timeouts, undecodable bodies and
// unclassified statuses map to. The default is domain.ErrGeneration.
func WithFallback(err error) Option {
	return func(c *Client) { c.fallback = err }
}

// New creates a client for the API at baseURL. name labels errors.
func New(name, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		header:   make(http.Header),
		fallback: domain.ErrGeneration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider label.
func (c *Client) Name() string { return c.name }

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Post sends in as JSON to path and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.name, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), int64(len(body)), "application/json", out)
}

// Get fetches path and decodes the response into out. out may be nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, http.NoBody, 0, "", out)
}

// Head checks that path exists.
func (c *Client) Head(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodHead, path, http.NoBody, 0, "", nil)
}

// Upload streams size bytes from r to path.
func (c *Client) Upload(ctx context.Context, path string, r io.Reader, size int64) error {
	return c.do(ctx, http.MethodPost, path, r, size, "application/octet-stream", nil)
}

// Ping checks that path answers 2xx. Any failure other than rejected
// credentials reports domain.ErrModelUnavailable.
func (c *Client) Ping(ctx context.Context, path string) error {
	err := c.Get(ctx, path, nil)
	if err == nil || errors.Is(err, domain.ErrConfiguration) || errors.Is(err, domain.ErrModelUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s ping: %w", domain.ErrModelUnavailable, c.name, err)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	size int64,
	contentType string,
	out any,
) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	for key, values := range c.header {
		req.Header[key] = values
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
		req.ContentLength = size
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %w", c.fallback, c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Provider: c.name,
			Status:   resp.StatusCode,
			Message:  errorMessage(data),
			kind:     Classify(resp.StatusCode, c.fallback),
		}
	}
	if msg := providerError(data); msg != "" {
		return fmt.Errorf("%w: %s error: %s", c.fallback, c.name, msg)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: decode response (status %d): %w", c.fallback, c.name, resp.StatusCode, err)
	}
	return nil
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// transportError wraps a failed round trip. Timeouts map to the fallback,
// refused connections to an unavailable model.
func (c *Client) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || isTimeout(err) {
		return fmt.Errorf("%w: %s request: %w", c.fallback, c.name, err)
	}
	return fmt.Errorf("%w: %s request: %w", domain.ErrModelUnavailable, c.name, err)
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Classify maps an HTTP status to a domain error.
func Classify(status int, fallback error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrConfiguration
	case http.StatusNotFound:
		return domain.ErrModelUnavailable
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return fallback
	}
}

// providerError extracts an "error" member from a JSON body, either a
// plain string (Ollama) or an object with a message (OpenAI, Anthropic).
func providerError(data []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(data, &envelope) != nil || len(envelope.Error) == 0 {
		return ""
	}

	var text string
	if json.Unmarshal(envelope.Error, &text) == nil {
		return text
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(envelope.Error, &obj) == nil {
		return obj.Message
	}
	return ""
}

// errorMessage describes a failed response body.
func errorMessage(data []byte) string {
	if msg := providerError(data); msg != "" {
		return msg
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
