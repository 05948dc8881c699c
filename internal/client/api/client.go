// Package api is the desktop client's view of the HTTP API. Every call returns a Result.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/orris-inc/deskhub/internal/shared/version"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 1 << 20
	maxGetTries     = 3
)

// Client talks to one deskhub server. It holds no token; callers pass it per call so that
// several signed-in sessions can share a Client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	system      string
	fingerprint string
	userAgent   string
	retryGets   bool
}

type Option func(*Client)

// WithHTTPClient replaces the default client with a 15s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDevice sets the X-System and X-Device-Fingerprint headers sent with every request.
func WithDevice(system, fingerprint string) Option {
	return func(c *Client) {
		c.system = system
		c.fingerprint = fingerprint
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithoutRetry disables retrying idempotent requests after transport errors.
func WithoutRetry() Option {
	return func(c *Client) { c.retryGets = false }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "deskhub-client/" + version.Current,
		retryGets:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Register(ctx context.Context, req RegisterRequest) Result[Auth] {
	return call[Auth](ctx, c, http.MethodPost, "/auth/register", "", req)
}

func (c *Client) Login(ctx context.Context, email, password string) Result[Auth] {
	return call[Auth](ctx, c, http.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: password})
}

func (c *Client) Me(ctx context.Context, token string) Result[User] {
	return call[User](ctx, c, http.MethodGet, "/auth/me", token, nil)
}

func (c *Client) Logout(ctx context.Context, token string) Result[SignOut] {
	return call[SignOut](ctx, c, http.MethodPost, "/auth/logout", token, nil)
}

func (c *Client) Sessions(ctx context.Context, token string) Result[SessionList] {
	return call[SessionList](ctx, c, http.MethodGet, "/sessions", token, nil)
}

func (c *Client) RevokeSession(ctx context.Context, token string, id uint) Result[Empty] {
	return call[Empty](ctx, c, http.MethodDelete, "/sessions/"+strconv.FormatUint(uint64(id), 10), token, nil)
}

func (c *Client) RevokeAllSessions(ctx context.Context, token string) Result[RevokeAll] {
	return call[RevokeAll](ctx, c, http.MethodDelete, "/sessions", token, nil)
}

// Health reads the unauthenticated liveness document. A 503 still carries the document.
func (c *Client) Health(ctx context.Context) Result[Health] {
	resp, err := c.send(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return Fail[Health](networkError(err))
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&h); err != nil || h.Status == "" {
		return Fail[Health](&Error{Status: resp.StatusCode, Type: ErrorTypeBadResponse, Message: "unexpected health response"})
	}
	return Ok(h)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *Error          `json:"error"`
}

func call[T any](ctx context.Context, c *Client, method, path, token string, body any) Result[T] {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return Fail[T](&Error{Type: ErrorTypeBadResponse, Message: fmt.Sprintf("failed to encode request: %v", err)})
		}
	}

	resp, err := c.send(ctx, method, path, token, payload)
	if err != nil {
		return Fail[T](networkError(err))
	}
	defer resp.Body.Close()

	return decode[T](resp)
}

func decode[T any](resp *http.Response) Result[T] {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Fail[T](&Error{Status: resp.StatusCode, Type: ErrorTypeNetwork, Message: err.Error()})
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Fail[T](&Error{Status: resp.StatusCode, Type: ErrorTypeBadResponse, Message: "response is not a JSON envelope"})
	}

	if !env.Success {
		if env.Error == nil {
			return Fail[T](&Error{Status: resp.StatusCode, Type: ErrorTypeBadResponse, Message: "failure without error object"})
		}
		env.Error.Status = resp.StatusCode
		return Fail[T](env.Error)
	}

	var data T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Fail[T](&Error{Status: resp.StatusCode, Type: ErrorTypeBadResponse, Message: fmt.Sprintf("unexpected data: %v", err)})
		}
	}
	return Ok(data)
}

func (c *Client) send(ctx context.Context, method, path, token string, payload []byte) (*http.Response, error) {
	attempt := func() (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if c.system != "" {
			req.Header.Set("X-System", c.system)
		}
		if c.fingerprint != "" {
			req.Header.Set("X-Device-Fingerprint", c.fingerprint)
		}
		return c.httpClient.Do(req)
	}

	if method != http.MethodGet || !c.retryGets {
		return attempt()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(maxGetTries),
	)
}

func networkError(err error) *Error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return &Error{Type: ErrorTypeNetwork, Message: err.Error()}
}
