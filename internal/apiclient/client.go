// Package apiclient is the single path through which the front end talks to
// the solar grid backend. It injects the session token and turns every failed
// call into one of three typed errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/pkg/logger"
	"github.com/solargrid/solargrid-web/pkg/metrics"
	"golang.org/x/oauth2"
)

const maxBodyBytes = 4 << 20

// ResponseHook runs after every authenticated call that got a response.
type ResponseHook func(ctx context.Context, store session.Store, status int)

// ClearSessionOnUnauthorized returns a hook that clears the Session when the
// backend answers 401.
func ClearSessionOnUnauthorized() ResponseHook {
	return func(ctx context.Context, store session.Store, status int) {
		if status != http.StatusUnauthorized || store == nil {
			return
		}
		if err := store.Clear(ctx); err != nil {
			logger.Warnf("apiclient: failed to clear session after 401: %v", err)
			return
		}
		logger.Infof("apiclient: session cleared after 401 from backend")
	}
}

// Client is safe for concurrent use. Bind derives per-context copies that share
// the underlying http.Client.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
	store   session.Store
	hooks   []ResponseHook
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

func WithStore(store session.Store) Option {
	return func(c *Client) { c.store = store }
}

func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) { c.hooks = append(c.hooks, h) }
}

// New returns a Client for baseURL with JSON default headers.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		headers: http.Header{},
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")
	for _, o := range opts {
		o(c)
	}
	return c
}

// Bind returns a copy of c that reads its token from store.
func (c *Client) Bind(store session.Store) *Client {
	cp := *c
	cp.store = store
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

// Request performs an authenticated call. A missing Session is not an error:
// the request goes out without a token and the backend decides.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	var tok *oauth2.Token
	if c.store != nil {
		if s, ok := c.store.Current(ctx); ok {
			tok = &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}
		}
	}
	status, err := c.do(ctx, method, path, body, out, tok)
	if status != 0 {
		for _, h := range c.hooks {
			h(ctx, c.store, status)
		}
	}
	return err
}

// RequestAnonymous is used for login and signup. It never sends a token.
func (c *Client) RequestAnonymous(ctx context.Context, method, path string, body, out any) error {
	_, err := c.do(ctx, method, path, body, out, nil)
	return err
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodDelete, path, nil, out)
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, tok *oauth2.Token) (int, error) {
	var reader io.Reader
	if body != nil && hasBody(method) {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if tok != nil {
		tok.SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(method, string(KindTransport)).Inc()
		logger.Warnf("apiclient: %s %s failed: %v", method, path, err)
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendRequests.WithLabelValues(method, string(KindTransport)).Inc()
		return resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: err}
	}
	logger.Debugf("apiclient: %s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ferr := normalize(resp.StatusCode, data)
		metrics.BackendRequests.WithLabelValues(method, string(ferr.Kind())).Inc()
		return resp.StatusCode, ferr
	}

	metrics.BackendRequests.WithLabelValues(method, "success").Inc()
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return resp.StatusCode, nil
}

type errorBody struct {
	Errors  json.RawMessage `json:"errors"`
	Message string          `json:"message"`
}

// normalize picks exactly one failure shape: the errors array, then the
// message, then the bare status. An errors value that is not an array of
// {field, message} objects is ignored.
func normalize(status int, data []byte) Failure {
	var eb errorBody
	if len(data) > 0 && json.Unmarshal(data, &eb) == nil {
		var fields []FieldError
		if len(eb.Errors) > 0 && json.Unmarshal(eb.Errors, &fields) == nil && len(fields) > 0 {
			return &ValidationError{Status: status, Fields: fields}
		}
		if eb.Message != "" {
			return &MessageError{Status: status, Message: eb.Message}
		}
	}
	return statusError(status)
}
