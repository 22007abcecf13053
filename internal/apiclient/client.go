// Package apiclient talks to the trainer REST API on behalf of the
// dashboard. Every call takes a context, sends the bearer token and
// unwraps the {"success","data"} envelope, tolerating the older endpoints
// that omit one or both fields.
package apiclient

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

	"github.com/trainerhub/backend/internal/models"
)

// DefaultTimeout bounds a whole request, body included.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// ErrUnauthorized means there is no token or the server rejected it.
var ErrUnauthorized = errors.New("Authentication required. Please log in again.")

// APIError is a non-2xx answer other than 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client is safe for concurrent use once configured.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every trainer call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying client, e.g. with an
// httptest.Server's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the bearer token, empty when logged out.
func (c *Client) Token() string { return c.token }

// Login exchanges email and password for a token. The returned client
// carries the token; the receiver is not modified.
func (c *Client) Login(ctx context.Context, email, password string) (*Client, Credentials, error) {
	var resp models.LoginResponse
	err := c.send(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return nil, Credentials{}, err
	}
	if resp.Token == "" {
		return nil, Credentials{}, errors.New("login: server returned no token")
	}
	next := *c
	next.token = resp.Token
	return &next, Credentials{
		BaseURL:   c.baseURL,
		Token:     resp.Token,
		TrainerID: resp.User.ID,
		Email:     resp.User.Email,
	}, nil
}

// do sends an authenticated request.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed && c.token == "" {
		return ErrUnauthorized
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if authed && resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return decodeEnvelope(resp.StatusCode, raw, out)
}

// decodeEnvelope unwraps a response body into out.
//
// Accepted shapes:
//
//	{"success": true, "data": <payload>}
//	{"data": <payload>}             success omitted
//	<payload>                       no envelope at all
//	{"success": true}               no payload; out is left alone
//	{"success": false, "error": "..."} or {"message": "..."} on failure
func decodeEnvelope(status int, raw []byte, out any) error {
	var env models.Envelope
	isEnvelope := json.Unmarshal(raw, &env) == nil

	if status < 200 || status > 299 {
		msg := ""
		if isEnvelope {
			msg = firstNonEmpty(env.Error, env.Message)
		}
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", status)
		}
		return &APIError{Status: status, Message: msg}
	}

	payload := raw
	if isEnvelope {
		if env.Success != nil && !*env.Success {
			return &APIError{Status: status, Message: firstNonEmpty(env.Error, env.Message, "Request failed")}
		}
		switch {
		case env.Data != nil:
			payload = env.Data
		case env.Success != nil:
			payload = nil
		}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
