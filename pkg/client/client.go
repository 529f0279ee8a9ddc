// Package client talks to the finance tracker REST API.
//
// Invoker executes single requests and normalizes their outcome; Client
// layers one typed method per endpoint on top of it, taking credentials
// from a HeaderSource such as the session store.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the API root of a locally running service.
const DefaultBaseURL = "http://localhost:8080/api"

// HeaderSource supplies the headers for authenticated calls.
type HeaderSource interface {
	AuthHeaders() http.Header
}

type validator interface {
	Validate() error
}

// Client is the finance tracker API client.
type Client struct {
	baseURL        string
	auth           HeaderSource
	invoker        *Invoker
	onAuthRejected func(error)
}

// Option configures a Client.
type Option func(*Client)

// WithInvoker replaces the default Invoker.
func WithInvoker(inv *Invoker) Option {
	return func(c *Client) { c.invoker = inv }
}

// WithAuthRejectedHandler registers fn to run when an authenticated call is
// rejected with 401 or 403.
func WithAuthRejectedHandler(fn func(error)) Option {
	return func(c *Client) { c.onAuthRejected = fn }
}

// New creates a new API client. auth may be nil for a client that only
// performs anonymous calls.
func New(baseURL string, auth HeaderSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.invoker == nil {
		c.invoker = NewInvoker()
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) authHeaders() http.Header {
	if c.auth == nil {
		return anonymousHeaders()
	}
	return c.auth.AuthHeaders()
}

func anonymousHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func bearerHeaders(token string) http.Header {
	h := anonymousHeaders()
	h.Set("Authorization", "Bearer "+token)
	return h
}

func (c *Client) url(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// call performs an authenticated request. A 401/403 triggers the
// auth-rejected handler before the error is returned.
func (c *Client) call(ctx context.Context, method, path string, params url.Values, body, out any) error {
	err := c.send(ctx, method, c.url(path, params), c.authHeaders(), body, out)
	if err != nil && IsAuthRejection(err) && c.onAuthRejected != nil {
		c.onAuthRejected(err)
	}
	return err
}

// send performs one request and decodes the payload into out. When out is
// non-nil the endpoint must return a body; decoded values that know how to
// validate themselves are validated here.
func (c *Client) send(ctx context.Context, method, rawURL string, header http.Header, body, out any) error {
	outcome, err := c.invoker.Invoke(ctx, Request{Method: method, URL: rawURL, Body: body, Header: header})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := outcome.Decode(out); err != nil {
		if isNoContent(err) {
			return &DecodeError{Err: errors.New("empty response")}
		}
		return err
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}

func validateEach[T validator](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return &DecodeError{Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return nil
}
