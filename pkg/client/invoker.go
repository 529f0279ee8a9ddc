package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 1 << 20
	// maxBody caps how much of a success response is read.
	maxBody = 16 << 20

	requestIDHeader = "X-Request-ID"
)

// Request describes one API call.
type Request struct {
	Method string
	URL    string
	Body   any
	Header http.Header
}

// Outcome is the normalized result of a successful call: either a payload
// or the no-content marker.
type Outcome struct {
	StatusCode int
	NoContent  bool
	Payload    json.RawMessage
}

// Decode unmarshals the payload into out. A no-content outcome returns
// ErrNoContent; malformed JSON returns a *DecodeError.
func (o *Outcome) Decode(out any) error {
	if o.NoContent {
		return ErrNoContent
	}
	if err := json.Unmarshal(o.Payload, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Invoker executes a single HTTP request and normalizes its outcome.
// It holds no session state: headers come from the caller.
type Invoker struct {
	httpClient *http.Client
	logger     *slog.Logger
	dedup      bool
	group      singleflight.Group
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithInvokerHTTPClient sets the transport. The Invoker adds no timeout of
// its own.
func WithInvokerHTTPClient(hc *http.Client) InvokerOption {
	return func(i *Invoker) { i.httpClient = hc }
}

// WithInvokerLogger sets the logger for request traces.
func WithInvokerLogger(l *slog.Logger) InvokerOption {
	return func(i *Invoker) { i.logger = l }
}

// WithDedup collapses identical concurrent requests (same method, URL,
// credential and body) into one in-flight call whose outcome every caller
// receives.
func WithDedup() InvokerOption {
	return func(i *Invoker) { i.dedup = true }
}

// NewInvoker creates an Invoker.
func NewInvoker(opts ...InvokerOption) *Invoker {
	i := &Invoker{
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke performs req. On a 2xx it returns an Outcome; otherwise it returns
// an *HTTPError, *TransportError or *DecodeError. It never retries.
func (i *Invoker) Invoke(ctx context.Context, req Request) (*Outcome, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = data
	}

	if !i.dedup {
		return i.do(ctx, method, req.URL, body, req.Header)
	}

	v, err, shared := i.group.Do(dedupKey(method, req.URL, req.Header.Get("Authorization"), body), func() (any, error) {
		return i.do(ctx, method, req.URL, body, req.Header)
	})
	if shared {
		i.logger.DebugContext(ctx, "shared in-flight request", "method", method, "path", pathOf(req.URL))
	}
	if err != nil {
		return nil, err
	}
	out := *v.(*Outcome)
	return &out, nil
}

func (i *Invoker) do(ctx context.Context, method, rawURL string, body []byte, header http.Header) (*Outcome, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		i.logger.DebugContext(ctx, "request failed",
			"method", method, "path", pathOf(rawURL), "request_id", requestID, "error", err)
		return nil, &TransportError{Method: method, URL: rawURL, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	i.logger.DebugContext(ctx, "request completed",
		"method", method,
		"path", pathOf(rawURL),
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readHTTPError(resp)
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return &Outcome{StatusCode: resp.StatusCode, NoContent: true}, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &TransportError{Method: method, URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Outcome{StatusCode: resp.StatusCode, NoContent: true}, nil
	}
	return &Outcome{StatusCode: resp.StatusCode, Payload: data}, nil
}

// readHTTPError builds an HTTPError from a non-2xx response. The message
// comes from the body's "message" (or "error") field when the body parses,
// otherwise from the status text.
func readHTTPError(resp *http.Response) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}
	httpErr.Message = httpErr.Status

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return httpErr
	}
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) != nil {
		return httpErr
	}
	switch {
	case apiErr.Message != "":
		httpErr.Message = apiErr.Message
	case apiErr.Error != "":
		httpErr.Message = apiErr.Error
	}
	return httpErr
}

// statusText returns the reason phrase of resp, e.g. "Bad Request".
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}

// dedupKey identifies a request for sharing. The credential is part of the
// key so callers holding different tokens never share an outcome.
func dedupKey(method, rawURL, authorization string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(authorization)) //nolint:errcheck
	h.Write([]byte{0})             //nolint:errcheck
	h.Write(body)                  //nolint:errcheck
	return method + " " + rawURL + " " + hex.EncodeToString(h.Sum(nil))
}

// pathOf strips scheme, host and query so logs never carry filters or hosts.
func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

// isNoContent reports whether err marks an empty success.
func isNoContent(err error) bool {
	return errors.Is(err, ErrNoContent)
}
