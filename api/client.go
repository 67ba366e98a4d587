// Package api is the HTTP client for the portfolio backend's JSON API. It
// attaches the session's bearer token, enforces per-call timeouts, and
// reduces every failure to a categorized *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/microfolio/microfolio/session"
)

const (
	// DefaultTimeout bounds a normal API call.
	DefaultTimeout = 15 * time.Second
	// HistoryTimeout bounds the equity-history fetch, which can return a
	// large series.
	HistoryTimeout = 30 * time.Second
)

// Client talks to the portfolio backend. All methods are safe for concurrent
// use; the client holds no per-request state.
type Client struct {
	baseURL        string
	tokens         session.TokenSource
	httpClient     *http.Client
	log            zerolog.Logger
	timeout        time.Duration
	historyTimeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeouts overrides the per-call budgets: timeout for normal requests,
// history for the equity-history and chart fetches.
func WithTimeouts(timeout, history time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
		if history > 0 {
			c.historyTimeout = history
		}
	}
}

// NewClient creates a client for the given base URL. tokens may be nil for a
// client that only calls unauthenticated endpoints.
func NewClient(baseURL string, tokens session.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		tokens:         tokens,
		httpClient:     &http.Client{},
		log:            zerolog.Nop(),
		timeout:        DefaultTimeout,
		historyTimeout: HistoryTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one outbound request.
type call struct {
	method      string
	path        string
	body        any           // JSON-encoded when non-nil
	timeout     time.Duration // client default when zero
	contentType string        // expected response content type, "" to skip the check
	noAuth      bool          // login/register carry no bearer token
	fallback    string        // message when the error body yields none
}

// do sends the request and decodes the JSON response body into out (which
// may be nil for calls whose body is irrelevant). Every failure is an *Error.
func (c *Client) do(ctx context.Context, req call, out any) error {
	res, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Category: Unknown, Message: "the server returned a malformed response"}
	}
	return nil
}

// send issues the request and verifies status and content type. On success
// the caller owns the response body.
func (c *Client) send(ctx context.Context, req call) (*http.Response, error) {
	reqID := ulid.Make().String()

	timeout := req.timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	// The context must stay alive until the response body has been read, so
	// on success cancel is tied to the body's Close instead of deferred here.
	ctx, cancel := context.WithTimeout(ctx, timeout)

	var bodyReader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			cancel()
			return nil, &Error{Category: Unknown, Message: fmt.Sprintf("encode request: %v", err), RequestID: reqID}
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, bodyReader)
	if err != nil {
		cancel()
		return nil, &Error{Category: Unknown, Message: fmt.Sprintf("build request: %v", err), RequestID: reqID}
	}

	httpReq.Header.Set("X-Request-ID", reqID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.noAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debug().Str("request_id", reqID).Str("method", req.method).Str("path", req.path).Msg("api request")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		apiErr := classifyTransport(err)
		apiErr.RequestID = reqID
		c.log.Debug().Str("request_id", reqID).Str("category", string(apiErr.Category)).Err(err).Msg("api transport failure")
		return nil, apiErr
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := Classify(res, req.fallback)
		res.Body.Close()
		cancel()
		apiErr.RequestID = reqID
		c.log.Debug().Str("request_id", reqID).Int("status", res.StatusCode).Str("category", string(apiErr.Category)).Msg("api error response")
		return nil, apiErr
	}

	if req.contentType != "" {
		got := res.Header.Get("Content-Type")
		if !strings.HasPrefix(got, req.contentType) {
			res.Body.Close()
			cancel()
			return nil, &Error{
				Category:  UnsupportedMedia,
				Message:   fmt.Sprintf("expected %s response, got %q", req.contentType, got),
				Status:    res.StatusCode,
				RequestID: reqID,
			}
		}
	}

	// Hand the body (and the context keeping it readable) to the caller.
	res.Body = &cancelReadCloser{ReadCloser: res.Body, cancel: cancel}
	return res, nil
}

// cancelReadCloser releases the request context when the body is closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
