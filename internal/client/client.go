// Package client is the request client for the platform API. Every call
// issues exactly one HTTP request and yields either the decoded JSON payload
// or nil; failures are logged, counted and never returned to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/devportal/pkg/logger"
	"github.com/okian/devportal/pkg/metrics"
)

const (
	headerRequestID   = "X-Request-ID"
	contentTypeJSON   = "application/json"
	defaultUserAgent  = "devportal-client/1"
	maxErrorBodyBytes = 2048
)

// Recorder receives upstream request measurements.
type Recorder interface {
	RecordUpstreamRequest(endpoint, method, outcome string, durationMs float64)
	RecordUpstreamFailure(endpoint, kind string)
}

// Client issues requests against a fixed base URL. It holds no per-call
// state, so one Client may be shared by any number of goroutines.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	logger    logger.Logger
	metrics   Recorder
	userAgent string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded. The
// timeout is set on a copy of the transport client, never on the one passed
// to WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the diagnostic sink for request failures.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the recorder for upstream measurements.
func WithMetrics(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// New creates a Client for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:      &http.Client{},
		metrics:   metrics.Default(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	if c.logger == nil {
		c.logger = logger.New(os.Stderr).Named("client")
	}
	return c
}

// BaseURL returns the origin every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues GET baseURL+path and returns the decoded JSON body, or nil on
// any failure. Numbers are kept as json.Number.
func (c *Client) Get(ctx context.Context, path string) any {
	var payload any
	if !c.GetInto(ctx, path, &payload) {
		return nil
	}
	return payload
}

// Post issues POST baseURL+path with body encoded as JSON and returns the
// decoded JSON reply, or nil on any failure.
func (c *Client) Post(ctx context.Context, path string, body any) any {
	var payload any
	if !c.PostInto(ctx, path, body, &payload) {
		return nil
	}
	return payload
}

// GetInto issues GET baseURL+path and decodes the reply into dst. It reports
// whether dst was filled.
func (c *Client) GetInto(ctx context.Context, path string, dst any) bool {
	return c.call(ctx, http.MethodGet, path, routeOf(path), nil, dst)
}

// PostInto issues POST baseURL+path and decodes the reply into dst. It
// reports whether dst was filled.
func (c *Client) PostInto(ctx context.Context, path string, body, dst any) bool {
	return c.call(ctx, http.MethodPost, path, routeOf(path), &jsonBody{v: body}, dst)
}

// jsonBody marks a request that carries a JSON body, including a nil one.
type jsonBody struct {
	v any
}

// call runs one request and absorbs its failure. route is the low-cardinality
// metric label for path.
func (c *Client) call(ctx context.Context, method, path, route string, body *jsonBody, dst any) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := uuid.NewString()
	start := time.Now()

	err := c.roundTrip(ctx, method, path, requestID, body, dst)
	durationMs := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		c.metrics.RecordUpstreamRequest(route, method, metrics.OutcomeFailure, durationMs)
		c.metrics.RecordUpstreamFailure(route, failureKind(err))
		c.logger.Error(ctx, "api request failed",
			logger.String("endpoint", path),
			logger.String("method", method),
			logger.String("request_id", requestID),
			logger.Error(err),
		)
		return false
	}
	c.metrics.RecordUpstreamRequest(route, method, metrics.OutcomeSuccess, durationMs)
	return true
}

func (c *Client) roundTrip(ctx context.Context, method, path, requestID string, body *jsonBody, dst any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body.v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		if msg := strings.TrimSpace(string(snippet)); msg != "" {
			return fmt.Errorf("%w: HTTP %d: %s", ErrStatus, res.StatusCode, msg)
		}
		return fmt.Errorf("%w: HTTP %d", ErrStatus, res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	return decodeJSON(data, dst)
}

// decodeJSON decodes exactly one JSON value from data into dst.
func decodeJSON(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON value", ErrDecode)
	}
	return nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// routeOf strips the query string from path.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
