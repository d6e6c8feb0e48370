// Package http implements astra.Transport over HTTP POST requests whose
// response body is the JSON frame stream.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	astra "github.com/shimonpozd/astra-web-client-sub000"
	astrajson "github.com/shimonpozd/astra-web-client-sub000/json"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "http://localhost:8000/api"
	requestIDHeader = "X-Request-Id"
	maxErrorBody    = 4096
)

// Interface compliance check.
var _ astra.Transport = (*Client)(nil)

// Client implements [astra.Transport] for the streaming chat API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	retry      retryPolicy
	log        *zap.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource authenticates every request with a bearer token from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithToken authenticates every request with a fixed bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

// WithRateLimit caps request opens at perMinute per minute. Zero disables
// the limit.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}
}

// WithRetry retries failed opens up to maxRetries times, waiting base,
// 2*base, 4*base... between attempts. Only connection errors, 429 and 5xx
// responses are retried, and never once the body has been returned.
func WithRetry(maxRetries int, base time.Duration) Option {
	return func(c *Client) {
		c.retry = retryPolicy{maxRetries: maxRetries, base: base, max: 30 * time.Second}
	}
}

// WithLogger sets the logger for request and retry diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open posts req to its endpoint and returns the streaming response body.
func (c *Client) Open(ctx context.Context, req astra.Request) (io.ReadCloser, error) {
	body, err := astrajson.MarshalRequest(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	url := c.baseURL + req.Path()
	requestID := uuid.NewString()
	log := c.log.With(zap.String("request_id", requestID), zap.String("url", url))

	var resp *http.Response
	err = c.retry.do(ctx, log, func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return permanent(err)
			}
		}
		r, err := c.send(ctx, url, requestID, body)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	log.Debug("stream opened", zap.Int("status", resp.StatusCode))
	return resp.Body, nil
}

func (c *Client) send(ctx context.Context, url, requestID string, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson, application/json")
	httpReq.Header.Set(requestIDHeader, requestID)
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, permanent(fmt.Errorf("token: %w", err))
		}
		tok.SetAuthHeader(httpReq)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, permanent(err)
		}
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	statusErr := parseHTTPError(resp)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, statusErr
	}
	return nil, permanent(statusErr)
}

// StatusError is returned when the server answers with a non-success status
// before any stream bytes are read.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps 401 to astra.ErrUnauthorized.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return astra.ErrUnauthorized
	}
	return nil
}

// apiError is the error body shape of the API.
type apiError struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: e.Message}
		}
		var detail string
		if json.Unmarshal(e.Detail, &detail) == nil && detail != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: detail}
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
