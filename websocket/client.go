// Package websocket implements astra.Transport over a websocket connection.
// The request is sent as one text message; every message the server sends
// afterwards is a chunk of the frame stream. A normal closure ends the
// stream.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	astra "github.com/shimonpozd/astra-web-client-sub000"
	astrajson "github.com/shimonpozd/astra-web-client-sub000/json"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "ws://localhost:8000/api"

// Interface compliance check.
var _ astra.Transport = (*Client)(nil)

// Client implements [astra.Transport] by dialing one websocket per request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	readLimit  int64
	log        *zap.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the ws:// or wss:// base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets the HTTP client used for the handshake.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sends a bearer token from ts with the handshake.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithToken sends a fixed bearer token with the handshake.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

// WithReadLimit sets the maximum size of a single server message.
func WithReadLimit(n int64) Option {
	return func(c *Client) { c.readLimit = n }
}

// WithLogger sets the logger for connection diagnostics.
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
		baseURL:   defaultBaseURL,
		readLimit: 1 << 20,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open dials the endpoint for req, sends the request and returns the
// server's messages as one byte stream.
func (c *Client) Open(ctx context.Context, req astra.Request) (io.ReadCloser, error) {
	payload, err := astrajson.MarshalRequest(req)
	if err != nil {
		return nil, fmt.Errorf("websocket: %w", err)
	}

	header := http.Header{}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("websocket: token: %w", err)
		}
		header.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	}

	url := c.baseURL + req.Path()
	conn, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: c.httpClient,
		HTTPHeader: header,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("websocket: dial %s: %w", url, astra.ErrUnauthorized)
		}
		return nil, fmt.Errorf("websocket: dial %s: %w", url, err)
	}
	conn.SetReadLimit(c.readLimit)

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		conn.CloseNow()
		return nil, fmt.Errorf("websocket: send request: %w", err)
	}
	c.log.Debug("stream opened", zap.String("url", url))
	return &messageReader{ctx: ctx, conn: conn, log: c.log}, nil
}

// messageReader concatenates incoming messages into one byte stream.
type messageReader struct {
	ctx  context.Context
	conn *websocket.Conn
	cur  io.Reader
	done bool
	log  *zap.Logger
}

func (r *messageReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	for {
		if r.cur == nil {
			_, rd, err := r.conn.Reader(r.ctx)
			if err != nil {
				if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
					r.done = true
					return 0, io.EOF
				}
				return 0, err
			}
			r.cur = rd
		}
		n, err := r.cur.Read(p)
		if errors.Is(err, io.EOF) {
			r.cur = nil
			if n == 0 {
				continue
			}
			return n, nil
		}
		return n, err
	}
}

func (r *messageReader) Close() error {
	if r.done {
		_ = r.conn.CloseNow()
		return nil
	}
	r.done = true
	if err := r.conn.Close(websocket.StatusNormalClosure, ""); err != nil {
		r.log.Debug("close handshake failed", zap.Error(err))
		return r.conn.CloseNow()
	}
	return nil
}
