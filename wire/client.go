package wire

import (
	"context"
	"fmt"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// Interface compliance check.
var _ astra.Streamer = (*Client)(nil)

// Client implements [astra.Streamer] by decoding the body of any
// [astra.Transport].
type Client struct {
	transport astra.Transport
	opts      []Option
}

// New creates a Client that opens bodies through t. The options apply to
// every stream the client returns.
func New(t astra.Transport, opts ...Option) *Client {
	return &Client{transport: t, opts: opts}
}

// Stream opens the transport for req and returns a decoding stream.
func (c *Client) Stream(ctx context.Context, req astra.Request) (astra.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}
	body, err := c.transport.Open(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("wire: open %s: %w", req.Path(), err)
	}
	return NewStream(body, c.opts...), nil
}
