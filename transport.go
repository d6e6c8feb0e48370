package astra

import (
	"context"
	"io"
)

// Transport opens the raw byte stream for a request. The returned body is
// read in arbitrarily sized chunks; closing it releases the connection.
// Cancelling ctx aborts an in-flight read.
type Transport interface {
	Open(ctx context.Context, req Request) (io.ReadCloser, error)
}
