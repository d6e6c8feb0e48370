// Package mock provides test doubles for astra interfaces using function fields.
package mock

import (
	"context"
	"io"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// Interface compliance checks.
var (
	_ astra.Streamer  = (*Streamer)(nil)
	_ astra.Transport = (*Transport)(nil)
)

// Streamer is a test double for astra.Streamer.
// Set StreamFn before calling Stream.
type Streamer struct {
	StreamFn func(ctx context.Context, req astra.Request) (astra.Stream, error)
}

// Stream delegates to StreamFn.
func (s *Streamer) Stream(ctx context.Context, req astra.Request) (astra.Stream, error) {
	return s.StreamFn(ctx, req)
}

// Transport is a test double for astra.Transport.
// Set OpenFn before calling Open.
type Transport struct {
	OpenFn func(ctx context.Context, req astra.Request) (io.ReadCloser, error)
}

// Open delegates to OpenFn.
func (t *Transport) Open(ctx context.Context, req astra.Request) (io.ReadCloser, error) {
	return t.OpenFn(ctx, req)
}
