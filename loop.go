package astra

import "context"

// Loop opens streams from a Streamer and dispatches their events.
type Loop struct {
	streamer Streamer
}

// NewLoop creates a new Loop backed by the given streamer.
func NewLoop(streamer Streamer) *Loop {
	return &Loop{streamer: streamer}
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onEvent func(Event)
}

// WithEventHandler sets a callback that receives each event before it is
// dispatched to the Handler. Useful for feeding a Builder alongside
// callbacks. If nil or not set, events are only dispatched.
func WithEventHandler(h func(Event)) RunOption {
	return func(c *runConfig) {
		c.onEvent = h
	}
}

// Run validates req, opens a stream and dispatches it to h until completion
// or transport failure. Failures to open the stream are reported through
// h.OnError as well as returned.
func (l *Loop) Run(ctx context.Context, req Request, h Handler, opts ...RunOption) error {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := req.Validate(); err != nil {
		h.fail(err)
		return err
	}
	if err := ctx.Err(); err != nil {
		h.fail(err)
		return err
	}

	stream, err := l.streamer.Stream(ctx, req)
	if err != nil {
		h.fail(err)
		return err
	}
	defer stream.Close()

	if cfg.onEvent != nil {
		stream = tap{Stream: stream, fn: cfg.onEvent}
	}
	return Dispatch(stream, h)
}

// Run is a convenience for NewLoop(streamer).Run(ctx, req, h).
func Run(ctx context.Context, streamer Streamer, req Request, h Handler) error {
	return NewLoop(streamer).Run(ctx, req, h)
}

// tap forwards each event to fn before returning it.
type tap struct {
	Stream
	fn func(Event)
}

func (t tap) Next() (Event, error) {
	evt, err := t.Stream.Next()
	if err == nil {
		t.fn(evt)
	}
	return evt, err
}
