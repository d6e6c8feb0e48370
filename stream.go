package astra

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, decoding frames.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Streamer.Stream().
//
// Next returns events in arrival order. io.EOF means the stream completed,
// either through an end marker or a clean end of the transport. Any other
// error is a transport failure and is returned again by every later call.
// After Close, Next returns ErrStreamClosed unless a terminal state was
// already reached.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// Streamer opens a decoded event stream for a request.
type Streamer interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}
