package mock

import (
	"io"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// Interface compliance check.
var _ astra.Stream = (*Stream)(nil)

// Stream is a test double for astra.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn and StateFn are nil-safe (no-op and zero
// value) because test code commonly calls defer stream.Close() and these
// methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (astra.Event, error)
	StateFn func() astra.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (astra.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() astra.StreamState {
	if s.StateFn == nil {
		return astra.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Events returns a Stream that yields events in order, then err. A nil err
// means io.EOF.
func Events(err error, events ...astra.Event) *Stream {
	if err == nil {
		err = io.EOF
	}
	i := 0
	return &Stream{
		NextFn: func() (astra.Event, error) {
			if i < len(events) {
				i++
				return events[i-1], nil
			}
			return nil, err
		},
	}
}
