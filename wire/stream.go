package wire

import (
	"errors"
	"fmt"
	"io"

	astra "github.com/shimonpozd/astra-web-client-sub000"
	"github.com/shimonpozd/astra-web-client-sub000/frame"
	"go.uber.org/zap"
)

// Stats counts what a Stream did with the frames it extracted.
type Stats struct {
	Frames  int // classified and interpreted
	Skipped int // malformed, discarded
	Dropped int // arrived after the end op, or left incomplete at EOF
}

// Stream implements [astra.Stream] over a transport body. It reads a chunk
// only when every event from the previous chunk has been returned.
type Stream struct {
	body    io.ReadCloser
	chunk   []byte
	frames  frame.Extractor
	interp  *Interpreter
	pending []astra.Event
	state   astra.StreamState
	eof     bool
	readErr error
	err     error // terminal error, if any
	stats   Stats
	log     *zap.Logger
}

// Interface compliance check.
var _ astra.Stream = (*Stream)(nil)

// NewStream returns a Stream decoding body.
func NewStream(body io.ReadCloser, opts ...Option) *Stream {
	cfg := newConfig(opts)
	return &Stream{
		body:   body,
		chunk:  make([]byte, cfg.readSize),
		interp: NewInterpreter(cfg.log),
		state:  astra.StreamStateNew,
		log:    cfg.log,
	}
}

// Next returns the next semantic event. It returns io.EOF after an end op or
// a clean end of the transport body.
func (s *Stream) Next() (astra.Event, error) {
	switch s.state {
	case astra.StreamStateComplete:
		return nil, io.EOF
	case astra.StreamStateError:
		return nil, s.err
	case astra.StreamStateClosed:
		return nil, fmt.Errorf("wire: %w", astra.ErrStreamClosed)
	}

	for {
		if len(s.pending) > 0 {
			evt := s.pending[0]
			s.pending = s.pending[1:]
			s.state = astra.StreamStateStreaming
			return evt, nil
		}
		if s.readErr != nil {
			s.terminate(s.readErr)
			return nil, s.err
		}
		if s.interp.State() == StateEnded || s.eof {
			s.complete()
			return nil, io.EOF
		}

		n, err := s.body.Read(s.chunk)
		if n > 0 {
			s.state = astra.StreamStateStreaming
			s.feed(s.chunk[:n])
		}
		switch {
		case errors.Is(err, io.EOF):
			s.eof = true
		case err != nil:
			s.readErr = err
		}
	}
}

// State returns the current stream state.
func (s *Stream) State() astra.StreamState {
	return s.state
}

// Stats returns the frame counters so far.
func (s *Stream) Stats() Stats {
	return s.stats
}

// Close closes the underlying transport body.
func (s *Stream) Close() error {
	if s.state != astra.StreamStateComplete && s.state != astra.StreamStateError {
		s.state = astra.StreamStateClosed
	}
	return s.body.Close()
}

// feed extracts frames from p and queues their events. Frames following an
// end op are dropped without being classified.
func (s *Stream) feed(p []byte) {
	for _, f := range s.frames.Feed(p) {
		if s.interp.State() == StateEnded {
			s.stats.Dropped++
			continue
		}
		msg, err := Classify(f)
		if err != nil {
			s.stats.Skipped++
			s.log.Debug("skipping frame", zap.Error(err), zap.Int("bytes", len(f)))
			continue
		}
		s.stats.Frames++
		s.pending = append(s.pending, s.interp.Apply(msg)...)
	}
}

func (s *Stream) complete() {
	s.state = astra.StreamStateComplete
	if rest := s.frames.Remainder(); len(rest) > 0 && s.interp.State() != StateEnded {
		s.stats.Dropped++
		s.log.Debug("discarding incomplete frame", zap.Int("bytes", len(rest)))
	}
	s.frames.Reset()
	s.log.Debug("stream complete",
		zap.Bool("end_op", s.interp.State() == StateEnded),
		zap.Int("frames", s.stats.Frames),
		zap.Int("skipped", s.stats.Skipped),
		zap.Int("dropped", s.stats.Dropped),
		zap.Int("blocks", s.interp.Blocks()),
	)
}

func (s *Stream) terminate(err error) {
	s.state = astra.StreamStateError
	s.err = fmt.Errorf("wire: read: %w", err)
	s.log.Debug("stream failed", zap.Error(err))
}
