package astra

import (
	"errors"
	"io"
)

// Handler receives decoded stream events. Every field is optional; nil
// callbacks are skipped.
//
// OnError receives both application errors reported inside the stream
// (as *RemoteError, after which decoding continues) and the transport
// failure that ends the stream. OnComplete fires at most once, and never
// after a transport failure.
type Handler struct {
	OnChunk      func(text string)
	OnDraft      func(text string)
	OnBlockStart func(EventBlockStart)
	OnBlockDelta func(EventBlockDelta)
	OnBlockEnd   func(EventBlockEnd)
	OnDocument   func(EventDocument)
	OnEvent      func(WireMessage)
	OnComplete   func()
	OnError      func(err error)
}

// Dispatch drains s, invoking h's callbacks in arrival order. It returns nil
// when the stream completes and the transport error otherwise. Dispatch does
// not close s.
func Dispatch(s Stream, h Handler) error {
	for {
		evt, err := s.Next()
		if errors.Is(err, io.EOF) {
			if h.OnComplete != nil {
				h.OnComplete()
			}
			return nil
		}
		if err != nil {
			h.fail(err)
			return err
		}
		h.dispatch(evt)
	}
}

func (h Handler) dispatch(evt Event) {
	switch e := evt.(type) {
	case EventTextChunk:
		if h.OnChunk != nil {
			h.OnChunk(e.Text)
		}
		if e.Draft && h.OnDraft != nil {
			h.OnDraft(e.Text)
		}
	case EventBlockStart:
		if h.OnBlockStart != nil {
			h.OnBlockStart(e)
		}
	case EventBlockDelta:
		if h.OnBlockDelta != nil {
			h.OnBlockDelta(e)
		}
	case EventBlockEnd:
		if h.OnBlockEnd != nil {
			h.OnBlockEnd(e)
		}
	case EventDocument:
		if h.OnDocument != nil {
			h.OnDocument(e)
		}
	case EventError:
		h.fail(&RemoteError{Message: e.Message})
	case EventObserved:
		if h.OnEvent != nil {
			h.OnEvent(e.Message)
		}
	}
}

func (h Handler) fail(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}
