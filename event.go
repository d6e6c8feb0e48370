package astra

import "encoding/json"

// Event is a sealed interface representing a semantic stream event.
// Events are purely semantic. Transport failures come from Next()'s error
// return, and completion is signalled by io.EOF, not by an event.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextChunk carries plain incremental text. Draft is set for streamed
// model chunks and unset for a one-shot full response.
type EventTextChunk struct {
	Text  string
	Draft bool
}

func (EventTextChunk) event() {}

// EventBlockStart announces a block at Index. Raw holds the payload
// unchanged when the block arrived through the event vocabulary.
type EventBlockStart struct {
	Index int
	Type  BlockType
	ID    string
	Block Block
	Raw   json.RawMessage
}

func (EventBlockStart) event() {}

// EventBlockDelta updates the block at Index. With DeltaReplace, Content is
// the full block; with DeltaAppend, Content.Text is appended to the block's
// text.
type EventBlockDelta struct {
	Index     int
	Content   Block
	DeltaType DeltaType
	Raw       json.RawMessage
}

func (EventBlockDelta) event() {}

// EventBlockEnd marks the block at Index as finished.
type EventBlockEnd struct {
	Index int
	Raw   json.RawMessage
}

func (EventBlockEnd) event() {}

// EventDocument replaces the whole document.
type EventDocument struct {
	Document Document
	Raw      json.RawMessage
}

func (EventDocument) event() {}

// EventError is an application-level error reported by the server. The
// stream continues after it.
type EventError struct {
	Message string
}

func (EventError) event() {}

// EventObserved reports every classified wire message, after any
// specialized events derived from it.
type EventObserved struct {
	Message WireMessage
}

func (EventObserved) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextChunk{}
	_ Event = EventBlockStart{}
	_ Event = EventBlockDelta{}
	_ Event = EventBlockEnd{}
	_ Event = EventDocument{}
	_ Event = EventError{}
	_ Event = EventObserved{}
)
