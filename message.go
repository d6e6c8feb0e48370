package astra

import "encoding/json"

// WireMessage is a sealed interface over the two message vocabularies a
// stream may carry.
type WireMessage interface {
	wireMessage()
}

// Op names an operation in the op vocabulary.
type Op string

const (
	OpAddBlock   Op = "add_block"
	OpAppendText Op = "append_text"
	OpEnd        Op = "end"
)

// OpData is the payload of an OpMessage. Fields absent from the frame are
// left zero.
type OpData struct {
	ID   string
	Type string
	Text string
	Meta json.RawMessage
}

// OpMessage is a frame of the form {"op": ..., "data": ...}. Unknown op
// values are kept as-is.
type OpMessage struct {
	Op   Op
	Data OpData
	Raw  json.RawMessage
}

func (OpMessage) wireMessage() {}

// EventMessage is a frame of the legacy form {"type": ..., "data": ...}.
// Data is kept undecoded.
type EventMessage struct {
	Type string
	Data json.RawMessage
	Raw  json.RawMessage
}

func (EventMessage) wireMessage() {}

// Interface compliance checks.
var (
	_ WireMessage = OpMessage{}
	_ WireMessage = EventMessage{}
)
