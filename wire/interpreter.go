package wire

import (
	"bytes"
	"encoding/json"

	astra "github.com/shimonpozd/astra-web-client-sub000"
	astrajson "github.com/shimonpozd/astra-web-client-sub000/json"
	"go.uber.org/zap"
)

// State is the interpreter's lifecycle state.
type State int

const (
	StateActive State = iota // Accepting messages.
	StateEnded               // An end op was applied; further messages are ignored.
)

// Event vocabulary type names.
const (
	typeLLMChunk     = "llm_chunk"
	typeDocV1        = "doc_v1"
	typeBlockStart   = "block_start"
	typeBlockDelta   = "block_delta"
	typeBlockEnd     = "block_end"
	typeFullResponse = "full_response"
	typeError        = "error"
)

const defaultErrorMessage = "Stream error"

// Interpreter turns wire messages into semantic events. It owns the block
// index registry for one stream. An Interpreter is not safe for concurrent
// use.
type Interpreter struct {
	registry *Registry
	state    State
	log      *zap.Logger
}

// NewInterpreter returns an active interpreter. A nil logger disables
// logging.
func NewInterpreter(log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{registry: NewRegistry(), log: log}
}

// State returns the current lifecycle state.
func (in *Interpreter) State() State {
	return in.state
}

// Blocks returns the number of block ids the op vocabulary has registered.
func (in *Interpreter) Blocks() int {
	return in.registry.Len()
}

// Apply interprets one message and returns the events it produces, ending
// with an EventObserved for the message itself. Server errors are the
// exception: their EventError follows the EventObserved. After an end op,
// Apply returns nil.
func (in *Interpreter) Apply(msg astra.WireMessage) []astra.Event {
	if in.state == StateEnded {
		return nil
	}
	observed := astra.EventObserved{Message: msg}
	switch m := msg.(type) {
	case astra.OpMessage:
		return append(in.applyOp(m), observed)
	case astra.EventMessage:
		if m.Type == typeError {
			return []astra.Event{observed, astra.EventError{Message: errorMessage(m.Data)}}
		}
		return append(in.applyEvent(m), observed)
	}
	return nil
}

func (in *Interpreter) applyOp(m astra.OpMessage) []astra.Event {
	switch m.Op {
	case astra.OpAddBlock:
		idx := in.registry.IndexFor(m.Data.ID)
		blk := Normalize(m.Data.ID, m.Data.Type, m.Data.Meta)
		return []astra.Event{
			astra.EventBlockStart{Index: idx, Type: blk.Type, ID: blk.ID, Block: blk},
			astra.EventBlockDelta{Index: idx, Content: blk, DeltaType: astra.DeltaReplace},
		}
	case astra.OpAppendText:
		idx := in.registry.IndexFor(m.Data.ID)
		return []astra.Event{
			astra.EventBlockDelta{Index: idx, Content: astra.Block{Text: m.Data.Text}, DeltaType: astra.DeltaAppend},
		}
	case astra.OpEnd:
		in.state = StateEnded
		return nil
	default:
		in.log.Debug("unknown op", zap.String("op", string(m.Op)))
		return nil
	}
}

func (in *Interpreter) applyEvent(m astra.EventMessage) []astra.Event {
	switch m.Type {
	case typeLLMChunk:
		if text, ok := stringValue(m.Data); ok && text != "" {
			return []astra.Event{astra.EventTextChunk{Text: text, Draft: true}}
		}
		return nil
	case typeFullResponse:
		if len(m.Data) == 0 {
			return nil
		}
		text, ok := stringValue(m.Data)
		if !ok {
			text = compactJSON(m.Data)
		}
		return []astra.Event{astra.EventTextChunk{Text: text}}
	case typeDocV1:
		doc, err := astrajson.UnmarshalDocument(m.Data)
		if err != nil {
			in.log.Warn("doc_v1 payload not decoded", zap.Error(err))
		}
		return []astra.Event{astra.EventDocument{Document: doc, Raw: m.Data}}
	case typeBlockStart:
		p := in.decodePayload(m)
		blk := p.block(in.log)
		typ := astra.BlockType(p.Type)
		if typ == "" {
			typ = blk.Type
		}
		return []astra.Event{astra.EventBlockStart{
			Index: p.Index,
			Type:  typ,
			ID:    p.ID,
			Block: blk,
			Raw:   m.Data,
		}}
	case typeBlockDelta:
		p := in.decodePayload(m)
		dt := astra.DeltaType(p.DeltaType)
		if dt == "" {
			dt = astra.DeltaReplace
		}
		return []astra.Event{astra.EventBlockDelta{
			Index:     p.Index,
			Content:   p.content(in.log),
			DeltaType: dt,
			Raw:       m.Data,
		}}
	case typeBlockEnd:
		p := in.decodePayload(m)
		return []astra.Event{astra.EventBlockEnd{Index: p.Index, Raw: m.Data}}
	default:
		return nil
	}
}

// blockPayload is the canonical shape of block_start, block_delta and
// block_end data. Every field is optional.
type blockPayload struct {
	Index     int             `json:"block_index"`
	Type      string          `json:"block_type"`
	ID        string          `json:"block_id"`
	Block     json.RawMessage `json:"block"`
	Content   json.RawMessage `json:"content"`
	DeltaType string          `json:"delta_type"`
}

func (in *Interpreter) decodePayload(m astra.EventMessage) blockPayload {
	var p blockPayload
	if len(m.Data) == 0 {
		return p
	}
	if err := json.Unmarshal(m.Data, &p); err != nil {
		in.log.Warn("block payload not decoded", zap.String("type", m.Type), zap.Error(err))
		return blockPayload{}
	}
	return p
}

func (p blockPayload) block(log *zap.Logger) astra.Block {
	blk := decodeBlock(p.Block, log)
	if blk.ID == "" {
		blk.ID = p.ID
	}
	return blk
}

func (p blockPayload) content(log *zap.Logger) astra.Block {
	raw := p.Content
	if len(raw) == 0 {
		raw = p.Block
	}
	if text, ok := stringValue(raw); ok {
		return astra.Block{Text: text}
	}
	return decodeBlock(raw, log)
}

func decodeBlock(raw json.RawMessage, log *zap.Logger) astra.Block {
	if len(raw) == 0 || raw[0] != '{' {
		return astra.Block{}
	}
	blk, err := astrajson.UnmarshalBlock(raw)
	if err != nil {
		log.Warn("block not decoded", zap.Error(err))
		return astra.Block{}
	}
	return blk
}

func compactJSON(data json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}

// errorMessage coerces error data to a message: a string as-is, an object's
// string "message" field, or a generic fallback.
func errorMessage(data json.RawMessage) string {
	if s, ok := stringValue(data); ok {
		return s
	}
	var obj struct {
		Message *string `json:"message"`
	}
	if len(data) > 0 && data[0] == '{' && json.Unmarshal(data, &obj) == nil && obj.Message != nil {
		return *obj.Message
	}
	return defaultErrorMessage
}
