package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// ErrMalformed indicates a frame that is not a recognizable wire message.
// Malformed frames are skipped; they never end a stream.
var ErrMalformed = errors.New("malformed frame")

var fence = []byte("```")

// Classify parses one frame into an OpMessage or an EventMessage. A string
// "op" field selects the op vocabulary, otherwise a string "type" field
// selects the event vocabulary. Every failure wraps ErrMalformed.
func Classify(frame []byte) (astra.WireMessage, error) {
	frame = bytes.TrimSpace(frame)
	switch {
	case len(frame) == 0:
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	case bytes.HasPrefix(frame, fence):
		return nil, fmt.Errorf("%w: code fence", ErrMalformed)
	case frame[0] != '{':
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	raw := json.RawMessage(frame)

	if op, ok := stringValue(fields["op"]); ok {
		return classifyOp(astra.Op(op), fields["data"], raw)
	}
	if typ, ok := stringValue(fields["type"]); ok {
		return astra.EventMessage{Type: typ, Data: fields["data"], Raw: raw}, nil
	}
	return nil, fmt.Errorf("%w: neither op nor type", ErrMalformed)
}

func classifyOp(op astra.Op, data, raw json.RawMessage) (astra.WireMessage, error) {
	var fields map[string]json.RawMessage
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("%w: %s data: %w", ErrMalformed, op, err)
		}
	}

	var d astra.OpData
	d.ID, _ = stringValue(fields["id"])
	d.Type, _ = stringValue(fields["type"])
	d.Text, _ = stringValue(fields["text"])
	if m := fields["meta"]; len(m) > 0 && !isNull(m) {
		d.Meta = m
	}

	switch op {
	case astra.OpAddBlock:
		if _, ok := stringValue(fields["id"]); !ok {
			return nil, fmt.Errorf("%w: add_block without string id", ErrMalformed)
		}
	case astra.OpAppendText:
		if _, ok := stringValue(fields["id"]); !ok {
			return nil, fmt.Errorf("%w: append_text without string id", ErrMalformed)
		}
		if _, ok := stringValue(fields["text"]); !ok {
			return nil, fmt.Errorf("%w: append_text without string text", ErrMalformed)
		}
	}
	return astra.OpMessage{Op: op, Data: d, Raw: raw}, nil
}

// stringValue decodes raw as a JSON string. Absent fields, null and other
// JSON types report false.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
