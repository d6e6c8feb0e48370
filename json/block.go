package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// blockDTO is the JSON representation of a Block. Server documents use a
// richer block vocabulary; fields this package does not model survive in
// Meta.
type blockDTO struct {
	ID    string          `json:"id,omitempty"`
	Type  string          `json:"type"`
	Level int             `json:"level,omitempty"`
	Text  string          `json:"text,omitempty"`
	Code  string          `json:"code,omitempty"`
	Meta  json.RawMessage `json:"meta,omitempty"`
}

// modeled lists the keys blockDTO decodes. Any other key sends the whole
// block object to Meta.
var modeled = map[string]bool{
	"id": true, "type": true, "level": true, "text": true, "code": true, "meta": true,
}

// UnmarshalBlock decodes a single block object.
func UnmarshalBlock(data []byte) (astra.Block, error) {
	var dto blockDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return astra.Block{}, fmt.Errorf("unmarshal block: %w", err)
	}
	blk := astra.Block{
		ID:    dto.ID,
		Type:  blockType(dto.Type),
		Level: dto.Level,
		Text:  dto.Text,
		Meta:  dto.Meta,
	}
	if blk.Text == "" {
		blk.Text = dto.Code
	}
	switch strings.ToLower(dto.Type) {
	case "h1":
		blk.Level = 1
	case "h2":
		blk.Level = 2
	case "heading":
		if blk.Level == 0 {
			blk.Level = 1
		}
	}
	if len(blk.Meta) == 0 && hasUnmodeled(data) {
		blk.Meta = bytes.Clone(data)
	}
	return blk, nil
}

// MarshalBlock encodes a single block object.
func MarshalBlock(b astra.Block) ([]byte, error) {
	return json.Marshal(toDTO(b))
}

func toDTO(b astra.Block) blockDTO {
	dto := blockDTO{ID: b.ID, Type: string(b.Type), Text: b.Text, Meta: b.Meta}
	if dto.Type == "" {
		dto.Type = string(astra.BlockParagraph)
	}
	if b.Type == astra.BlockHeading {
		dto.Level = b.Level
	}
	return dto
}

func blockType(tag string) astra.BlockType {
	switch strings.ToLower(tag) {
	case "heading", "h1", "h2":
		return astra.BlockHeading
	case "quote":
		return astra.BlockQuote
	case "hr":
		return astra.BlockRule
	default:
		return astra.BlockParagraph
	}
}

func hasUnmodeled(data []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	for k := range fields {
		if !modeled[k] {
			return true
		}
	}
	return false
}
