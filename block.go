package astra

import "encoding/json"

// BlockType identifies the kind of a document block.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockQuote     BlockType = "quote"
	BlockRule      BlockType = "hr"
	BlockParagraph BlockType = "paragraph"
)

// DeltaType tells how an EventBlockDelta applies to its block.
type DeltaType string

const (
	DeltaReplace DeltaType = "replace"
	DeltaAppend  DeltaType = "append"
)

// Block is one typed unit of the reconstructed document. Level is only
// meaningful for headings. Meta is opaque server metadata, passed through
// unchanged.
type Block struct {
	ID    string
	Type  BlockType
	Level int
	Text  string
	Meta  json.RawMessage
}

// Document is an ordered list of blocks.
type Document struct {
	Version string
	Blocks  []Block
}
