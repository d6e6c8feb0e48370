package astra

import (
	"maps"
	"slices"
	"strings"
)

// Builder accumulates stream events into a Document and the plain text
// transcript. The zero value is ready to use. A Builder is not safe for
// concurrent use.
type Builder struct {
	version string
	// Blocks are keyed by index; servers may leave gaps of any size.
	blocks map[int]Block
	text   strings.Builder
}

// Apply folds one event into the builder. Events that carry no document
// content are ignored.
func (b *Builder) Apply(evt Event) {
	switch e := evt.(type) {
	case EventTextChunk:
		b.text.WriteString(e.Text)
	case EventBlockStart:
		blk := e.Block
		if blk.ID == "" {
			blk.ID = e.ID
		}
		if blk.Type == "" {
			blk.Type = e.Type
		}
		b.set(e.Index, blk)
	case EventBlockDelta:
		switch e.DeltaType {
		case DeltaAppend:
			blk, ok := b.at(e.Index)
			if !ok {
				blk = Block{Type: BlockParagraph}
			}
			blk.Text += e.Content.Text
			b.set(e.Index, blk)
		default:
			blk := e.Content
			if prev, ok := b.at(e.Index); ok && blk.ID == "" {
				blk.ID = prev.ID
			}
			b.set(e.Index, blk)
		}
	case EventDocument:
		b.version = e.Document.Version
		b.blocks = make(map[int]Block, len(e.Document.Blocks))
		for i, blk := range e.Document.Blocks {
			b.blocks[i] = blk
		}
	}
}

// Document returns the blocks received so far in index order. Indices that
// were never filled are skipped.
func (b *Builder) Document() Document {
	doc := Document{Version: b.version}
	for _, i := range slices.Sorted(maps.Keys(b.blocks)) {
		doc.Blocks = append(doc.Blocks, b.blocks[i])
	}
	return doc
}

// Text returns the concatenated plain text chunks.
func (b *Builder) Text() string {
	return b.text.String()
}

func (b *Builder) at(i int) (Block, bool) {
	blk, ok := b.blocks[i]
	return blk, ok
}

func (b *Builder) set(i int, blk Block) {
	if i < 0 {
		return
	}
	if b.blocks == nil {
		b.blocks = make(map[int]Block)
	}
	b.blocks[i] = blk
}
