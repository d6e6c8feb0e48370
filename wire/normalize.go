package wire

import (
	"encoding/json"
	"strings"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// Normalize builds the initial block for an add_block op. The tag is matched
// case-insensitively and defaults to "p". Rules carry neither text nor meta;
// every other block starts with empty text and keeps meta unchanged.
func Normalize(id, tag string, meta json.RawMessage) astra.Block {
	if tag == "" {
		tag = "p"
	}
	blk := astra.Block{ID: id, Meta: meta}
	switch strings.ToLower(tag) {
	case "h1":
		blk.Type, blk.Level = astra.BlockHeading, 1
	case "h2":
		blk.Type, blk.Level = astra.BlockHeading, 2
	case "quote":
		blk.Type = astra.BlockQuote
	case "hr":
		return astra.Block{ID: id, Type: astra.BlockRule}
	default:
		blk.Type = astra.BlockParagraph
	}
	return blk
}
