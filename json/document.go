// Package json encodes and persists block documents in the doc_v1 format.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// Version is the document format version written by MarshalDocument.
const Version = "1.0"

// documentDTO is the doc_v1 wire format.
type documentDTO struct {
	Version string            `json:"version"`
	Blocks  []json.RawMessage `json:"blocks"`
}

// UnmarshalDocument decodes a doc_v1 document. A block that fails to decode
// becomes a paragraph carrying the raw block as Meta; the returned document
// is complete and the error reports each such block with its position.
func UnmarshalDocument(data []byte) (astra.Document, error) {
	var dto documentDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return astra.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	doc := astra.Document{Version: dto.Version}
	if len(dto.Blocks) > 0 {
		doc.Blocks = make([]astra.Block, len(dto.Blocks))
	}
	var errs []error
	for i, raw := range dto.Blocks {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("block %d: %w", i, err))
			b = astra.Block{Type: astra.BlockParagraph, Meta: bytes.Clone(raw)}
		}
		doc.Blocks[i] = b
	}
	return doc, errors.Join(errs...)
}

// MarshalDocument encodes a document as indented doc_v1 JSON.
func MarshalDocument(doc astra.Document) ([]byte, error) {
	dto := documentDTO{
		Version: doc.Version,
		Blocks:  make([]json.RawMessage, len(doc.Blocks)),
	}
	if dto.Version == "" {
		dto.Version = Version
	}
	for i, b := range doc.Blocks {
		data, err := MarshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		dto.Blocks[i] = data
	}
	return json.MarshalIndent(dto, "", "  ")
}

// Save writes a document to a JSON file, creating parent directories as needed.
func Save(path string, doc astra.Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a document from a JSON file.
func Load(path string) (astra.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return astra.Document{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalDocument(data)
}
