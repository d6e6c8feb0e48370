// Package frame splits a chunked byte stream into complete JSON object
// frames. Lines terminated by a newline are frames; text without a trailing
// newline is scanned for brace-balanced objects. The output does not depend
// on where the input was split into chunks.
package frame

import "bytes"

// Extractor accumulates chunks and yields complete frames. The zero value
// is ready to use. An Extractor is not safe for concurrent use.
type Extractor struct {
	buf []byte
}

// Feed appends p to the buffer and returns every frame the buffer now
// completes, in order. Returned frames do not alias p or the buffer.
func (e *Extractor) Feed(p []byte) [][]byte {
	frames, rest := Split(append(e.buf, p...))
	e.buf = rest
	return frames
}

// Remainder returns the buffered bytes not yet certified as a frame.
func (e *Extractor) Remainder() []byte {
	return e.buf
}

// Reset drops any buffered bytes.
func (e *Extractor) Reset() {
	e.buf = nil
}

// Split extracts complete frames from data and returns them with the bytes
// that must be retained until more input arrives.
func Split(data []byte) (frames [][]byte, rest []byte) {
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		for _, line := range bytes.Split(data[:i], []byte{'\n'}) {
			frames = appendLine(frames, line)
		}
		data = data[i+1:]
	}

	spans, open := scan(data)
	if len(spans) == 0 {
		return frames, clone(data)
	}
	for _, s := range spans {
		frames = append(frames, clone(data[s.start:s.end]))
	}
	if open >= 0 {
		rest = clone(data[open:])
	}
	return frames, rest
}

// appendLine adds a newline-terminated line. A line holding nothing but
// several balanced objects yields each object, so that objects glued
// together on one line frame the same way they would without the newline.
func appendLine(frames [][]byte, line []byte) [][]byte {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return frames
	}
	spans, open := scan(line)
	if len(spans) > 1 && open < 0 && onlyObjects(line, spans) {
		for _, s := range spans {
			frames = append(frames, clone(line[s.start:s.end]))
		}
		return frames
	}
	return append(frames, clone(line))
}

func onlyObjects(line []byte, spans []span) bool {
	prev := 0
	for _, s := range spans {
		if len(bytes.TrimSpace(line[prev:s.start])) > 0 {
			return false
		}
		prev = s.end
	}
	return len(bytes.TrimSpace(line[prev:])) == 0
}

type span struct {
	start, end int
}

// scan finds top-level brace-balanced objects in b. String literals are
// tracked only inside objects, so braces and quotes within strings never
// affect depth. It returns the spans of complete objects and the offset of
// an unterminated trailing object, or -1 if there is none. A closing brace
// at depth zero is ignored.
func scan(b []byte) (spans []span, open int) {
	depth, start := 0, -1
	inString, escaped := false, false
	for i, c := range b {
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"' && depth > 0:
			inString = true
		case c == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case c == '}' && depth > 0:
			depth--
			if depth == 0 {
				spans = append(spans, span{start: start, end: i + 1})
				start = -1
			}
		}
	}
	if depth > 0 {
		return spans, start
	}
	return spans, -1
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
