// Package wire decodes a chunked stream of JSON frames into semantic
// events. It implements the op vocabulary (add_block, append_text, end) and
// the legacy event vocabulary (llm_chunk, doc_v1, block_*, full_response,
// error) over any astra.Transport.
package wire

import "go.uber.org/zap"

const defaultReadSize = 32 * 1024

type config struct {
	log      *zap.Logger
	readSize int
}

func newConfig(opts []Option) config {
	cfg := config{log: zap.NewNop(), readSize: defaultReadSize}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Option configures a Client or a Stream.
type Option func(*config)

// WithLogger sets the logger used for skipped frames and stream summaries.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithReadSize sets the maximum number of bytes requested from the
// transport per read.
func WithReadSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.readSize = n
		}
	}
}
