package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	astra "github.com/shimonpozd/astra-web-client-sub000"
	bt "github.com/shimonpozd/astra-web-client-sub000/bubbletea"
	astrajson "github.com/shimonpozd/astra-web-client-sub000/json"
	"github.com/shimonpozd/astra-web-client-sub000/wire"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type replayFlags struct {
	chunk int
	json  bool
}

func newReplayCmd(a *app) *cobra.Command {
	var f replayFlags
	cmd := &cobra.Command{
		Use:   "replay PATTERN...",
		Short: "Decode recorded stream captures",
		Long: `Decode files holding raw stream bodies and print the reconstructed
document with frame statistics. Patterns support ** for recursive matching.

--chunk feeds each capture to the decoder N bytes at a time, which exercises
frame reassembly across arbitrary boundaries.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no captures match %v", args)
			}
			for _, p := range paths {
				if err := a.replay(p, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&f.chunk, "chunk", 0, "Read size in bytes (default: config read_size)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the document as JSON")
	return cmd
}

// expandPatterns returns the sorted, de-duplicated files matching patterns.
func expandPatterns(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("error matching pattern %s: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

func (a *app) replay(path string, f replayFlags) error {
	body, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}

	readSize := a.cfg.ReadSize
	if f.chunk > 0 {
		readSize = f.chunk
	}
	st := wire.NewStream(body, wire.WithLogger(a.log), wire.WithReadSize(readSize))
	defer st.Close()

	var b astra.Builder
	var remote []string
	err = astra.Dispatch(tapBuilder(st, &b), astra.Handler{
		OnError: func(err error) {
			var re *astra.RemoteError
			if errors.As(err, &re) {
				remote = append(remote, re.Message)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	stats := st.Stats()
	a.log.Debug("capture decoded", zap.String("path", path), zap.Int("frames", stats.Frames))

	fmt.Fprintf(a.stdout, "== %s ==\n", path)
	doc := b.Document()
	if f.json {
		data, err := astrajson.MarshalDocument(doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
	} else if out := bt.Render(doc, b.Text(), 0, bt.PlainStyles()); out != "" {
		fmt.Fprintln(a.stdout, out)
	}
	for _, msg := range remote {
		fmt.Fprintf(a.stdout, "remote error: %s\n", msg)
	}
	fmt.Fprintf(a.stdout, "frames=%d skipped=%d dropped=%d state=%s\n",
		stats.Frames, stats.Skipped, stats.Dropped, st.State())
	return nil
}

// builderStream applies every event to a Builder on its way out.
type builderStream struct {
	astra.Stream
	b *astra.Builder
}

func tapBuilder(s astra.Stream, b *astra.Builder) astra.Stream {
	return builderStream{Stream: s, b: b}
}

func (s builderStream) Next() (astra.Event, error) {
	evt, err := s.Stream.Next()
	if err == nil {
		s.b.Apply(evt)
	}
	return evt, err
}
