package mock_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	astra "github.com/shimonpozd/astra-web-client-sub000"
	"github.com/shimonpozd/astra-web-client-sub000/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamer_Stream(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StreamFn", func(t *testing.T) {
		t.Parallel()
		var s mock.Stream
		p := mock.Streamer{
			StreamFn: func(ctx context.Context, req astra.Request) (astra.Stream, error) {
				assert.Equal(t, "hi", req.Text)
				return &s, nil
			},
		}
		got, err := p.Stream(context.Background(), astra.Request{Text: "hi"})
		require.NoError(t, err)
		assert.Equal(t, &s, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("dial error")
		p := mock.Streamer{
			StreamFn: func(ctx context.Context, req astra.Request) (astra.Stream, error) {
				return nil, wantErr
			},
		}
		_, err := p.Stream(context.Background(), astra.Request{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when StreamFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Streamer{}
		assert.Panics(t, func() {
			_, _ = p.Stream(context.Background(), astra.Request{})
		})
	})
}

func TestTransport_Open(t *testing.T) {
	t.Parallel()
	t.Run("delegates to OpenFn", func(t *testing.T) {
		t.Parallel()
		tr := mock.Transport{
			OpenFn: func(ctx context.Context, req astra.Request) (io.ReadCloser, error) {
				assert.Equal(t, astra.EndpointStudy, req.Endpoint)
				return io.NopCloser(strings.NewReader("body")), nil
			},
		}
		rc, err := tr.Open(context.Background(), astra.Request{Endpoint: astra.EndpointStudy})
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "body", string(data))
	})

	t.Run("panics when OpenFn not set", func(t *testing.T) {
		t.Parallel()
		tr := mock.Transport{}
		assert.Panics(t, func() {
			_, _ = tr.Open(context.Background(), astra.Request{})
		})
	})
}

func TestStream_Next(t *testing.T) {
	t.Parallel()
	t.Run("delegates to NextFn", func(t *testing.T) {
		t.Parallel()
		want := astra.EventTextChunk{Text: "hello", Draft: true}
		s := mock.Stream{
			NextFn: func() (astra.Event, error) {
				return want, nil
			},
		}
		got, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("panics when NextFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Panics(t, func() {
			_, _ = s.Next()
		})
	})
}

func TestStream_StateAndClose(t *testing.T) {
	t.Parallel()
	t.Run("zero values when unset", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Equal(t, astra.StreamStateNew, s.State())
		assert.NoError(t, s.Close())
	})

	t.Run("delegates when set", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("close error")
		s := mock.Stream{
			StateFn: func() astra.StreamState { return astra.StreamStateComplete },
			CloseFn: func() error { return wantErr },
		}
		assert.Equal(t, astra.StreamStateComplete, s.State())
		assert.ErrorIs(t, s.Close(), wantErr)
	})
}

func TestEvents(t *testing.T) {
	t.Parallel()
	t.Run("yields events then EOF", func(t *testing.T) {
		t.Parallel()
		s := mock.Events(nil, astra.EventTextChunk{Text: "a"}, astra.EventTextChunk{Text: "b"})
		evt, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, astra.EventTextChunk{Text: "a"}, evt)
		_, err = s.Next()
		require.NoError(t, err)
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("yields custom terminal error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := mock.Events(boom).Next()
		assert.ErrorIs(t, err, boom)
	})
}
