package astra_test

import (
	"errors"
	"testing"

	astra "github.com/shimonpozd/astra-web-client-sub000"
	"github.com/shimonpozd/astra-web-client-sub000/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder builds a Handler that logs every callback in order.
type recorder struct {
	calls []string
	errs  []error
}

func (r *recorder) handler() astra.Handler {
	return astra.Handler{
		OnChunk:      func(text string) { r.calls = append(r.calls, "chunk:"+text) },
		OnDraft:      func(text string) { r.calls = append(r.calls, "draft:"+text) },
		OnBlockStart: func(e astra.EventBlockStart) { r.calls = append(r.calls, "start:"+e.ID) },
		OnBlockDelta: func(e astra.EventBlockDelta) { r.calls = append(r.calls, "delta:"+string(e.DeltaType)) },
		OnBlockEnd:   func(astra.EventBlockEnd) { r.calls = append(r.calls, "end-block") },
		OnDocument:   func(astra.EventDocument) { r.calls = append(r.calls, "document") },
		OnEvent:      func(astra.WireMessage) { r.calls = append(r.calls, "event") },
		OnComplete:   func() { r.calls = append(r.calls, "complete") },
		OnError: func(err error) {
			r.calls = append(r.calls, "error")
			r.errs = append(r.errs, err)
		},
	}
}

func TestDispatch_Order(t *testing.T) {
	t.Parallel()
	s := mock.Events(nil,
		astra.EventBlockStart{ID: "b1"},
		astra.EventBlockDelta{DeltaType: astra.DeltaReplace},
		astra.EventObserved{},
		astra.EventTextChunk{Text: "a", Draft: true},
		astra.EventObserved{},
		astra.EventTextChunk{Text: "full"},
		astra.EventBlockEnd{},
		astra.EventDocument{},
	)
	var r recorder

	err := astra.Dispatch(s, r.handler())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start:b1", "delta:replace", "event",
		"chunk:a", "draft:a", "event",
		"chunk:full",
		"end-block", "document",
		"complete",
	}, r.calls)
}

func TestDispatch_RemoteErrorContinues(t *testing.T) {
	t.Parallel()
	s := mock.Events(nil,
		astra.EventObserved{},
		astra.EventError{Message: "soft"},
		astra.EventTextChunk{Text: "after"},
	)
	var r recorder

	require.NoError(t, astra.Dispatch(s, r.handler()))
	assert.Equal(t, []string{"event", "error", "chunk:after", "complete"}, r.calls)

	var remote *astra.RemoteError
	require.ErrorAs(t, r.errs[0], &remote)
	assert.Equal(t, "soft", remote.Message)
}

func TestDispatch_TransportFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("reset")
	s := mock.Events(boom, astra.EventTextChunk{Text: "a"})
	var r recorder

	err := astra.Dispatch(s, r.handler())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"chunk:a", "error"}, r.calls, "no completion after failure")
	var remote *astra.RemoteError
	assert.False(t, errors.As(r.errs[0], &remote))
}

func TestDispatch_NilCallbacks(t *testing.T) {
	t.Parallel()
	s := mock.Events(nil,
		astra.EventTextChunk{Text: "a", Draft: true},
		astra.EventBlockStart{},
		astra.EventBlockDelta{},
		astra.EventBlockEnd{},
		astra.EventDocument{},
		astra.EventError{Message: "x"},
		astra.EventObserved{},
	)
	assert.NoError(t, astra.Dispatch(s, astra.Handler{}))
	assert.Error(t, astra.Dispatch(mock.Events(errors.New("x")), astra.Handler{}))
}
