package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	astra "github.com/shimonpozd/astra-web-client-sub000"
	bt "github.com/shimonpozd/astra-web-client-sub000/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, run bt.RunFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, run, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, run bt.RunFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(run, astra.Request{Endpoint: astra.EndpointBlocks}, astra.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopRun is a RunFunc that streams nothing.
func nopRun(_ context.Context, _ astra.Request, _ func(astra.Event)) error {
	return nil
}

// scriptRun returns a RunFunc that emits events in order and records the
// request it was given.
func scriptRun(got *astra.Request, events ...astra.Event) bt.RunFunc {
	return func(_ context.Context, req astra.Request, onEvent func(astra.Event)) error {
		if got != nil {
			*got = req
		}
		for _, e := range events {
			onEvent(e)
		}
		return nil
	}
}
