// Package bubbletea provides a Bubble Tea TUI that renders streamed answers
// as they arrive.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// RunFunc streams the answer to req. The onEvent callback is called for each
// decoded event. The function blocks until the stream completes or the
// context is cancelled.
type RunFunc func(ctx context.Context, req astra.Request, onEvent func(astra.Event)) error

// LoopRunner adapts a Loop to a RunFunc. Remote errors reach the model as
// EventError, so the handler only needs to observe them.
func LoopRunner(l *astra.Loop) RunFunc {
	return func(ctx context.Context, req astra.Request, onEvent func(astra.Event)) error {
		return l.Run(ctx, req, astra.Handler{}, astra.WithEventHandler(onEvent))
	}
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event astra.Event
}

// StreamDoneMsg signals that the stream has completed.
type StreamDoneMsg struct {
	Err error
}

// SubmitMsg asks the model to send Text as if it had been typed.
type SubmitMsg struct {
	Text string
}
