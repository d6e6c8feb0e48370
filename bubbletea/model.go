package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	astra "github.com/shimonpozd/astra-web-client-sub000"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the streaming chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	run    RunFunc
	base   astra.Request
	prompt string
	styles Styles

	blocks []MessageBlock
	// active receives events for the stream in flight.
	active *DocumentBlock
	events int

	running bool
	done    bool
	cancel  context.CancelFunc
	eventCh chan astra.Event
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a new TUI Model. Each submitted line is sent as base with its
// Text replaced.
func New(run RunFunc, base astra.Request, theme astra.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:  ti,
		run:    run,
		base:   base,
		styles: NewStyles(theme),
	}
}

// WithPrompt returns a copy of m that submits text as soon as it starts.
func (m Model) WithPrompt(text string) Model {
	m.prompt = strings.TrimSpace(text)
	return m
}

// Running returns whether a stream is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Blocks returns the rendered conversation blocks.
func (m Model) Blocks() []MessageBlock { return m.blocks }

// SetRunningWithCancel is a test helper that puts the model in a running state
// with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.prompt != "" {
		prompt := m.prompt
		return tea.Batch(textinput.Blink, func() tea.Msg { return SubmitMsg{Text: prompt} })
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SubmitMsg:
		if m.running || strings.TrimSpace(msg.Text) == "" {
			return m, nil
		}
		return m.submit(strings.TrimSpace(msg.Text))

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case StreamDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		m.active = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.done = m.err == nil
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)
	}

	// Only forward non-character keys to viewport so 'j'/'k' stay typeable.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.done = false

	req := m.base
	req.Text = text

	m.active = NewDocumentBlock(m.styles)
	m.events = 0
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles), m.active)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan astra.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startStream(m.run, ctx, req, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) renderContent() string {
	var parts []string
	for _, block := range m.blocks {
		if view := block.View(m.Viewport.Width); view != "" {
			parts = append(parts, view)
		}
	}
	return strings.Join(parts, "\n\n")
}

// processEvent folds an event into the active answer. Remote errors get their
// own block; the answer keeps streaming after them.
func (m Model) processEvent(evt astra.Event) Model {
	m.events++
	switch e := evt.(type) {
	case astra.EventError:
		m.blocks = append(m.blocks, NewErrorBlock(&astra.RemoteError{Message: e.Message}, m.styles))
	default:
		if m.active != nil {
			m.active.Apply(evt)
		}
	}
	return m
}

func (m Model) statusLine() string {
	width := m.Viewport.Width
	if m.err != nil {
		return m.styles.Error.Render(truncate(fmt.Sprintf("Error: %v", m.err), width))
	}
	if m.running {
		return m.styles.Muted.Render(truncate(fmt.Sprintf("Streaming... %d events", m.events), width))
	}
	if m.done {
		return m.styles.Success.Render(truncate("Done. Enter to send, Ctrl+C to quit", width))
	}
	return m.styles.Muted.Render(truncate("Enter to send, Ctrl+C to quit", width))
}

// startStream runs the stream in a goroutine and signals completion.
func startStream(run RunFunc, ctx context.Context, req astra.Request, eventCh chan<- astra.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, req, func(e astra.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns
// StreamDoneMsg.
func listenForEvent(ch <-chan astra.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			err := <-doneCh
			return StreamDoneMsg{Err: err}
		}
		return StreamEventMsg{Event: evt}
	}
}
