package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// Styles maps a Theme to lipgloss styles for rendering.
type Styles struct {
	Heading lipgloss.Style
	Quote   lipgloss.Style
	Rule    lipgloss.Style
	Draft   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	UserMsg lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t astra.Theme) Styles {
	return Styles{
		Heading: lipgloss.NewStyle().Foreground(ansiColor(t.Heading)).Bold(true),
		Quote:   lipgloss.NewStyle().Foreground(ansiColor(t.Quote)).Italic(true),
		Rule:    lipgloss.NewStyle().Foreground(ansiColor(t.Rule)).Faint(true),
		Draft:   lipgloss.NewStyle().Foreground(ansiColor(t.Draft)),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		UserMsg: lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

// PlainStyles returns styles that add no escape sequences, for output that
// is not a terminal.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Heading: s, Quote: s, Rule: s, Draft: s, Error: s,
		Success: s, Muted: s, Accent: s, UserMsg: s,
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
