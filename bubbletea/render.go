package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	astra "github.com/shimonpozd/astra-web-client-sub000"
)

const (
	quoteBar         = "│ "
	ruleChar         = "─"
	defaultRuleWidth = 40
)

// Render lays out a document followed by any plain streamed text. Blocks are
// separated by a blank line. A width of zero or less disables wrapping.
func Render(doc astra.Document, text string, width int, s Styles) string {
	parts := make([]string, 0, len(doc.Blocks)+1)
	for _, blk := range doc.Blocks {
		if out := renderBlock(blk, width, s); out != "" {
			parts = append(parts, out)
		}
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, wrap(s.Draft, text, width))
	}
	return strings.Join(parts, "\n\n")
}

func renderBlock(blk astra.Block, width int, s Styles) string {
	if blk.Type == astra.BlockRule {
		return s.Rule.Render(rule(width))
	}
	if blk.Text == "" {
		return ""
	}
	switch blk.Type {
	case astra.BlockHeading:
		style := s.Heading
		if blk.Level > 2 {
			style = style.Bold(false).Underline(true)
		}
		return wrap(style, blk.Text, width)
	case astra.BlockQuote:
		return quote(blk.Text, width, s.Quote)
	default:
		return wrap(lipgloss.NewStyle(), blk.Text, width)
	}
}

func wrap(style lipgloss.Style, text string, width int) string {
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}

// quote prefixes every wrapped line with the quote bar.
func quote(text string, width int, style lipgloss.Style) string {
	body := text
	if inner := width - runewidth.StringWidth(quoteBar); width > 0 && inner > 0 {
		body = lipgloss.NewStyle().Width(inner).Render(text)
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = style.Render(quoteBar + line)
	}
	return strings.Join(lines, "\n")
}

func rule(width int) string {
	if width <= 0 {
		width = defaultRuleWidth
	}
	n := width / max(runewidth.StringWidth(ruleChar), 1)
	return strings.Repeat(ruleChar, n)
}
