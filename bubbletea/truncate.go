package bubbletea

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// truncate shortens s to at most width cells. It cuts between grapheme
// clusters, so pointed Hebrew letters keep their vowel marks.
func truncate(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}
