package bubbletea_test

import (
	"testing"

	bt "github.com/shimonpozd/astra-web-client-sub000/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exact", 5, "exact"},
		{"ascii", "abcdefgh", 4, "abc…"},
		{"no width", "anything", 0, "anything"},
		{"keeps vowel marks with their letter", "\u05d1\u05b0\u05bc\u05e8\u05b5\u05d0\u05e9\u05c1\u05b4\u05d9\u05ea", 3, "\u05d1\u05b0\u05bc\u05e8\u05b5…"},
		{"wide runes", "שלום世界", 6, "שלום…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bt.Truncate(tt.in, tt.width))
		})
	}
}

func TestModel_StatusLineFitsWidth(t *testing.T) {
	t.Parallel()

	m := initModelWithSize(t, nopRun, 20, 10)
	assert.Contains(t, m.View(), "Enter to send, Ctrl…")
}
