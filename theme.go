package astra

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Heading int // Heading text
	Quote   int // Quote bar and text
	Rule    int // Horizontal rules
	Draft   int // Plain streamed text
	Error   int // Error messages
	Success int // Completion indicator
	Muted   int // Status bar
	Accent  int // Status bar highlights
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Heading: 5,
		Quote:   4,
		Rule:    8,
		Draft:   7,
		Error:   1,
		Success: 2,
		Muted:   8,
		Accent:  3,
	}
}
