package chat

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg   int // User message accent
	Assistant int // Assistant label
	Thinking  int // Thinking trace text
	Error     int // Failure notices
	Muted     int // Status bar, placeholders
	Accent    int // Header, selected model
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 2,
		Thinking:  8,
		Error:     1,
		Muted:     8,
		Accent:    5,
	}
}
