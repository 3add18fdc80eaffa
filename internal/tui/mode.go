// Package tui provides the interactive shell for the time tracker.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeShell Mode = iota // Prompt on the main viewport
	ModePick              // Numbered selection panel
	ModeInput             // Single-field input panel
	ModeStats             // Fullscreen statistics viewport
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeShell:
		return "shell"
	case ModePick:
		return "pick"
	case ModeInput:
		return "input"
	case ModeStats:
		return "stats"
	default:
		return "unknown"
	}
}
