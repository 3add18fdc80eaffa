package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nutshell-sh/nutshell/internal/render"
)

// Colors defines the color palette for the shell.
var Colors = struct {
	Name     lipgloss.Color
	Tag      lipgloss.Color
	TimeSpan lipgloss.Color
	Total    lipgloss.Color
	Error    lipgloss.Color
	Info     lipgloss.Color
	Prompt   lipgloss.Color
	Border   lipgloss.Color
}{
	Name:     lipgloss.Color("#FFEAA7"), // Yellow
	Tag:      lipgloss.Color("#A29BFE"), // Lavender
	TimeSpan: lipgloss.Color("#74B9FF"), // Light blue
	Total:    lipgloss.Color("#00B894"), // Green
	Error:    lipgloss.Color("#D63031"), // Red
	Info:     lipgloss.Color("#B2BEC3"), // Light gray
	Prompt:   lipgloss.Color("#6C5CE7"), // Purple
	Border:   lipgloss.Color("#636E72"), // Gray
}

// Styles contains the lipgloss styles for the shell.
type Styles struct {
	attrs map[render.Attribute]lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		attrs: map[render.Attribute]lipgloss.Style{
			render.Name:     lipgloss.NewStyle().Foreground(Colors.Name),
			render.Tag:      lipgloss.NewStyle().Foreground(Colors.Tag),
			render.TimeSpan: lipgloss.NewStyle().Foreground(Colors.TimeSpan),
			render.Total:    lipgloss.NewStyle().Foreground(Colors.Total),
			render.Error:    lipgloss.NewStyle().Foreground(Colors.Error),
			render.Info:     lipgloss.NewStyle().Foreground(Colors.Info),
			render.Prompt:   lipgloss.NewStyle().Foreground(Colors.Prompt).Bold(true),
		},
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Border).
			Padding(0, 2),
		PanelTitle: lipgloss.NewStyle().
			Foreground(Colors.Prompt).
			Bold(true),
	}
}

// Paint renders one attribute run, the callback the renderer's View
// expects.
func (s Styles) Paint(text string, attr render.Attribute) string {
	if style, ok := s.attrs[attr]; ok {
		return style.Render(text)
	}
	return text
}

// PaintLine renders a whole line of segments.
func (s Styles) PaintLine(line render.Line) string {
	out := ""
	for _, seg := range line {
		out += s.Paint(seg.Text, seg.Attr)
	}
	return out
}
