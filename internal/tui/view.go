package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutshell-sh/nutshell/internal/render"
)

// View renders the current mode.
func (m *Model) View() string {
	if m.rend == nil {
		return ""
	}
	switch m.mode {
	case ModeStats:
		return m.statsRend.View(m.styles.Paint)
	case ModePick:
		return m.centered(m.pickPanel())
	case ModeInput:
		return m.centered(m.inputPanel())
	}
	return m.rend.View(m.styles.Paint)
}

// centered places a panel in the middle of the viewport.
func (m *Model) centered(panel string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// pickPanel renders the numbered selection menu.
func (m *Model) pickPanel() string {
	var rows []string
	for i, item := range m.pick.Items {
		rows = append(rows, fmt.Sprintf("%d: %s", i+1, m.styles.PaintLine(item)))
	}
	rows = append(rows, "")
	rows = append(rows, m.styles.PaintLine(render.InfoLine("choose a number, or press 'q' to abort")))
	return m.styles.Panel.Render(strings.Join(rows, "\n"))
}

// inputPanel renders the single-field input box.
func (m *Model) inputPanel() string {
	title := m.styles.PanelTitle.Render(m.input.Prompt)
	return m.styles.Panel.Render(title + " " + m.field.View())
}
