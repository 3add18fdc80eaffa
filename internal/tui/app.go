package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutshell-sh/nutshell/internal/app"
	"github.com/nutshell-sh/nutshell/internal/editor"
	"github.com/nutshell-sh/nutshell/internal/interpreter"
	"github.com/nutshell-sh/nutshell/internal/render"
	"github.com/nutshell-sh/nutshell/internal/screen"
)

const banner = "nutshell - track what you spend your time on"

// Model is the main bubbletea model for the shell.
type Model struct {
	// Dependencies
	container *app.Container

	// Main viewport
	rend *screen.Renderer
	ed   *editor.Editor

	// Statistics viewport
	statsRend  *screen.Renderer
	statsEd    *editor.Editor
	statsLines []render.Line

	// Modal state
	pick  *interpreter.PickRequest
	input *interpreter.InputRequest
	field textinput.Model

	// Components
	keys   KeyMap
	styles Styles

	mode   Mode
	width  int
	height int
}

// New creates a new shell Model over the container. The viewport is
// built on the first WindowSizeMsg.
func New(c *app.Container) *Model {
	field := textinput.New()
	field.CharLimit = 200

	return &Model{
		container: c,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		field:     field,
		mode:      ModeShell,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// beginPrompt starts a fresh read on the main viewport, refreshing the
// completion pools first.
func (m *Model) beginPrompt() {
	m.ed.SetCommands(m.container.Main.CommandNames())
	m.ed.SetTags(m.container.Timer.Tags())
	m.ed.BeginRead(render.FormatPrompt(m.container.Timer.Running()), true)
}

// enterStats opens the fullscreen statistics viewport over lines.
func (m *Model) enterStats(lines []render.Line) {
	m.statsLines = lines
	m.statsRend = screen.NewRenderer(m.width, m.height, "", m.container.Logger)
	m.statsRend.WriteLines(lines)
	m.statsRend.WriteLine(render.InfoLine("Enter 'q' or press Ctrl+D to return to main window"), true)
	m.statsEd = editor.New(m.statsRend, m.container.Logger)
	m.statsEd.SetCommands(m.container.Stats.CommandNames())
	m.statsEd.BeginRead(render.Line{{Text: "> ", Attr: render.Prompt}}, true)
	m.mode = ModeStats
}

// leaveStats drops the statistics viewport and resumes the main prompt.
func (m *Model) leaveStats() {
	m.statsRend = nil
	m.statsEd = nil
	m.statsLines = nil
	m.mode = ModeShell
	m.beginPrompt()
}
