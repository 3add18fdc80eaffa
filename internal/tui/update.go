package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/editor"
	"github.com/nutshell-sh/nutshell/internal/interpreter"
	"github.com/nutshell-sh/nutshell/internal/render"
	"github.com/nutshell-sh/nutshell/internal/screen"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.rend == nil {
			return m, nil
		}
		switch m.mode {
		case ModeShell:
			return m.handleShellKey(msg)
		case ModePick:
			return m.handlePickKey(msg)
		case ModeInput:
			return m.handleInputKey(msg)
		case ModeStats:
			return m.handleStatsKey(msg)
		}
	}
	return m, nil
}

// handleResize rebuilds the viewports at the new size. Scrollback and
// pending modals do not survive a resize; the prompt does.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.container.Logger.Debug("tui", fmt.Sprintf("resize to %dx%d", msg.Width, msg.Height))

	if m.rend == nil {
		m.rend = screen.NewRenderer(msg.Width, msg.Height, banner, m.container.Logger)
		m.ed = editor.New(m.rend, m.container.Logger)
		m.beginPrompt()
		return m, nil
	}

	m.rend.Reinitialize(msg.Width, msg.Height)
	if m.mode == ModeStats {
		lines := m.statsLines
		m.enterStats(lines)
		return m, nil
	}
	m.pick = nil
	m.input = nil
	m.mode = ModeShell
	m.beginPrompt()
	return m, nil
}

func (m *Model) handleShellKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.ed.HandleKey(msg)
	switch res.Event {
	case editor.EventInterrupted, editor.EventEOF:
		return m.shutdown()
	case editor.EventCommitted:
		out, err := m.container.Main.Interpret(res.Text)
		if err != nil {
			m.writeError(err)
			m.beginPrompt()
			return m, nil
		}
		return m.applyOutcome(out)
	}
	return m, nil
}

// applyOutcome writes an outcome's lines and follows its continuation,
// entering a modal mode or starting the next prompt read.
func (m *Model) applyOutcome(out interpreter.Outcome) (tea.Model, tea.Cmd) {
	if len(out.Lines) > 0 {
		m.rend.WriteLines(out.Lines)
	}
	switch {
	case out.Pick != nil:
		// a single candidate needs no menu
		if len(out.Pick.Items) == 1 {
			return m.applyOutcome(out.Pick.Resolve(0))
		}
		m.pick = out.Pick
		m.mode = ModePick
		return m, nil
	case out.Input != nil:
		m.input = out.Input
		m.field.SetValue("")
		m.field.Focus()
		m.mode = ModeInput
		return m, nil
	case out.Stats != nil:
		m.enterStats(out.Stats.Lines)
		return m, nil
	}
	m.beginPrompt()
	return m, nil
}

func (m *Model) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pick := m.pick
	switch {
	case key.Matches(msg, m.keys.PickAbort):
		m.pick = nil
		m.mode = ModeShell
		return m.applyOutcome(pick.Resolve(-1))
	default:
		i, err := strconv.Atoi(msg.String())
		if err != nil || i < 1 || i > len(pick.Items) {
			return m, nil
		}
		m.pick = nil
		m.mode = ModeShell
		return m.applyOutcome(pick.Resolve(i - 1))
	}
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.InputAbort):
		m.input = nil
		m.mode = ModeShell
		m.beginPrompt()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		input := m.input
		m.input = nil
		m.mode = ModeShell
		return m.applyOutcome(input.Submit(m.field.Value()))
	}
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m *Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.statsEd.HandleKey(msg)
	switch res.Event {
	case editor.EventInterrupted, editor.EventEOF:
		m.leaveStats()
		return m, nil
	case editor.EventCommitted:
		out, err := m.container.Stats.Interpret(res.Text)
		if err != nil {
			var ierr *interpreter.InterpreterError
			if errors.As(err, &ierr) {
				m.statsRend.WriteLines(ierr.Lines())
			} else {
				m.statsRend.WriteLines([]render.Line{render.ErrorLine(err.Error())})
			}
			m.statsEd.BeginRead(render.Line{{Text: "> ", Attr: render.Prompt}}, true)
			return m, nil
		}
		if out.Quit {
			m.leaveStats()
			return m, nil
		}
		if len(out.Lines) > 0 {
			m.statsRend.WriteLines(out.Lines)
		}
		m.statsEd.BeginRead(render.Line{{Text: "> ", Attr: render.Prompt}}, true)
	}
	return m, nil
}

// shutdown stops a still-running task and quits.
func (m *Model) shutdown() (tea.Model, tea.Cmd) {
	if err := m.container.Timer.Stop(); err != nil && !errors.Is(err, domain.ErrNoRunningTask) {
		m.container.Logger.Error("tui", fmt.Sprintf("stop on shutdown: %v", err))
	}
	m.container.Logger.Info("tui", "shutting down")
	return m, tea.Quit
}

func (m *Model) writeError(err error) {
	var ierr *interpreter.InterpreterError
	if errors.As(err, &ierr) {
		m.rend.WriteLines(ierr.Lines())
		return
	}
	m.rend.WriteLines([]render.Line{render.ErrorLine(err.Error())})
}
