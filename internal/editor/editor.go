// Package editor turns key events into committed input lines, with
// in-place editing, history browsing, tab completion and viewport
// scrollback.
package editor

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/render"
	"github.com/nutshell-sh/nutshell/internal/screen"
)

// Event classifies the outcome of one key event.
type Event int

const (
	// EventNone means the editor consumed the key and the read goes on.
	EventNone Event = iota
	// EventCommitted carries the trimmed line after enter.
	EventCommitted
	// EventInterrupted is ctrl+c.
	EventInterrupted
	// EventEOF is ctrl+d.
	EventEOF
)

// Result is the outcome of HandleKey.
type Result struct {
	Text  string
	Event Event
}

// KeyMap defines the editor keybindings.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Backspace  key.Binding
	Tab        key.Binding
	Up         key.Binding
	Down       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Enter      key.Binding
	Interrupt  key.Binding
	EOF        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:       key.NewBinding(key.WithKeys("left")),
		Right:      key.NewBinding(key.WithKeys("right")),
		Backspace:  key.NewBinding(key.WithKeys("backspace")),
		Tab:        key.NewBinding(key.WithKeys("tab")),
		Up:         key.NewBinding(key.WithKeys("up")),
		Down:       key.NewBinding(key.WithKeys("down")),
		ScrollUp:   key.NewBinding(key.WithKeys("ctrl+up")),
		ScrollDown: key.NewBinding(key.WithKeys("ctrl+down")),
		Enter:      key.NewBinding(key.WithKeys("enter")),
		Interrupt:  key.NewBinding(key.WithKeys("ctrl+c")),
		EOF:        key.NewBinding(key.WithKeys("ctrl+d")),
	}
}

// Editor reads one line at a time off a renderer row. One BeginRead
// call starts a read; HandleKey consumes key events until it reports
// a committed line, an interrupt or EOF.
type Editor struct {
	rend   *screen.Renderer
	buf    *screen.Buffer
	logger domain.Logger
	keys   KeyMap

	prompt   render.Line
	commands []string
	tags     []string

	history  []string
	histUp   []string
	histDown []string
	command  string

	minX   int
	scroll bool
}

// New returns an editor bound to rend.
func New(rend *screen.Renderer, logger domain.Logger) *Editor {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Editor{
		rend:   rend,
		buf:    screen.NewBuffer(""),
		logger: logger,
		keys:   DefaultKeyMap(),
	}
}

// SetCommands sets the completion pool for command names.
func (e *Editor) SetCommands(commands []string) { e.commands = commands }

// SetTags refreshes the known-tags completion pool.
func (e *Editor) SetTags(tags []string) { e.tags = tags }

// History returns the committed lines of this session.
func (e *Editor) History() []string { return e.history }

// BeginRead draws the prompt on the current renderer row and resets
// the per-read state. With scroll set, ctrl+up/ctrl+down page through
// the viewport history during the read.
func (e *Editor) BeginRead(prompt render.Line, scroll bool) {
	e.prompt = prompt
	e.scroll = scroll
	e.buf = screen.NewBuffer("")
	e.histUp = append([]string(nil), e.history...)
	e.histDown = nil
	e.command = ""
	y, _ := e.rend.Cursor()
	e.rend.ClearLine(y)
	e.rend.WriteLineAt(y, 0, prompt, false)
	e.minX = len([]rune(prompt.Plain()))
}

// Buffer exposes the line under edit.
func (e *Editor) Buffer() *screen.Buffer { return e.buf }

// HandleKey consumes one key event and reports the read outcome.
func (e *Editor) HandleKey(msg tea.KeyMsg) Result {
	switch {
	case key.Matches(msg, e.keys.Interrupt):
		return Result{Event: EventInterrupted}
	case key.Matches(msg, e.keys.EOF):
		return Result{Event: EventEOF}
	case key.Matches(msg, e.keys.Tab):
		e.complete()
		return Result{}
	case key.Matches(msg, e.keys.Up):
		e.browseHistory(true)
		return Result{}
	case key.Matches(msg, e.keys.Down):
		e.browseHistory(false)
		return Result{}
	case key.Matches(msg, e.keys.ScrollUp):
		if e.scroll {
			y, _ := e.rend.Cursor()
			if y > 2 || e.rend.AboveLen() > 1 {
				e.rend.ScrollUp()
			}
		}
		return Result{}
	case key.Matches(msg, e.keys.ScrollDown):
		if e.scroll && e.rend.ScrollDown() && e.rend.BelowLen() == 0 {
			e.resumeInputRow()
		}
		return Result{}
	}

	// a cursor at the margin means the read was left in scrollback
	if _, x := e.rend.Cursor(); x == 0 {
		e.resumeInputRow()
	}

	switch {
	case key.Matches(msg, e.keys.Enter):
		text := strings.TrimSpace(e.buf.String())
		if text != "" {
			e.history = append(e.history, text)
		}
		e.rend.MoveOrScrollDown()
		return Result{Event: EventCommitted, Text: text}
	case key.Matches(msg, e.keys.Left):
		e.left()
		return Result{}
	case key.Matches(msg, e.keys.Right):
		e.right()
		return Result{}
	case key.Matches(msg, e.keys.Backspace):
		e.backspace()
		return Result{}
	}

	if msg.Type == tea.KeySpace {
		e.insertRune(' ')
		return Result{}
	}
	if msg.Type == tea.KeyRunes && !msg.Alt {
		for _, ch := range msg.Runes {
			if unicode.IsPrint(ch) {
				e.insertRune(ch)
			}
		}
	}
	return Result{}
}

// insertRune places ch at the buffer cursor. At the right edge the
// visible line slides left one column instead of wrapping.
func (e *Editor) insertRune(ch rune) {
	width, _ := e.rend.Size()
	y, x := e.rend.Cursor()
	e.buf.Insert(e.buf.Pos(), ch)
	if x < width-1 {
		e.rend.InsertRune(y, x, ch, render.Default)
		x++
	} else {
		e.rend.DeleteRune(y, e.minX)
		e.rend.InsertRune(y, x-1, ch, render.Default)
	}
	e.rend.MoveCursor(y, x)
}

func (e *Editor) left() {
	y, x := e.rend.Cursor()
	if x > e.minX {
		if e.buf.Move(-1) == nil {
			e.rend.MoveCursor(y, x-1)
		}
		return
	}
	// left edge: slide the window to reveal buffer content before it
	if e.buf.Len() > 0 && e.buf.Pos() > 0 {
		_ = e.buf.Move(-1)
		if ch, err := e.buf.CursorRune(); err == nil {
			e.rend.InsertRune(y, x, ch, render.Default)
		}
	}
}

func (e *Editor) right() {
	width, _ := e.rend.Size()
	y, x := e.rend.Cursor()
	if x < width-1 {
		if e.buf.Pos() < e.buf.Len() {
			_ = e.buf.Move(1)
			e.rend.MoveCursor(y, x+1)
		}
		return
	}
	// right edge: slide the window to reveal buffer content past it
	if e.buf.Pos() < e.buf.Len()-1 {
		e.rend.DeleteRune(y, e.minX)
		_ = e.buf.Move(1)
		if ch, err := e.buf.CursorRune(); err == nil {
			e.rend.InsertRune(y, x, ch, render.Default)
		}
		return
	}
	if last, err := e.buf.At(e.buf.Len() - 1); err == nil && e.rend.RuneAt(y, x) == last {
		e.rend.DeleteRune(y, e.minX)
		_ = e.buf.Move(1)
		e.rend.DeleteRune(y, x)
	}
}

// backspace removes the rune before the cursor and, when the buffer is
// wider than the visible line, re-reveals the next off-screen rune at
// the left edge.
func (e *Editor) backspace() {
	width, _ := e.rend.Size()
	y, x := e.rend.Cursor()
	if x <= e.minX {
		return
	}
	x--
	_, _ = e.buf.Pop(e.buf.Pos() - 1)
	e.rend.DeleteRune(y, x)
	e.rend.MoveCursor(y, x)
	if e.buf.Len() > width-(e.minX+2) && e.buf.Pos() >= x-1 {
		if ch, err := e.buf.At(e.buf.Pos() - x + 1); err == nil {
			e.rend.InsertRune(y, e.minX, ch, render.Default)
			e.rend.MoveCursor(y, x+1)
		}
	}
}

func (e *Editor) complete() {
	y, _ := e.rend.Cursor()
	listed, replaced := Complete(e.buf, e.commands, e.tags)
	if replaced {
		e.rend.ClearLine(y)
		e.rend.WriteLineAt(y, 0, e.inputLine(), false)
		return
	}
	if len(listed) == 0 {
		return
	}
	e.rend.MoveOrScrollDown()
	lines := make([]render.Line, 0, len(listed))
	for _, s := range listed {
		lines = append(lines, render.PlainLine(s))
	}
	e.rend.WriteLines(lines)
	y, _ = e.rend.Cursor()
	e.rend.WriteLineAt(y, 0, e.inputLine(), false)
	e.rend.MoveCursor(y, e.minX+e.buf.Pos())
}

// browseHistory swaps the draft line against the undo/redo stacks and
// redraws the prompt with the recalled command.
func (e *Editor) browseHistory(up bool) {
	if up {
		if len(e.histUp) == 0 {
			return
		}
		e.histDown = append(e.histDown, e.command)
		e.command = e.histUp[len(e.histUp)-1]
		e.histUp = e.histUp[:len(e.histUp)-1]
	} else {
		if len(e.histDown) == 0 {
			return
		}
		e.histUp = append(e.histUp, e.command)
		e.command = e.histDown[len(e.histDown)-1]
		e.histDown = e.histDown[:len(e.histDown)-1]
	}
	e.buf = screen.NewBuffer(e.command)
	y, _ := e.rend.Cursor()
	e.rend.ClearLine(y)
	e.rend.WriteLineAt(y, 0, e.inputLine(), false)
}

// resumeInputRow fast-forwards the viewport back to the input row and
// parks the cursor at the end of its text.
func (e *Editor) resumeInputRow() {
	for e.rend.BelowLen() > 0 {
		e.rend.ScrollDown()
	}
	y, _ := e.rend.Cursor()
	e.rend.MoveCursor(y, len([]rune(e.rend.ScrapeLine(y).Plain())))
}

func (e *Editor) inputLine() render.Line {
	line := append(render.Line{}, e.prompt...)
	if e.buf.Len() > 0 {
		line = append(line, render.Segment{Text: e.buf.String()})
	}
	return line
}
