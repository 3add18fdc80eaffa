package tui

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutshell-sh/nutshell/internal/app"
	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/infra/config"
	"github.com/nutshell-sh/nutshell/internal/infra/logging"
	"github.com/nutshell-sh/nutshell/internal/infra/sqlite"
	"github.com/nutshell-sh/nutshell/internal/interpreter"
	"github.com/nutshell-sh/nutshell/internal/timer"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "nutshell.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	tm, err := timer.New(db, nil)
	require.NoError(t, err)

	c := &app.Container{
		Config: config.NewDefaultConfig(),
		Logger: logging.New("", slog.LevelInfo),
		DB:     db,
		Timer:  tm,
		Main:   interpreter.NewMain(tm, nil, nil),
		Stats:  interpreter.NewStats(nil, nil),
	}
	m := New(c)
	send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeLine(m *Model, text string) tea.Cmd {
	for _, r := range text {
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return send(m, tea.KeyMsg{Type: tea.KeyEnter})
}

// viewport returns the main viewport as plain text.
func viewport(m *Model) string {
	return m.rend.View(nil)
}

func addTask(t *testing.T, m *Model, name string, tags []string, offset time.Duration) {
	t.Helper()
	now := time.Now()
	base := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).Add(offset)
	require.NoError(t, m.container.Timer.Add(domain.Task{
		Name: name, Tags: tags,
		Start: base, End: base.Add(time.Minute),
	}))
}

func TestFirstResizeShowsBannerAndPrompt(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, viewport(m), banner)
	assert.Contains(t, viewport(m), "~> ")
	assert.Equal(t, ModeShell, m.mode)
}

func TestStartUpdatesPrompt(t *testing.T) {
	m := newTestModel(t)
	typeLine(m, "start foo[bar]")

	assert.Equal(t, "foo", m.container.Timer.Running().Name)
	assert.Contains(t, viewport(m), "foo[bar]")

	typeLine(m, "stop")
	assert.True(t, m.container.Timer.Running().IsZero())
}

func TestUnknownCommandShowsUsage(t *testing.T) {
	m := newTestModel(t)
	typeLine(m, "bogus")
	assert.Contains(t, viewport(m), `unknown command "bogus"`)
	assert.Contains(t, viewport(m), "usage:")
}

func TestPickFlow(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)
	addTask(t, m, "baz", nil, 5*time.Minute)

	typeLine(m, "remove")
	require.Equal(t, ModePick, m.mode)
	require.Len(t, m.pick.Items, 2)
	assert.Contains(t, m.View(), "1:")

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	assert.Equal(t, ModeShell, m.mode)
	assert.Contains(t, viewport(m), "removed")

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tasks, err := m.container.Timer.List(midnight, midnight, domain.FullName{}, false, true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "baz", tasks[0].Name)
}

func TestPickAbort(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)
	addTask(t, m, "baz", nil, 5*time.Minute)

	typeLine(m, "remove")
	require.Equal(t, ModePick, m.mode)
	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.Equal(t, ModeShell, m.mode)
	assert.Contains(t, viewport(m), "aborted removing task")
}

func TestSingleCandidateSkipsMenu(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)

	typeLine(m, "remove foo")
	assert.Equal(t, ModeShell, m.mode)
	assert.Contains(t, viewport(m), "removed")
}

func TestEditInputFlow(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)

	// single matching task, so edit goes straight to the field menu
	typeLine(m, "edit")
	require.Equal(t, ModePick, m.mode)
	require.Len(t, m.pick.Items, 4)

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	require.Equal(t, ModeInput, m.mode)
	assert.Contains(t, m.View(), "new name >")

	for _, r := range "quux" {
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeShell, m.mode)
	assert.Contains(t, viewport(m), "quux")
}

func TestInputAbort(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)

	typeLine(m, "edit")
	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	require.Equal(t, ModeInput, m.mode)

	send(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ModeShell, m.mode)
}

func TestStatsFlow(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)

	typeLine(m, "show_stats")
	require.Equal(t, ModeStats, m.mode)
	assert.Contains(t, m.statsRend.View(nil), "OVERVIEW")
	assert.Contains(t, m.statsRend.View(nil), "Ctrl+D to return")

	typeLine(m, "q")
	assert.Equal(t, ModeShell, m.mode)
	assert.Contains(t, viewport(m), "~> ")
}

func TestStatsLeavesOnEOF(t *testing.T) {
	m := newTestModel(t)
	typeLine(m, "show_stats")
	require.Equal(t, ModeStats, m.mode)

	send(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, ModeShell, m.mode)
}

func TestQuitStopsRunningTask(t *testing.T) {
	m := newTestModel(t)
	typeLine(m, "start foo[bar]")
	require.Equal(t, "foo", m.container.Timer.Running().Name)

	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.True(t, m.container.Timer.Running().IsZero())
}

func TestResizeRecoversPrompt(t *testing.T) {
	m := newTestModel(t)
	addTask(t, m, "foo", []string{"bar"}, 0)
	typeLine(m, "list")

	send(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Equal(t, ModeShell, m.mode)
	assert.Contains(t, viewport(m), "~> ")
	assert.NotContains(t, viewport(m), "foo", "scrollback does not survive a resize")

	// the shell still works after the resize
	typeLine(m, "list")
	assert.Contains(t, viewport(m), "foo")
}
