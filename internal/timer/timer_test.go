package timer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/infra/sqlite"
)

func newTestTimer(t *testing.T) *Timer {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "nutshell.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	tm, err := New(db, nil)
	require.NoError(t, err)
	return tm
}

// noon today, so every fixture interval stays within one calendar day
func noon() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
}

func TestRunningTaskExclusivity(t *testing.T) {
	tm := newTestTimer(t)
	at := noon()
	tm.now = func() time.Time { at = at.Add(time.Minute); return at }

	require.NoError(t, tm.Start(domain.NewFullName("foo", "bar")))
	assert.Equal(t, "foo", tm.Running().Name)
	assert.ErrorIs(t, tm.Start(domain.NewFullName("baz")), domain.ErrAlreadyRunning)

	require.NoError(t, tm.Stop())
	assert.True(t, tm.Running().IsZero())
	assert.ErrorIs(t, tm.Stop(), domain.ErrNoRunningTask)

	require.NoError(t, tm.Start(domain.NewFullName("baz")))
}

func TestStartInstantIdentity(t *testing.T) {
	tm := newTestTimer(t)
	start := noon()

	require.NoError(t, tm.Add(domain.Task{Name: "foo", Start: start, End: start.Add(time.Hour)}))
	assert.ErrorIs(t,
		tm.Add(domain.Task{Name: "bar", Tags: []string{"x"}, Start: start, End: start.Add(2 * time.Hour)}),
		domain.ErrDuplicateStart)

	tm.now = func() time.Time { return start }
	assert.ErrorIs(t, tm.Start(domain.NewFullName("baz")), domain.ErrDuplicateStart)
}

func TestAddRejectsInvalidInterval(t *testing.T) {
	tm := newTestTimer(t)
	start := noon()
	err := tm.Add(domain.Task{Name: "foo", Start: start, End: start})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func addFixture(t *testing.T, tm *Timer) {
	t.Helper()
	base := noon()
	require.NoError(t, tm.Add(domain.Task{
		Name: "foo", Tags: []string{"bar"},
		Start: base, End: base.Add(time.Minute),
	}))
	require.NoError(t, tm.Add(domain.Task{
		Name:  "foo",
		Start: base.Add(5 * time.Minute), End: base.Add(6 * time.Minute),
	}))
	require.NoError(t, tm.Add(domain.Task{
		Name: "foobar", Tags: []string{"bar", "toto"},
		Start: base.Add(10 * time.Minute), End: base.Add(11 * time.Minute),
	}))
}

func TestListMatchModes(t *testing.T) {
	tm := newTestTimer(t)
	addFixture(t, tm)
	day := noon()

	exact, err := tm.List(day, day, domain.NewFullName("foo", "bar"), true, true)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "foo", exact[0].Name)
	assert.Equal(t, []string{"bar"}, exact[0].Tags)

	partial, err := tm.List(day, day, domain.NewFullName("foo", "bar"), false, true)
	require.NoError(t, err)
	require.Len(t, partial, 2, "name or tags may match")
	assert.Equal(t, "foo", partial[0].Name)
	assert.Equal(t, "foo", partial[1].Name)

	all, err := tm.List(day, day, domain.FullName{}, false, true)
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty full name matches everything")
}

func TestSumAggregation(t *testing.T) {
	tm := newTestTimer(t)
	addFixture(t, tm)
	day := noon()

	byName, err := tm.Sum(day, day, domain.FullName{Name: "foo"}, false)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, domain.FullName{Name: "foo"}, byName[0].FullName)
	assert.Equal(t, 2*time.Minute, byName[0].Total)

	byTags, err := tm.Sum(day, day, domain.FullName{Tags: []string{"bar"}}, false)
	require.NoError(t, err)
	require.Len(t, byTags, 1)
	assert.Equal(t, time.Minute, byTags[0].Total, "only the exact tag set groups")

	exact, err := tm.Sum(day, day, domain.NewFullName("foo", "bar"), true)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, time.Minute, exact[0].Total)
}

func TestEditRoundTrip(t *testing.T) {
	tm := newTestTimer(t)
	addFixture(t, tm)
	day := noon()

	tasks, err := tm.List(day, day, domain.NewFullName("foo", "bar"), true, true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	edited, err := tm.EditTags(tasks[0], []string{"qux", "bar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "qux"}, edited.Tags)

	back, err := tm.List(day, day, domain.NewFullName("foo", "bar", "qux"), true, true)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, []string{"bar", "qux"}, back[0].Tags)

	newStart := back[0].Start.Add(-30 * time.Minute)
	moved, err := tm.EditStart(back[0], newStart)
	require.NoError(t, err)
	assert.True(t, moved.Start.Equal(newStart))

	again, err := tm.List(day, day, domain.NewFullName("foo", "bar", "qux"), true, true)
	require.NoError(t, err)
	require.Len(t, again, 1, "the re-keyed task keeps its name and tags")
	assert.True(t, again[0].Start.Equal(newStart), "the old key matches nothing")
}

func TestEditGuards(t *testing.T) {
	tm := newTestTimer(t)
	at := noon()
	tm.now = func() time.Time { return at }
	require.NoError(t, tm.Start(domain.NewFullName("foo")))
	running := tm.Running()

	_, err := tm.EditStart(running, at.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrCannotEditRunningTimes)
	_, err = tm.EditEnd(running, at.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrCannotEditRunningTimes)

	assert.ErrorIs(t, tm.Remove(running), domain.ErrCannotRemoveRunning)

	edited, err := tm.EditName(running, "bar")
	require.NoError(t, err)
	assert.Equal(t, "bar", edited.Name)
	assert.Equal(t, "bar", tm.Running().Name, "running task updates in place")
}

func TestEditEndValidation(t *testing.T) {
	tm := newTestTimer(t)
	addFixture(t, tm)
	day := noon()
	tasks, err := tm.List(day, day, domain.NewFullName("foo", "bar"), true, true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	_, err = tm.EditEnd(tasks[0], tasks[0].Start)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	_, err = tm.EditStart(tasks[0], tasks[0].End)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestListBuggyExcludesLiveRunningTask(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "nutshell.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tm, err := New(db, nil)
	require.NoError(t, err)
	at := noon()
	tm.now = func() time.Time { return at }
	require.NoError(t, tm.Start(domain.NewFullName("orphan", "x")))

	// a fresh session does not know about the open row anymore
	tm2, err := New(db, nil)
	require.NoError(t, err)
	buggy, err := tm2.ListBuggy()
	require.NoError(t, err)
	require.Len(t, buggy, 1)
	assert.Equal(t, "orphan", buggy[0].Name)
	assert.Equal(t, []string{"x"}, buggy[0].Tags)

	// the session that owns the running task does not report it
	buggy, err = tm.ListBuggy()
	require.NoError(t, err)
	assert.Empty(t, buggy)
}

func TestTagsCache(t *testing.T) {
	tm := newTestTimer(t)
	assert.Empty(t, tm.Tags())
	addFixture(t, tm)
	assert.Equal(t, []string{"bar", "toto"}, tm.Tags())
}

func TestExportJSON(t *testing.T) {
	tm := newTestTimer(t)
	addFixture(t, tm)
	day := noon()
	tm.now = func() time.Time { return day }

	path, err := tm.Export(FormatJSON, day, day, domain.FullName{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })
	assert.Equal(t, day.Format("20060102")+".json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "foo", records[0].Name)
	assert.Equal(t, []string{"bar"}, records[0].Tags)
	assert.Empty(t, records[1].Tags)
}

func TestExportCSVOneRowPerTag(t *testing.T) {
	tm := newTestTimer(t)
	addFixture(t, tm)
	day := noon()
	tm.now = func() time.Time { return day }

	path, err := tm.Export(FormatCSV, day, day, domain.FullName{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	// foo[bar] + foo (empty tag column) + foobar[bar] + foobar[toto]
	assert.Equal(t, 4, lines)
}
