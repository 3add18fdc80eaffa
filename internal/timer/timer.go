// Package timer implements the task store: interval bookkeeping with
// invariant enforcement on top of the sqlite layer.
package timer

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/infra/sqlite"
)

// SumEntry is one aggregated run time group.
type SumEntry struct {
	FullName domain.FullName
	Total    time.Duration
}

// Timer owns the running task and enforces the interval invariants:
// unique start instants, end after start, at most one running task.
type Timer struct {
	db      *sqlite.DB
	logger  domain.Logger
	now     func() time.Time
	tags    []string
	running domain.Task
}

// New returns a timer backed by db.
func New(db *sqlite.DB, logger domain.Logger) (*Timer, error) {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	t := &Timer{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().Truncate(time.Second) },
	}
	if err := t.cacheTags(); err != nil {
		return nil, err
	}
	return t, nil
}

// Running returns the running task, zero if none.
func (t *Timer) Running() domain.Task { return t.running }

// Tags returns the known-tags cache, refreshed on every mutation.
func (t *Timer) Tags() []string { return t.tags }

func (t *Timer) cacheTags() error {
	rows, err := t.db.Query(`SELECT DISTINCT(tag) FROM tagged ORDER BY tag`)
	if err != nil {
		return err
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	t.tags = tags
	return rows.Err()
}

func (t *Timer) startExists(start time.Time) (bool, error) {
	var one int
	err := t.db.QueryRow(`SELECT 1 FROM time_span WHERE start = ?`, start.Unix()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &sqlite.StatementError{SQL: "SELECT 1 FROM time_span WHERE start = ?", Err: err}
	}
	return true, nil
}

// Start opens a new running interval at now.
func (t *Timer) Start(f domain.FullName) error {
	if t.running.IsRunning() && !t.running.IsZero() {
		return domain.ErrAlreadyRunning
	}
	start := t.now()
	if exists, err := t.startExists(start); err != nil {
		return err
	} else if exists {
		return domain.ErrDuplicateStart
	}
	if _, err := t.db.Exec(`INSERT INTO time_span (start) VALUES (?)`, start.Unix()); err != nil {
		return err
	}
	if _, err := t.db.Exec(`INSERT INTO running (name,start) VALUES (?,?)`, f.Name, start.Unix()); err != nil {
		return err
	}
	for _, tag := range domain.NormalizeTags(f.Tags) {
		if _, err := t.db.Exec(`INSERT INTO tagged (tag,start) VALUES (?,?)`, tag, start.Unix()); err != nil {
			return err
		}
	}
	t.running = domain.Task{Name: f.Name, Tags: domain.NormalizeTags(f.Tags), Start: start}
	return t.cacheTags()
}

// Stop closes the running interval at now.
func (t *Timer) Stop() error {
	if t.running.IsZero() {
		return domain.ErrNoRunningTask
	}
	if _, err := t.db.Exec(
		`UPDATE time_span SET "end" = ? WHERE start = ?`,
		t.now().Unix(), t.running.Start.Unix(),
	); err != nil {
		return err
	}
	t.running = domain.Task{}
	return nil
}

// Add persists a closed interval. It never touches the running task.
func (t *Timer) Add(task domain.Task) error {
	if !task.End.After(task.Start) {
		return domain.ErrInvalidInterval
	}
	if exists, err := t.startExists(task.Start); err != nil {
		return err
	} else if exists {
		return domain.ErrDuplicateStart
	}
	if _, err := t.db.Exec(
		`INSERT INTO time_span (start,"end") VALUES (?,?)`,
		task.Start.Unix(), task.End.Unix(),
	); err != nil {
		return err
	}
	if _, err := t.db.Exec(`INSERT INTO running (name,start) VALUES (?,?)`, task.Name, task.Start.Unix()); err != nil {
		return err
	}
	for _, tag := range domain.NormalizeTags(task.Tags) {
		if _, err := t.db.Exec(`INSERT INTO tagged (tag,start) VALUES (?,?)`, tag, task.Start.Unix()); err != nil {
			return err
		}
	}
	return t.cacheTags()
}

// Remove deletes the rows keyed by the task's start instant.
func (t *Timer) Remove(task domain.Task) error {
	if !t.running.IsZero() && t.running.Start.Equal(task.Start) {
		return domain.ErrCannotRemoveRunning
	}
	for _, table := range []string{"running", "tagged", "time_span"} {
		if _, err := t.db.Exec(
			fmt.Sprintf(`DELETE FROM %s WHERE start = ?`, table),
			task.Start.Unix(),
		); err != nil {
			return err
		}
	}
	return t.cacheTags()
}

// isRunningTask reports whether the start instant keys the running
// task, in which name/tags edits must update it in place.
func (t *Timer) isRunningTask(start time.Time) bool {
	return !t.running.IsZero() && t.running.Start.Equal(start)
}

// EditName renames the task.
func (t *Timer) EditName(task domain.Task, name string) (domain.Task, error) {
	if _, err := t.db.Exec(
		`UPDATE running SET name = ? WHERE start = ?`,
		name, task.Start.Unix(),
	); err != nil {
		return domain.Task{}, err
	}
	task.Name = name
	if t.isRunningTask(task.Start) {
		t.running.Name = name
	}
	return task, t.cacheTags()
}

// EditTags replaces the task's tag set.
func (t *Timer) EditTags(task domain.Task, tags []string) (domain.Task, error) {
	tags = domain.NormalizeTags(tags)
	if _, err := t.db.Exec(`DELETE FROM tagged WHERE start = ?`, task.Start.Unix()); err != nil {
		return domain.Task{}, err
	}
	for _, tag := range tags {
		if _, err := t.db.Exec(`INSERT INTO tagged (tag,start) VALUES (?,?)`, tag, task.Start.Unix()); err != nil {
			return domain.Task{}, err
		}
	}
	task.Tags = tags
	if t.isRunningTask(task.Start) {
		t.running.Tags = tags
	}
	return task, t.cacheTags()
}

// EditEnd moves the task's end instant.
func (t *Timer) EditEnd(task domain.Task, end time.Time) (domain.Task, error) {
	if t.isRunningTask(task.Start) {
		return domain.Task{}, domain.ErrCannotEditRunningTimes
	}
	if !end.After(task.Start) {
		return domain.Task{}, domain.ErrInvalidInterval
	}
	if _, err := t.db.Exec(
		`UPDATE time_span SET "end" = ? WHERE start = ?`,
		end.Unix(), task.Start.Unix(),
	); err != nil {
		return domain.Task{}, err
	}
	task.End = end
	return task, nil
}

// EditStart re-keys the task's three records atomically.
func (t *Timer) EditStart(task domain.Task, start time.Time) (domain.Task, error) {
	if t.isRunningTask(task.Start) {
		return domain.Task{}, domain.ErrCannotEditRunningTimes
	}
	if !task.End.After(start) {
		return domain.Task{}, domain.ErrInvalidInterval
	}
	if exists, err := t.startExists(start); err != nil {
		return domain.Task{}, err
	} else if exists {
		return domain.Task{}, domain.ErrDuplicateStart
	}
	tx, err := t.db.Begin()
	if err != nil {
		return domain.Task{}, err
	}
	for _, table := range []string{"time_span", "running", "tagged"} {
		stmt := fmt.Sprintf(`UPDATE %s SET start = ? WHERE start = ?`, table)
		if _, err := tx.Exec(stmt, start.Unix(), task.Start.Unix()); err != nil {
			_ = tx.Rollback()
			return domain.Task{}, &sqlite.StatementError{SQL: stmt, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit start edit: %w", err)
	}
	task.Start = start
	return task, nil
}

// List returns the tasks whose start date falls within [from, to] by
// calendar date, filtered by f under exact or partial matching.
func (t *Timer) List(from, to time.Time, f domain.FullName, exact, includeRunning bool) ([]domain.Task, error) {
	rows, err := t.db.Query(
		`SELECT time_span.start, time_span."end", name, tag
		 FROM time_span
		 JOIN running ON time_span.start = running.start
		 LEFT JOIN tagged ON time_span.start = tagged.start
		 WHERE date(time_span.start,'unixepoch','localtime')
		   BETWEEN date(?,'unixepoch','localtime')
		   AND date(?,'unixepoch','localtime')
		 ORDER BY time_span.start`,
		from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := t.collect(rows)
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for _, task := range tasks {
		if !includeRunning && t.isRunningTask(task.Start) {
			continue
		}
		if exact {
			if !f.Equal(task.FullName()) {
				continue
			}
		} else if !f.Matches(task.FullName(), false) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

// ListBuggy returns persisted open intervals other than the live
// running task, i.e. rows orphaned by an abnormal termination.
func (t *Timer) ListBuggy() ([]domain.Task, error) {
	rows, err := t.db.Query(
		`SELECT running.start, time_span."end", name, tag
		 FROM running
		 LEFT JOIN tagged ON running.start = tagged.start
		 JOIN time_span ON time_span.start = running.start
		 WHERE time_span."end" IS NULL
		 ORDER BY running.start`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := t.collect(rows)
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for _, task := range tasks {
		if t.isRunningTask(task.Start) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

// collect groups joined rows by start instant into tasks.
func (t *Timer) collect(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	byStart := map[int64]int{}
	for rows.Next() {
		var start int64
		var end sql.NullInt64
		var name string
		var tag sql.NullString
		if err := rows.Scan(&start, &end, &name, &tag); err != nil {
			return nil, err
		}
		i, ok := byStart[start]
		if !ok {
			task := domain.Task{Name: name, Start: time.Unix(start, 0)}
			if end.Valid {
				task.End = time.Unix(end.Int64, 0)
			}
			tasks = append(tasks, task)
			i = len(tasks) - 1
			byStart[start] = i
		}
		if tag.Valid && tag.String != "" {
			tasks[i].Tags = append(tasks[i].Tags, tag.String)
		}
	}
	for i := range tasks {
		tasks[i].Tags = domain.NormalizeTags(tasks[i].Tags)
	}
	return tasks, rows.Err()
}

// Sum aggregates run times: grouped by full name when both sides of f
// are given, by name alone for a name-only f, by tag set alone for a
// tags-only f. The result order is unspecified.
func (t *Timer) Sum(from, to time.Time, f domain.FullName, exact bool) ([]SumEntry, error) {
	tasks, err := t.List(from, to, f, exact, true)
	if err != nil {
		return nil, err
	}
	now := t.now()
	totals := map[string]*SumEntry{}
	var order []string
	accumulate := func(key string, group domain.FullName, d time.Duration) {
		e, ok := totals[key]
		if !ok {
			e = &SumEntry{FullName: group}
			totals[key] = e
			order = append(order, key)
		}
		e.Total += d
	}
	for _, task := range tasks {
		d := task.Duration(now)
		switch {
		case f.IsComplete():
			key := task.Name + "\x00" + task.FullName().TagKey()
			accumulate(key, task.FullName(), d)
		case f.Name != "":
			accumulate(task.Name, domain.FullName{Name: task.Name}, d)
		case len(f.Tags) > 0:
			key := task.FullName().TagKey()
			accumulate(key, domain.FullName{Tags: task.Tags}, d)
		}
	}
	out := make([]SumEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	return out, nil
}
