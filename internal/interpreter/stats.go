package interpreter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/render"
)

// stats builds the statistics listing: heading, task listing, distinct
// tag sets, and total runtimes per full name and per tag set.
func (b *builder) stats(a Args) ([]render.Line, error) {
	now := b.now()
	from := a.From.Resolve(now)
	to := a.To.Resolve(now)
	tasks, err := b.tm.List(from, to, domain.FullName{}, false, true)
	if err != nil {
		return nil, err
	}

	// with "all" the heading starts at the earliest recorded task
	headFrom := from
	if a.From.Keyword == domain.PeriodAll && len(tasks) > 0 {
		headFrom = tasks[0].Start
	}
	heading := "overview " + headFrom.Format("Mon 02 Jan 2006")
	if !sameDay(headFrom, to) {
		heading += " - " + to.Format("Mon 02 Jan 2006")
	}
	heading = strings.ToUpper(heading)

	date := !sameDay(from, to)
	lines := []render.Line{
		render.PlainLine(heading),
		render.PlainLine(strings.Repeat("-", len(heading))),
		render.PlainLine(""),
		render.PlainLine(fmt.Sprintf("%d task(s)", len(tasks))),
	}
	for _, task := range tasks {
		lines = append(lines, render.FormatTask(task, now, date))
	}

	// distinct tag sets, smallest first
	seen := map[string][]string{}
	var keys []string
	for _, task := range tasks {
		if len(task.Tags) == 0 {
			continue
		}
		key := task.FullName().TagKey()
		if _, ok := seen[key]; !ok {
			seen[key] = task.Tags
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(seen[keys[i]]) != len(seen[keys[j]]) {
			return len(seen[keys[i]]) < len(seen[keys[j]])
		}
		return keys[i] < keys[j]
	})
	lines = append(lines,
		render.PlainLine(""),
		render.PlainLine(fmt.Sprintf("%d tag(s)", len(keys))),
	)
	for _, key := range keys {
		lines = append(lines, render.Line{render.FormatTags(seen[key])})
	}

	lines = append(lines, render.PlainLine(""), render.PlainLine("Total runtime task(s)"))
	lines = append(lines, b.totals(tasks, func(t domain.Task) domain.FullName {
		return t.FullName()
	})...)

	lines = append(lines, render.PlainLine(""), render.PlainLine("Total runtime tag(s)"))
	lines = append(lines, b.totals(tasks, func(t domain.Task) domain.FullName {
		return domain.FullName{Tags: t.Tags}
	})...)
	return lines, nil
}

// totals aggregates task durations per group key, longest first.
func (b *builder) totals(tasks []domain.Task, group func(domain.Task) domain.FullName) []render.Line {
	now := b.now()
	entries := map[string]*struct {
		f     domain.FullName
		total int64
	}{}
	var order []string
	for _, task := range tasks {
		f := group(task)
		if f.IsEmpty() {
			continue
		}
		key := f.Name + "\x00" + f.TagKey()
		e, ok := entries[key]
		if !ok {
			e = &struct {
				f     domain.FullName
				total int64
			}{f: f}
			entries[key] = e
			order = append(order, key)
		}
		e.total += int64(task.Duration(now).Seconds())
	}
	sort.SliceStable(order, func(i, j int) bool {
		return entries[order[i]].total > entries[order[j]].total
	})
	lines := make([]render.Line, 0, len(order))
	for _, key := range order {
		e := entries[key]
		lines = append(lines, render.FormatSum(e.f, time.Duration(e.total)*time.Second))
	}
	return lines
}
