// Package domain contains core entities of the time tracker.
package domain

import (
	"slices"
	"strings"
	"time"
)

// Task is a named, tagged time interval. A zero End marks the task as
// currently running. The start instant doubles as the task identity:
// no two persisted tasks may share it.
type Task struct {
	Start time.Time
	End   time.Time
	Name  string
	Tags  []string
}

// IsRunning returns true if the task has no end yet.
func (t Task) IsRunning() bool {
	return t.End.IsZero()
}

// IsZero returns true if the task is the empty sentinel.
func (t Task) IsZero() bool {
	return t.Name == "" && len(t.Tags) == 0 && t.Start.IsZero() && t.End.IsZero()
}

// Duration returns the task's run time, using now for running tasks.
func (t Task) Duration(now time.Time) time.Duration {
	end := t.End
	if end.IsZero() {
		end = now
	}
	return end.Sub(t.Start)
}

// FullName returns the task's (name, tags) pair.
func (t Task) FullName() FullName {
	return NewFullName(t.Name, t.Tags...)
}

// FullName is a (name, tag set) pair. It addresses tasks and doubles
// as a query pattern: an empty side acts as a wildcard.
type FullName struct {
	Name string
	Tags []string
}

// NewFullName builds a FullName with a normalized (sorted, unique) tag set.
func NewFullName(name string, tags ...string) FullName {
	return FullName{Name: name, Tags: NormalizeTags(tags)}
}

// NormalizeTags sorts and deduplicates a tag list.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

// IsEmpty returns true if both name and tags are empty.
func (f FullName) IsEmpty() bool {
	return f.Name == "" && len(f.Tags) == 0
}

// IsComplete returns true if both name and tags are set.
func (f FullName) IsComplete() bool {
	return f.Name != "" && len(f.Tags) > 0
}

// Equal compares name and tag set.
func (f FullName) Equal(other FullName) bool {
	return f.Name == other.Name && slices.Equal(NormalizeTags(f.Tags), NormalizeTags(other.Tags))
}

// TagKey returns a stable string key for the tag set, used for grouping.
func (f FullName) TagKey() string {
	return strings.Join(NormalizeTags(f.Tags), "\x1f")
}

// Matches reports whether a task's full name matches the pattern under
// the given mode. Exact requires name and tags to both match. Partial
// matches when the pattern's name equals the task's name OR the
// pattern's tags equal the task's tags, whichever side is non-empty; an
// entirely empty pattern matches everything.
func (f FullName) Matches(task FullName, exact bool) bool {
	if exact {
		return f.Equal(task)
	}
	if f.IsEmpty() {
		return true
	}
	if f.Name != "" && f.Name == task.Name {
		return true
	}
	return len(f.Tags) > 0 && slices.Equal(NormalizeTags(f.Tags), NormalizeTags(task.Tags))
}
