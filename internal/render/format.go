package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

// FormatName renders a task name.
func FormatName(name string) Segment {
	return Segment{Text: name, Attr: Name}
}

// FormatTags renders tags as a run of [tag] groups in sorted order.
func FormatTags(tags []string) Segment {
	var b strings.Builder
	for _, tag := range domain.NormalizeTags(tags) {
		if tag == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(tag)
		b.WriteString("]")
	}
	return Segment{Text: b.String(), Attr: Tag}
}

// FormatFullName renders a name followed by its tags.
func FormatFullName(f domain.FullName) Line {
	return Line{FormatName(f.Name), FormatTags(f.Tags)}
}

// FormatTimeSpan renders a start-end pair. With date on, the end
// carries its date and the start carries one too when the task spans
// midnight.
func FormatTimeSpan(start, end time.Time, date bool) Segment {
	var s, e string
	if date {
		if start.Format("2006-01-02") != end.Format("2006-01-02") {
			s = start.Format("2006-01-02 15:04")
		} else {
			s = start.Format("15:04")
		}
		e = end.Format("15:04 2006-01-02")
	} else {
		s = start.Format("15:04")
		e = end.Format("15:04")
	}
	return Segment{Text: s + "-" + e, Attr: TimeSpan}
}

// FormatTotal renders a run time in seconds as (XhYm).
func FormatTotal(total time.Duration) Segment {
	minutes := int(total.Minutes())
	return Segment{
		Text: fmt.Sprintf("(%dh%dm)", minutes/60, minutes%60),
		Attr: Total,
	}
}

// FormatTask renders a finished task as time span, total and full name.
func FormatTask(task domain.Task, now time.Time, date bool) Line {
	end := task.End
	if task.IsRunning() {
		end = now
	}
	line := Line{FormatTimeSpan(task.Start, end, date), FormatTotal(task.Duration(now))}
	return append(line, FormatFullName(task.FullName())...)
}

// FormatSum renders a full name and the summed run time of its tasks.
func FormatSum(f domain.FullName, total time.Duration) Line {
	return append(FormatFullName(f), FormatTotal(total))
}

// FormatRunning renders the open interval of a running task.
func FormatRunning(task domain.Task) Segment {
	return Segment{Text: "(" + task.Start.Format("15:04") + "-)", Attr: TimeSpan}
}

// FormatPrompt renders the shell prompt, prefixed with the running
// task if there is one.
func FormatPrompt(task domain.Task) Line {
	if task.IsZero() {
		return Line{{Text: "~> ", Attr: Prompt}}
	}
	line := FormatFullName(task.FullName())
	line = append(line, FormatRunning(task))
	return append(line, Segment{Text: " ~> ", Attr: Prompt})
}
