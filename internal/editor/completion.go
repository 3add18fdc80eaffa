package editor

import (
	"strings"

	"github.com/nutshell-sh/nutshell/internal/screen"
)

// completionPool picks the candidate pool for the buffer contents and
// returns the partial text to complete. Inside an unclosed [ bracket
// the pool switches from commands to known tags.
func completionPool(line string, commands, tags []string) (pool []string, partial string, tag bool) {
	if i := strings.LastIndex(line, "["); i >= 0 && !strings.Contains(line[i+1:], "]") {
		return tags, line[i+1:], true
	}
	return commands, line, false
}

// suggestions returns the candidates whose longest match anchored at
// their start covers all of partial, i.e. the candidates partial is a
// prefix of. An empty partial matches the whole pool.
func suggestions(partial string, pool []string) []string {
	if partial == "" {
		return pool
	}
	var out []string
	for _, c := range pool {
		if strings.HasPrefix(c, partial) {
			out = append(out, c)
		}
	}
	return out
}

// Complete runs tab completion against buf. A single candidate is
// substituted in place, with the cursor left at the new end; several
// candidates are returned for the caller to list; none leaves the
// buffer untouched.
func Complete(buf *screen.Buffer, commands, tags []string) (listed []string, replaced bool) {
	pool, partial, _ := completionPool(buf.String(), commands, tags)
	matched := suggestions(partial, pool)
	switch len(matched) {
	case 0:
		return nil, false
	case 1:
		buf.MoveToEnd()
		for range partial {
			_, _ = buf.PopLast()
		}
		buf.Extend([]rune(matched[0]))
		buf.MoveToEnd()
		return nil, true
	default:
		return matched, false
	}
}
