package interpreter

import (
	"strings"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/render"
)

// PickRequest asks the shell to present items in a selection menu and
// feed the picked index back. A negative index means the user aborted.
type PickRequest struct {
	Items   []render.Line
	Resolve func(i int) Outcome
}

// InputRequest asks the shell to read one line in an input box and
// feed it back.
type InputRequest struct {
	Prompt string
	Submit func(text string) Outcome
}

// StatsRequest asks the shell to open the statistics sub-shell over
// the given listing.
type StatsRequest struct {
	Lines []render.Line
}

// Outcome is a handler result: lines to paint plus at most one
// continuation for the shell to run.
type Outcome struct {
	Lines []render.Line
	Pick  *PickRequest
	Input *InputRequest
	Stats *StatsRequest
	Quit  bool
}

// Args holds the typed arguments bound for one dispatch.
type Args struct {
	FullName domain.FullName
	From     domain.Endpoint
	To       domain.Endpoint
	Start    time.Time
	End      time.Time
	Format   string
	Topic    string
}

// Param describes one positional argument. Date params consume only
// @-prefixed tokens, the rest only plain tokens.
type Param struct {
	Name     string
	Hint     string
	Bind     func(a *Args, tok string, now time.Time) error
	Optional bool
	Default  string
	DateLike bool
}

// Command is an immutable command descriptor registered at
// interpreter construction.
type Command struct {
	Name        string
	Description string
	Aliases     []string
	Params      []Param
	Handler     func(a Args) Outcome
}

// UsageLine renders the one-line usage of the command.
func (c *Command) UsageLine() string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(c.Name)
	for _, p := range c.Params {
		b.WriteString(" ")
		if p.Optional {
			b.WriteString("[" + strings.ToUpper(p.Name) + "]")
		} else {
			b.WriteString(strings.ToUpper(p.Name))
		}
	}
	return b.String()
}

// Help renders the full help block of the command.
func (c *Command) Help() []render.Line {
	lines := []render.Line{
		render.InfoLine(c.UsageLine()),
		render.InfoLine(c.Description),
	}
	if len(c.Aliases) > 0 {
		lines = append(lines, render.InfoLine("aliases: "+strings.Join(c.Aliases, ", ")))
	}
	for _, p := range c.Params {
		lines = append(lines, render.InfoLine("  "+strings.ToUpper(p.Name)+": "+p.Hint))
	}
	return lines
}
