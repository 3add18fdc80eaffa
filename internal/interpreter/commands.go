package interpreter

import (
	"fmt"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/render"
	"github.com/nutshell-sh/nutshell/internal/timer"
)

// Aliases maps canonical command names to user-defined alias tokens.
type Aliases map[string][]string

// builder wires the main command set to the timer.
type builder struct {
	tm      *timer.Timer
	aliases Aliases
	now     func() time.Time
}

// NewMain builds the main shell interpreter over tm.
func NewMain(tm *timer.Timer, aliases Aliases, now func() time.Time) *Interpreter {
	if now == nil {
		now = time.Now
	}
	b := &builder{tm: tm, aliases: aliases, now: now}
	return New([]*Command{
		b.start(),
		b.stop(),
		b.add(),
		b.remove(),
		b.edit(),
		b.list(),
		b.cleanUp(),
		b.sum(),
		b.export(),
		b.showStats(),
	}, now)
}

// NewStats builds the statistics sub-shell interpreter.
func NewStats(aliases Aliases, now func() time.Time) *Interpreter {
	quit := &Command{
		Name:        "quit",
		Description: "return to main window",
		Aliases:     append([]string{"q"}, aliases["quit"]...),
		Handler:     func(Args) Outcome { return Outcome{Quit: true} },
	}
	return New([]*Command{quit}, now)
}

// Param constructors shared by the command set.

func fullNameParam(optional bool) Param {
	return Param{
		Name:     "full name",
		Hint:     hintFullName,
		Optional: optional,
		Bind: func(a *Args, tok string, _ time.Time) error {
			f, err := parseFullName(tok)
			if err != nil {
				return err
			}
			a.FullName = f
			return nil
		},
	}
}

func summandParam() Param {
	return Param{
		Name: "summand",
		Hint: hintSummand,
		Bind: func(a *Args, tok string, _ time.Time) error {
			f, err := parseSummand(tok)
			if err != nil {
				return err
			}
			a.FullName = f
			return nil
		},
	}
}

func fromParam() Param {
	return Param{
		Name:     "from",
		Hint:     hintFrom,
		Optional: true,
		Default:  "@today",
		DateLike: true,
		Bind: func(a *Args, tok string, now time.Time) error {
			e, err := parseFrom(tok, now)
			if err != nil {
				return err
			}
			a.From = e
			return nil
		},
	}
}

func toParam() Param {
	return Param{
		Name:     "to",
		Hint:     hintTo,
		Optional: true,
		Default:  "@today",
		DateLike: true,
		Bind: func(a *Args, tok string, now time.Time) error {
			e, err := parseTo(tok, now)
			if err != nil {
				return err
			}
			a.To = e
			return nil
		},
	}
}

func instantParam(name string, bind func(a *Args, t time.Time)) Param {
	return Param{
		Name:     name,
		Hint:     hintInstant,
		DateLike: true,
		Bind: func(a *Args, tok string, now time.Time) error {
			t, err := parseInstant(name, tok, now)
			if err != nil {
				return err
			}
			bind(a, t)
			return nil
		},
	}
}

func errorOutcome(err error) Outcome {
	return Outcome{Lines: []render.Line{render.ErrorLine(err.Error())}}
}

func infoOutcome(msg string) Outcome {
	return Outcome{Lines: []render.Line{render.InfoLine(msg)}}
}

// resolveRange converts the from/to endpoints to concrete instants.
func (b *builder) resolveRange(a Args) (from, to time.Time, date bool) {
	now := b.now()
	from = a.From.Resolve(now)
	to = a.To.Resolve(now)
	date = !sameDay(from, to)
	return from, to, date
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (b *builder) start() *Command {
	return &Command{
		Name:        "start",
		Description: "start task",
		Aliases:     b.aliases["start"],
		Params:      []Param{fullNameParam(false)},
		Handler: func(a Args) Outcome {
			if err := b.tm.Start(a.FullName); err != nil {
				return errorOutcome(err)
			}
			return Outcome{}
		},
	}
}

func (b *builder) stop() *Command {
	return &Command{
		Name:        "stop",
		Description: "stop task",
		Aliases:     b.aliases["stop"],
		Handler: func(Args) Outcome {
			if err := b.tm.Stop(); err != nil {
				return infoOutcome("no running task")
			}
			return Outcome{}
		},
	}
}

func (b *builder) add() *Command {
	return &Command{
		Name:        "add",
		Description: "add task",
		Aliases:     b.aliases["add"],
		Params: []Param{
			fullNameParam(false),
			instantParam("start", func(a *Args, t time.Time) { a.Start = t }),
			instantParam("end", func(a *Args, t time.Time) { a.End = t }),
		},
		Handler: func(a Args) Outcome {
			task := domain.Task{
				Name:  a.FullName.Name,
				Tags:  a.FullName.Tags,
				Start: a.Start,
				End:   a.End,
			}
			if err := b.tm.Add(task); err != nil {
				return errorOutcome(err)
			}
			return Outcome{Lines: []render.Line{render.FormatTask(task, b.now(), true)}}
		},
	}
}

// pickTask lists the matching tasks and hands them to the shell's
// selection menu.
func (b *builder) pickTask(a Args, resolve func(task domain.Task, item render.Line) Outcome, abort string) Outcome {
	from, to, date := b.resolveRange(a)
	tasks, err := b.tm.List(from, to, a.FullName, false, true)
	if err != nil {
		return errorOutcome(err)
	}
	if len(tasks) == 0 {
		return errorOutcome(fmt.Errorf("no task"))
	}
	items := make([]render.Line, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, render.FormatTask(task, b.now(), date))
	}
	return Outcome{Pick: &PickRequest{
		Items: items,
		Resolve: func(i int) Outcome {
			if i < 0 || i >= len(tasks) {
				return infoOutcome(abort)
			}
			return resolve(tasks[i], items[i])
		},
	}}
}

func (b *builder) remove() *Command {
	return &Command{
		Name:        "remove",
		Description: "remove task",
		Aliases:     b.aliases["remove"],
		Params:      []Param{fullNameParam(true), fromParam(), toParam()},
		Handler: func(a Args) Outcome {
			return b.pickTask(a, func(task domain.Task, item render.Line) Outcome {
				if err := b.tm.Remove(task); err != nil {
					return errorOutcome(err)
				}
				return infoOutcome("removed " + item.Plain())
			}, "aborted removing task")
		},
	}
}

// editFields in menu order, each with the parser applied to the input
// box line.
var editFields = []string{"name", "tags", "start", "end"}

func (b *builder) edit() *Command {
	return &Command{
		Name:        "edit",
		Description: "edit task",
		Aliases:     b.aliases["edit"],
		Params:      []Param{fullNameParam(true), fromParam(), toParam()},
		Handler: func(a Args) Outcome {
			return b.pickTask(a, func(task domain.Task, _ render.Line) Outcome {
				items := make([]render.Line, 0, len(editFields))
				for _, f := range editFields {
					items = append(items, render.PlainLine(f))
				}
				return Outcome{Pick: &PickRequest{
					Items: items,
					Resolve: func(i int) Outcome {
						if i < 0 || i >= len(editFields) {
							return infoOutcome("aborted editing task")
						}
						field := editFields[i]
						return Outcome{Input: &InputRequest{
							Prompt: "new " + field + " >",
							Submit: func(text string) Outcome {
								return b.applyEdit(task, field, text)
							},
						}}
					},
				}}
			}, "aborted editing task")
		},
	}
}

// applyEdit parses the input box line for the field and applies it.
func (b *builder) applyEdit(task domain.Task, field, text string) Outcome {
	var (
		edited domain.Task
		err    error
	)
	switch field {
	case "name":
		var name string
		if name, err = parseName(text); err == nil {
			edited, err = b.tm.EditName(task, name)
		}
	case "tags":
		var tags []string
		if tags, err = parseTags(text); err == nil {
			edited, err = b.tm.EditTags(task, tags)
		}
	case "start":
		var t time.Time
		if t, err = parseInstantBody("start", text, b.now()); err == nil {
			edited, err = b.tm.EditStart(task, t)
		}
	case "end":
		var t time.Time
		if t, err = parseInstantBody("end", text, b.now()); err == nil {
			edited, err = b.tm.EditEnd(task, t)
		}
	default:
		err = domain.ErrUnknownEditField
	}
	if err != nil {
		return errorOutcome(err)
	}
	return Outcome{Lines: []render.Line{render.FormatTask(edited, b.now(), true)}}
}

func (b *builder) list() *Command {
	return &Command{
		Name:        "list",
		Description: "list tasks",
		Aliases:     b.aliases["list"],
		Params:      []Param{fullNameParam(true), fromParam(), toParam()},
		Handler: func(a Args) Outcome {
			from, to, date := b.resolveRange(a)
			tasks, err := b.tm.List(from, to, a.FullName, false, true)
			if err != nil {
				return errorOutcome(err)
			}
			lines := make([]render.Line, 0, len(tasks))
			for _, task := range tasks {
				lines = append(lines, render.FormatTask(task, b.now(), date))
			}
			return Outcome{Lines: lines}
		},
	}
}

func (b *builder) cleanUp() *Command {
	return &Command{
		Name:        "clean_up",
		Description: "list and remove buggy tasks",
		Aliases:     b.aliases["clean_up"],
		Handler: func(Args) Outcome {
			tasks, err := b.tm.ListBuggy()
			if err != nil {
				return errorOutcome(err)
			}
			if len(tasks) == 0 {
				return infoOutcome("no buggy tasks")
			}
			items := make([]render.Line, 0, len(tasks))
			for _, task := range tasks {
				items = append(items, render.FormatTask(task, b.now(), true))
			}
			return Outcome{Pick: &PickRequest{
				Items: items,
				Resolve: func(i int) Outcome {
					if i < 0 || i >= len(tasks) {
						return infoOutcome("aborted cleaning up")
					}
					if err := b.tm.Remove(tasks[i]); err != nil {
						return errorOutcome(err)
					}
					return infoOutcome("removed " + items[i].Plain())
				},
			}}
		},
	}
}

func (b *builder) sum() *Command {
	return &Command{
		Name:        "sum",
		Description: "sum up total time",
		Aliases:     b.aliases["sum"],
		Params:      []Param{summandParam(), fromParam(), toParam()},
		Handler: func(a Args) Outcome {
			from, to, _ := b.resolveRange(a)
			entries, err := b.tm.Sum(from, to, a.FullName, a.FullName.IsComplete())
			if err != nil {
				return errorOutcome(err)
			}
			lines := make([]render.Line, 0, len(entries))
			for _, e := range entries {
				lines = append(lines, render.FormatSum(e.FullName, e.Total))
			}
			return Outcome{Lines: lines}
		},
	}
}

func (b *builder) export() *Command {
	formatParam := Param{
		Name: "format",
		Hint: "csv or json",
		Bind: func(a *Args, tok string, _ time.Time) error {
			if tok != timer.FormatCSV && tok != timer.FormatJSON {
				return &ParseError{Arg: "format", Input: tok, Hint: "csv or json"}
			}
			a.Format = tok
			return nil
		},
	}
	return &Command{
		Name:        "export",
		Description: "export tasks",
		Aliases:     b.aliases["export"],
		Params:      []Param{formatParam, fullNameParam(true), fromParam(), toParam()},
		Handler: func(a Args) Outcome {
			from, to, _ := b.resolveRange(a)
			path, err := b.tm.Export(a.Format, from, to, a.FullName)
			if err != nil {
				return errorOutcome(err)
			}
			return infoOutcome("exported tasks to " + path)
		},
	}
}

func (b *builder) showStats() *Command {
	return &Command{
		Name:        "show_stats",
		Description: "show statistics",
		Aliases:     b.aliases["show_stats"],
		Params:      []Param{fromParam(), toParam()},
		Handler: func(a Args) Outcome {
			lines, err := b.stats(a)
			if err != nil {
				return errorOutcome(err)
			}
			return Outcome{Stats: &StatsRequest{Lines: lines}}
		},
	}
}
