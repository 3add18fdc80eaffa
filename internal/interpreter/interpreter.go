// Package interpreter parses input lines into typed commands and
// dispatches them to registered handlers.
package interpreter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nutshell-sh/nutshell/internal/render"
)

// InterpreterError aborts a line: a parse failure or an unknown
// command, carrying the relevant usage block.
type InterpreterError struct {
	Err   error
	Msg   string
	Usage []string
}

func (e *InterpreterError) Error() string { return e.Msg }

func (e *InterpreterError) Unwrap() error { return e.Err }

// Lines renders the error followed by its usage block.
func (e *InterpreterError) Lines() []render.Line {
	lines := []render.Line{render.ErrorLine(e.Msg)}
	for _, u := range e.Usage {
		lines = append(lines, render.InfoLine(u))
	}
	return lines
}

// Interpreter resolves aliases and dispatches lines against an
// immutable command set.
type Interpreter struct {
	commands map[string]*Command
	aliasOf  map[string]string
	order    []string
	now      func() time.Time
}

// New builds an interpreter over commands, adding the help/aliases
// built-ins every instance carries.
func New(commands []*Command, now func() time.Time) *Interpreter {
	if now == nil {
		now = time.Now
	}
	in := &Interpreter{
		commands: map[string]*Command{},
		aliasOf:  map[string]string{},
		now:      now,
	}
	for _, c := range commands {
		in.register(c)
	}
	in.register(in.helpCommand())
	in.register(in.aliasesCommand())
	return in
}

func (in *Interpreter) register(c *Command) {
	in.commands[c.Name] = c
	in.order = append(in.order, c.Name)
	for _, a := range c.Aliases {
		in.aliasOf[a] = c.Name
	}
}

// CommandNames returns canonical names and aliases, the completion
// pool for the editor.
func (in *Interpreter) CommandNames() []string {
	names := append([]string(nil), in.order...)
	for a := range in.aliasOf {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// resolve maps a command token through the alias table.
func (in *Interpreter) resolve(token string) (*Command, bool) {
	if c, ok := in.commands[token]; ok {
		return c, true
	}
	if name, ok := in.aliasOf[token]; ok {
		return in.commands[name], true
	}
	return nil, false
}

// tokenize splits the rest of a line on the @ separator, keeping the
// marker on date tokens.
func tokenize(rest string) []string {
	var tokens []string
	for i, part := range strings.Split(rest, "@") {
		part = strings.TrimSpace(part)
		if i == 0 {
			if part != "" {
				tokens = append(tokens, part)
			}
			continue
		}
		tokens = append(tokens, "@"+part)
	}
	return tokens
}

// usageBlock is the usage of the whole grammar.
func (in *Interpreter) usageBlock() []string {
	block := make([]string, 0, len(in.order))
	for _, name := range in.order {
		block = append(block, in.commands[name].UsageLine())
	}
	return block
}

// Interpret parses and dispatches one input line. Parse failures and
// unknown commands return an *InterpreterError; handlers report their
// own domain errors through the outcome lines.
func (in *Interpreter) Interpret(line string) (Outcome, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Outcome{}, nil
	}
	token, rest, _ := strings.Cut(line, " ")
	cmd, ok := in.resolve(token)
	if !ok {
		return Outcome{}, &InterpreterError{
			Msg:   fmt.Sprintf("unknown command %q", token),
			Usage: in.usageBlock(),
		}
	}
	args, err := in.bind(cmd, tokenize(strings.TrimSpace(rest)))
	if err != nil {
		return Outcome{}, &InterpreterError{
			Err:   err,
			Msg:   err.Error(),
			Usage: []string{cmd.UsageLine()},
		}
	}
	return cmd.Handler(args), nil
}

// bind assigns tokens to the command's params in order. Date params
// take only @-tokens and plain params only plain tokens, so optional
// leading arguments can be skipped.
func (in *Interpreter) bind(cmd *Command, tokens []string) (Args, error) {
	now := in.now()
	var args Args
	i := 0
	for _, p := range cmd.Params {
		var tok string
		switch {
		case i < len(tokens) && strings.HasPrefix(tokens[i], "@") == p.DateLike:
			tok = tokens[i]
			i++
		case p.Optional:
			if p.Default == "" {
				continue
			}
			tok = p.Default
		default:
			return Args{}, &ParseError{Arg: p.Name, Input: strings.Join(tokens[i:], " "), Hint: p.Hint}
		}
		if err := p.Bind(&args, tok, now); err != nil {
			return Args{}, err
		}
	}
	if i < len(tokens) {
		return Args{}, &ParseError{
			Arg:   "arguments",
			Input: strings.Join(tokens[i:], " "),
			Hint:  "no further arguments",
		}
	}
	return args, nil
}

// helpCommand prints the usage of one command or the whole grammar.
func (in *Interpreter) helpCommand() *Command {
	return &Command{
		Name:        "help",
		Description: "show help",
		Aliases:     []string{"?"},
		Params: []Param{{
			Name:     "command",
			Hint:     "command to show help for",
			Optional: true,
			Bind: func(a *Args, tok string, _ time.Time) error {
				a.Topic = tok
				return nil
			},
		}},
		Handler: func(a Args) Outcome {
			if a.Topic == "" {
				var lines []render.Line
				for _, u := range in.usageBlock() {
					lines = append(lines, render.InfoLine(u))
				}
				return Outcome{Lines: lines}
			}
			cmd, ok := in.resolve(a.Topic)
			if !ok {
				return Outcome{Lines: []render.Line{
					render.ErrorLine(fmt.Sprintf("unknown command %q", a.Topic)),
				}}
			}
			return Outcome{Lines: cmd.Help()}
		},
	}
}

// aliasesCommand lists the alias table.
func (in *Interpreter) aliasesCommand() *Command {
	return &Command{
		Name:        "aliases",
		Description: "list aliases",
		Handler: func(Args) Outcome {
			lines := []render.Line{render.InfoLine("alias\tcommand")}
			for _, name := range in.order {
				for _, a := range in.commands[name].Aliases {
					lines = append(lines, render.InfoLine(a+"\t"+name))
				}
			}
			return Outcome{Lines: lines}
		},
	}
}
