package interpreter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

// ParseError reports a malformed argument token.
type ParseError struct {
	Arg   string
	Input string
	Hint  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q does not contain %s (expected %s)", e.Input, e.Arg, e.Hint)
}

// Shared name/tag character class: word characters, whitespace and a
// handful of punctuation.
var (
	nameRe = regexp.MustCompile(`^[\w\s!#'+?-]+`)
	tagRe  = regexp.MustCompile(`\[([\w\s!#'+?-]+)\]`)
)

const (
	hintFullName = "name followed by 0 or more tags, e.g. 'foo[bar]'"
	hintSummand  = "full name, name or tag(s) to sum up"
	hintFrom     = "@([YYYY-MM-DD] [hh:mm]|{all,year,month,week,yesterday,today})"
	hintTo       = "@([YYYY-MM-DD] [hh:mm]|{year,month,week,yesterday,today})"
	hintInstant  = "@YYYY-MM-DD [hh:mm]"
)

// parseName extracts the leading name run.
func parseName(s string) (string, error) {
	m := nameRe.FindString(s)
	if m == "" {
		return "", &ParseError{Arg: "name", Input: s, Hint: "a run of word characters"}
	}
	return strings.TrimSpace(m), nil
}

// parseTags extracts all [tag] groups.
func parseTags(s string) ([]string, error) {
	ms := tagRe.FindAllStringSubmatch(s, -1)
	if len(ms) == 0 {
		return nil, &ParseError{Arg: "tags", Input: s, Hint: "[tag] groups"}
	}
	tags := make([]string, 0, len(ms))
	for _, m := range ms {
		tags = append(tags, strings.TrimSpace(m[1]))
	}
	return domain.NormalizeTags(tags), nil
}

// parseFullName parses a name with optional [tag] suffixes. The empty
// string is the empty full name, never an error.
func parseFullName(s string) (domain.FullName, error) {
	if s == "" {
		return domain.FullName{}, nil
	}
	name, err := parseName(s)
	if err != nil {
		return domain.FullName{}, &ParseError{Arg: "full name", Input: s, Hint: hintFullName}
	}
	tags, err := parseTags(s)
	if err != nil {
		return domain.FullName{Name: name}, nil
	}
	return domain.FullName{Name: name, Tags: tags}, nil
}

// parseSummand parses a full name, a bare name, or standalone [tag]
// groups with no leading name.
func parseSummand(s string) (domain.FullName, error) {
	if f, err := parseFullName(s); err == nil && !f.IsEmpty() {
		return f, nil
	}
	tags, err := parseTags(s)
	if err != nil {
		return domain.FullName{}, &ParseError{Arg: "summand", Input: s, Hint: hintSummand}
	}
	return domain.FullName{Tags: tags}, nil
}

// stripAt removes the leading @ from a date/time token.
func stripAt(s string) (string, bool) {
	if !strings.HasPrefix(s, "@") {
		return "", false
	}
	return strings.TrimSpace(s[1:]), true
}

// parseInstant parses @YYYY-MM-DD [hh:mm] or @hh:mm (today).
func parseInstant(arg, s string, now time.Time) (time.Time, error) {
	body, ok := stripAt(s)
	if !ok {
		return time.Time{}, &ParseError{Arg: arg, Input: s, Hint: hintInstant}
	}
	return parseInstantBody(arg, body, now)
}

// parseInstantBody parses YYYY-MM-DD [hh:mm] or hh:mm (today) with no
// @ marker, as read from the edit input box.
func parseInstantBody(arg, body string, now time.Time) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02", "15:04"} {
		t, err := time.ParseInLocation(layout, body, now.Location())
		if err != nil {
			continue
		}
		if layout == "15:04" {
			t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		}
		return t, nil
	}
	return time.Time{}, &ParseError{Arg: arg, Input: body, Hint: hintInstant}
}

// parseEndpoint parses a range endpoint: a period keyword out of
// keywords, or an instant.
func parseEndpoint(arg, s string, keywords []string, hint string, now time.Time) (domain.Endpoint, error) {
	body, ok := stripAt(s)
	if !ok {
		return domain.Endpoint{}, &ParseError{Arg: arg, Input: s, Hint: hint}
	}
	for _, kw := range keywords {
		if body == kw {
			return domain.KeywordEndpoint(kw), nil
		}
	}
	t, err := parseInstant(arg, s, now)
	if err != nil {
		return domain.Endpoint{}, &ParseError{Arg: arg, Input: s, Hint: hint}
	}
	return domain.TimeEndpoint(t), nil
}

func parseFrom(s string, now time.Time) (domain.Endpoint, error) {
	return parseEndpoint("from", s, domain.FromKeywords, hintFrom, now)
}

func parseTo(s string, now time.Time) (domain.Endpoint, error) {
	return parseEndpoint("to", s, domain.ToKeywords, hintTo, now)
}
