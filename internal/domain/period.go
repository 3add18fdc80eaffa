package domain

import (
	"fmt"
	"time"
)

// Time period keywords accepted in @FROM and @TO arguments. "all"
// resolves to the epoch sentinel and is only valid for range starts.
const (
	PeriodAll       = "all"
	PeriodYear      = "year"
	PeriodMonth     = "month"
	PeriodWeek      = "week"
	PeriodYesterday = "yesterday"
	PeriodToday     = "today"
)

// FromKeywords lists the keywords valid for a range start.
var FromKeywords = []string{PeriodAll, PeriodYear, PeriodMonth, PeriodWeek, PeriodYesterday, PeriodToday}

// ToKeywords lists the keywords valid for a range end.
var ToKeywords = []string{PeriodYear, PeriodMonth, PeriodWeek, PeriodYesterday, PeriodToday}

// Endpoint is one side of a time period: either a keyword resolved at
// query time or a concrete instant.
type Endpoint struct {
	Time    time.Time
	Keyword string
}

// KeywordEndpoint returns an endpoint carrying a period keyword.
func KeywordEndpoint(keyword string) Endpoint {
	return Endpoint{Keyword: keyword}
}

// TimeEndpoint returns an endpoint carrying a concrete instant.
func TimeEndpoint(t time.Time) Endpoint {
	return Endpoint{Time: t}
}

// Today is the default endpoint for both range sides.
var Today = Endpoint{Keyword: PeriodToday}

// Resolve converts the endpoint to a calendar date relative to now.
func (e Endpoint) Resolve(now time.Time) time.Time {
	if e.Keyword == "" {
		return e.Time
	}
	d, err := ResolveKeyword(e.Keyword, now)
	if err != nil {
		// Parsers only construct endpoints with known keywords.
		panic(err)
	}
	return d
}

// IsToday reports whether the endpoint resolves to today's date.
func (e Endpoint) IsToday(now time.Time) bool {
	y1, m1, d1 := e.Resolve(now).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ResolveKeyword converts a time period keyword to a calendar date:
// today, yesterday, the most recent Monday on/before today, the first
// of the current month, the first of the current year, or the epoch
// sentinel for "all".
func ResolveKeyword(keyword string, now time.Time) (time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch keyword {
	case PeriodToday:
		return midnight, nil
	case PeriodYesterday:
		return midnight.AddDate(0, 0, -1), nil
	case PeriodWeek:
		sinceMonday := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -sinceMonday), nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodAll:
		return time.Unix(0, 0).In(now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("unknown time period keyword %q", keyword)
}
