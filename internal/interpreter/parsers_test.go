package interpreter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

func TestParseFullName(t *testing.T) {
	f, err := parseFullName("foo[toto][bar]")
	require.NoError(t, err)
	assert.Equal(t, "foo", f.Name)
	assert.Equal(t, []string{"bar", "toto"}, f.Tags)

	f, err = parseFullName("foo")
	require.NoError(t, err)
	assert.Equal(t, domain.FullName{Name: "foo"}, f)

	f, err = parseFullName("")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())

	_, err = parseFullName("[bar]")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "full name", perr.Arg)
}

func TestParseSummand(t *testing.T) {
	f, err := parseSummand("foo[bar]")
	require.NoError(t, err)
	assert.True(t, f.IsComplete())

	f, err = parseSummand("[bar][toto]")
	require.NoError(t, err)
	assert.Empty(t, f.Name)
	assert.Equal(t, []string{"bar", "toto"}, f.Tags)

	_, err = parseSummand("")
	assert.Error(t, err)
}

func TestParseInstant(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)

	got, err := parseInstant("start", "@2026-08-25 09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 25, 9, 30, 0, 0, time.Local), got)

	got, err = parseInstant("start", "@2026-08-25", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local), got)

	// a bare clock time means today
	got, err = parseInstant("start", "@09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 26, 9, 30, 0, 0, time.Local), got)

	_, err = parseInstant("start", "2026-08-25", now)
	assert.Error(t, err, "missing @ marker")

	_, err = parseInstant("start", "@yesterday", now)
	assert.Error(t, err, "keywords are not instants")
}

func TestParseEndpoints(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)

	e, err := parseFrom("@week", now)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodWeek, e.Keyword)
	// 2026-08-26 is a Wednesday
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local), e.Resolve(now))

	e, err = parseFrom("@2026-08-01", now)
	require.NoError(t, err)
	assert.Empty(t, e.Keyword)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), e.Resolve(now))

	_, err = parseFrom("week", now)
	assert.Error(t, err, "missing @ marker")

	e, err = parseFrom("@all", now)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodAll, e.Keyword)

	_, err = parseTo("@all", now)
	assert.Error(t, err, "a range cannot end at all")
}
