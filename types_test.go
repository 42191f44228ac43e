package cmdkit

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newParseCtx() *CommandContext { return NewCommandContext(context.Background(), nil, "") }

func mustCompile(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	return regexp.MustCompile(pattern)
}

func TestStr_SingleWord(t *testing.T) {
	cur := NewCursor("hello world")
	r := Str(SingleString).Parse(newParseCtx(), cur)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "hello", v)
	require.Equal(t, " world", cur.RemainingInput())
}

func TestStr_GreedyPhrase(t *testing.T) {
	cur := NewCursor("Hello world! This is a test.")
	r := Str(GreedyString).Parse(newParseCtx(), cur)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "Hello world! This is a test.", v)
	require.True(t, cur.IsEmpty())
}

func TestBool_Parse(t *testing.T) {
	r := Bool().Parse(newParseCtx(), NewCursor("true"))
	v, ok := r.Value()
	require.True(t, ok)
	require.True(t, v)

	r = Bool().Parse(newParseCtx(), NewCursor("false"))
	v, ok = r.Value()
	require.True(t, ok)
	require.False(t, v)
}

func TestBool_Parse_Invalid(t *testing.T) {
	r := Bool().Parse(newParseCtx(), NewCursor("nope"))
	_, ok := r.Value()
	require.False(t, ok)
	var argErr *ArgumentParseError
	require.ErrorAs(t, r.Err(), &argErr)
}

func TestInt64Range_OutOfRange(t *testing.T) {
	cur := NewCursor("200")
	r := Int64Range(0, 100).Parse(newParseCtx(), cur)
	_, ok := r.Value()
	require.False(t, ok)
	require.Equal(t, 0, cur.Pos)
}

func TestDurationRange_WithinBoundsSucceeds(t *testing.T) {
	r := DurationRange(time.Second, time.Minute).Parse(newParseCtx(), NewCursor("30s"))
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, 30*time.Second, v)
}

func TestDurationRange_OutOfRange(t *testing.T) {
	cur := NewCursor("2h")
	r := DurationRange(time.Second, time.Minute).Parse(newParseCtx(), cur)
	_, ok := r.Value()
	require.False(t, ok)
	require.Equal(t, 0, cur.Pos)

	var argErr *ArgumentParseError
	require.ErrorAs(t, r.Err(), &argErr)
	var rangeErr *DurationRangeError
	require.ErrorAs(t, argErr, &rangeErr)
	require.Equal(t, CaptionArgParseDurationRange, argErr.Caption())
}

func TestFloat64_Parse(t *testing.T) {
	r := Float64().Parse(newParseCtx(), NewCursor("3.5"))
	v, ok := r.Value()
	require.True(t, ok)
	require.InDelta(t, 3.5, v, 0.0001)
}

func TestChar_Parse(t *testing.T) {
	cur := NewCursor("ab")
	r := Char().Parse(newParseCtx(), cur)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, 'a', v)
	require.Equal(t, "b", cur.RemainingInput())
}

func TestUUID_Parse(t *testing.T) {
	cur := NewCursor("123e4567-e89b-12d3-a456-426614174000")
	r := UUID().Parse(newParseCtx(), cur)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "123e4567-e89b-12d3-a456-426614174000", v.String())
}

func TestUUID_Parse_Invalid(t *testing.T) {
	r := UUID().Parse(newParseCtx(), NewCursor("not-a-uuid"))
	_, ok := r.Value()
	require.False(t, ok)
}

type color string

const (
	colorRed  color = "red"
	colorBlue color = "blue"
)

func TestEnum_Parse(t *testing.T) {
	r := Enum(colorRed, colorBlue).Parse(newParseCtx(), NewCursor("blue"))
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, colorBlue, v)
}

func TestEnum_Parse_Unknown(t *testing.T) {
	r := Enum(colorRed, colorBlue).Parse(newParseCtx(), NewCursor("green"))
	_, ok := r.Value()
	require.False(t, ok)
	var enumErr *EnumParseError
	require.ErrorAs(t, r.Err(), &enumErr)
}

func TestRegex_Parse(t *testing.T) {
	r := Regex(mustCompile(t, `^[a-z]+$`)).Parse(newParseCtx(), NewCursor("abc"))
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "abc", v)
}

func TestDuration_Parse(t *testing.T) {
	r := Duration().Parse(newParseCtx(), NewCursor("1h30m"))
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "1h30m0s", v.String())
}

func TestDuration_Parse_Invalid(t *testing.T) {
	r := Duration().Parse(newParseCtx(), NewCursor("soon"))
	_, ok := r.Value()
	require.False(t, ok)
}
