package cmdkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_CanRead(t *testing.T) {
	c := NewCursor("abc")
	require.True(t, c.CanRead())
	c.Pos = 3
	require.False(t, c.CanRead())
}

func TestCursor_StripsLeadingSlash(t *testing.T) {
	c := NewCursor("/test foo")
	require.Equal(t, "test foo", c.Input)
}

func TestCursor_ReadString_Unquoted(t *testing.T) {
	c := NewCursor("hello world")
	s, err := c.ReadString(SingleString)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, "world", c.RemainingInput())
}

func TestCursor_ReadString_Quoted(t *testing.T) {
	c := NewCursor(`"hello world" rest`)
	s, err := c.ReadString(SingleString)
	require.NoError(t, err)
	require.Equal(t, "hello world", s)
	require.Equal(t, "rest", c.RemainingInput())
}

func TestCursor_ReadString_QuotedEscape(t *testing.T) {
	c := NewCursor(`"a\"b"`)
	s, err := c.ReadString(SingleString)
	require.NoError(t, err)
	require.Equal(t, `a"b`, s)
}

func TestCursor_ReadString_UnterminatedQuote(t *testing.T) {
	c := NewCursor(`"unterminated`)
	start := c.Pos
	_, err := c.ReadString(SingleString)
	require.ErrorIs(t, err, ErrExpectedEndOfQuote)
	require.Equal(t, start, c.Pos, "failed parse must not consume the cursor")
}

func TestCursor_ReadString_Greedy(t *testing.T) {
	c := NewCursor("whatever words")
	s, err := c.ReadString(GreedyString)
	require.NoError(t, err)
	require.Equal(t, "whatever words", s)
	require.True(t, c.IsEmpty())
}

func TestCursor_ReadInteger_Range(t *testing.T) {
	c := NewCursor("42")
	n, err := c.ReadInteger(NumberRange[int64]{Min: 0, Max: 100, HasMin: true, HasMax: true})
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
}

func TestCursor_ReadInteger_OutOfRange_DoesNotConsume(t *testing.T) {
	c := NewCursor("200 rest")
	start := c.Pos
	_, err := c.ReadInteger(NumberRange[int64]{Min: 0, Max: 100, HasMin: true, HasMax: true})
	require.Error(t, err)
	require.Equal(t, start, c.Pos)
}

func TestCursor_ReadBoolean(t *testing.T) {
	c := NewCursor("TRUE")
	b, err := c.ReadBoolean()
	require.NoError(t, err)
	require.True(t, b)
}

func TestCursor_CheckpointRestore(t *testing.T) {
	c := NewCursor("a b c")
	cp := c.Checkpoint()
	_, _ = c.ReadString(SingleString)
	require.NotEqual(t, cp.pos, c.Pos)
	c.Restore(cp)
	require.Equal(t, cp.pos, c.Pos)
}
