package cmdkit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StringMode selects how Cursor.ReadString consumes the remaining input.
type StringMode uint8

const (
	// SingleString reads one whitespace-delimited token, honoring quotes.
	SingleString StringMode = iota
	// QuotedString reads a '"…"' or '\'…\'' segment with backslash escapes.
	QuotedString
	// GreedyString consumes all remaining input verbatim.
	GreedyString
	// GreedyFlagYieldingString consumes remaining input but stops one token
	// before a token that looks like a flag known to the active FlagGroup.
	GreedyFlagYieldingString
)

// Cursor is the single source of truth for position within raw command
// input during parsing. It is mutable but confined to one coordinator
// frame; speculative parsing uses Checkpoint/Restore rather than copies.
type Cursor struct {
	Input  string
	Pos    int
	flags  *FlagGroup // active flag-group for GreedyFlagYieldingString, if any
}

// NewCursor strips a single leading '/' so commands may be typed either way,
// and returns a Cursor ready to read from the start of input.
func NewCursor(input string) *Cursor {
	if strings.HasPrefix(input, "/") {
		input = input[1:]
	}
	return &Cursor{Input: input}
}

// Checkpoint is an opaque saved Cursor position for speculative parsing.
type Checkpoint struct{ pos int }

// Checkpoint saves the current position.
func (c *Cursor) Checkpoint() Checkpoint { return Checkpoint{pos: c.Pos} }

// Restore rewinds the cursor to a previously saved Checkpoint.
func (c *Cursor) Restore(cp Checkpoint) { c.Pos = cp.pos }

// IsEmpty reports whether no more non-whitespace input remains.
func (c *Cursor) IsEmpty() bool {
	cp := c.Checkpoint()
	defer c.Restore(cp)
	c.SkipWhitespace()
	return c.Pos >= len(c.Input)
}

// CanRead reports whether at least one more rune can be read.
func (c *Cursor) CanRead() bool { return c.CanReadLen(1) }

// CanReadLen reports whether the next length runes can be read.
func (c *Cursor) CanReadLen(length int) bool { return c.Pos+length <= len(c.Input) }

// Peek returns the next rune without advancing.
func (c *Cursor) Peek() byte { return c.Input[c.Pos] }

// RemainingInput returns the unconsumed suffix of the input.
func (c *Cursor) RemainingInput() string { return c.Input[c.Pos:] }

// SkipWhitespace advances past any run of spaces at the current position.
func (c *Cursor) SkipWhitespace() {
	for c.CanRead() && c.Peek() == ' ' {
		c.Pos++
	}
}

// PeekString returns the next whitespace-delimited token without advancing.
func (c *Cursor) PeekString() string {
	cp := c.Checkpoint()
	defer c.Restore(cp)
	s, _ := c.ReadString(SingleString)
	return s
}

var (
	// ErrExpectedStartOfQuote occurs when a quoted read is attempted but no
	// opening quote is present.
	ErrExpectedStartOfQuote = errors.New("cmdkit: expected start of quote")
	// ErrExpectedEndOfQuote occurs when the closing quote is missing.
	ErrExpectedEndOfQuote = errors.New("cmdkit: expected end of quote")
	// ErrInvalidEscape occurs on an unsupported backslash escape.
	ErrInvalidEscape = errors.New("cmdkit: invalid escape character")
)

const (
	doubleQuote = '"'
	singleQuote = '\''
	escapeRune  = '\\'
)

func isQuoteStart(b byte) bool { return b == doubleQuote || b == singleQuote }

func isUnquotedRune(b byte) bool {
	return b >= '0' && b <= '9' ||
		b >= 'A' && b <= 'Z' ||
		b >= 'a' && b <= 'z' ||
		b == '_' || b == '-' || b == '.' || b == '+' || b == ':' || b == '/'
}

// ReadString consumes and returns the next token per mode. On failure the
// cursor position is unchanged; parsers never consume input on failure.
func (c *Cursor) ReadString(mode StringMode) (string, error) {
	start := c.Pos
	switch mode {
	case GreedyString:
		s := c.RemainingInput()
		c.Pos = len(c.Input)
		return s, nil
	case GreedyFlagYieldingString:
		return c.readGreedyFlagYielding(), nil
	default:
	}

	c.SkipWhitespace()
	if !c.CanRead() {
		return "", nil
	}
	if isQuoteStart(c.Peek()) {
		term := c.Peek()
		c.Pos++
		s, err := c.readUntil(term)
		if err != nil {
			c.Pos = start
			return "", err
		}
		return s, nil
	}
	if mode == QuotedString {
		c.Pos = start
		return "", fmt.Errorf("%w", ErrExpectedStartOfQuote)
	}
	return c.readUnquoted(), nil
}

func (c *Cursor) readUnquoted() string {
	start := c.Pos
	for c.CanRead() && c.Peek() != ' ' {
		c.Pos++
	}
	return c.Input[start:c.Pos]
}

func (c *Cursor) readUntil(terminator byte) (string, error) {
	var b strings.Builder
	escaped := false
	for c.CanRead() {
		ch := c.Input[c.Pos]
		c.Pos++
		if escaped {
			if ch == terminator || ch == escapeRune {
				b.WriteByte(ch)
				escaped = false
			} else {
				return "", fmt.Errorf("%w: %q", ErrInvalidEscape, ch)
			}
		} else if ch == escapeRune {
			escaped = true
		} else if ch == terminator {
			return b.String(), nil
		} else {
			b.WriteByte(ch)
		}
	}
	return "", ErrExpectedEndOfQuote
}

// readGreedyFlagYielding mirrors ReadString(GreedyString) but stops right
// before a token that matches a known flag in the active FlagGroup, so the
// remainder can be handed back to flag parsing.
func (c *Cursor) readGreedyFlagYielding() string {
	if c.flags == nil {
		s := c.RemainingInput()
		c.Pos = len(c.Input)
		return s
	}
	start := c.Pos
	end := len(c.Input)
	cursor := c.Pos
	for cursor < len(c.Input) {
		for cursor < len(c.Input) && c.Input[cursor] == ' ' {
			cursor++
		}
		tokenStart := cursor
		for cursor < len(c.Input) && c.Input[cursor] != ' ' {
			cursor++
		}
		token := c.Input[tokenStart:cursor]
		if looksLikeFlag(token) && c.flags.recognizes(token) {
			end = tokenStart
			// trim the trailing separator we already consumed
			for end > start && c.Input[end-1] == ' ' {
				end--
			}
			break
		}
	}
	c.Pos = end
	return c.Input[start:end]
}

func looksLikeFlag(tok string) bool {
	if strings.HasPrefix(tok, "--") && len(tok) > 2 {
		return isFlagLongName(tok[2:])
	}
	if strings.HasPrefix(tok, "-") && len(tok) > 1 && !strings.HasPrefix(tok, "--") {
		return isFlagShortCluster(tok[1:])
	}
	return false
}

func isFlagLongName(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !isAlpha(b) && !(b >= '0' && b <= '9') && b != '-' {
			return false
		}
	}
	return true
}

func isFlagShortCluster(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

func isAlpha(b byte) bool { return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' }

// NumberRange bounds an inclusive [Min, Max] range for number parsers.
type NumberRange[T int64 | float64] struct {
	Min, Max T
	HasMin   bool
	HasMax   bool
}

// ReadInteger reads and range-checks a base-10 integer token.
func (c *Cursor) ReadInteger(r NumberRange[int64]) (int64, error) {
	start := c.Pos
	c.SkipWhitespace()
	tokenStart := c.Pos
	for c.CanRead() && isNumberRune(c.Peek()) {
		c.Pos++
	}
	token := c.Input[tokenStart:c.Pos]
	if token == "" || token == "-" {
		c.Pos = start
		return 0, fmt.Errorf("cmdkit: expected integer")
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		c.Pos = start
		return 0, fmt.Errorf("cmdkit: invalid integer %q: %w", token, err)
	}
	if (r.HasMin && n < r.Min) || (r.HasMax && n > r.Max) {
		c.Pos = start
		return 0, &NumberRangeError{Value: n, Min: r.Min, Max: r.Max, HasMin: r.HasMin, HasMax: r.HasMax}
	}
	return n, nil
}

// ReadFloat reads and range-checks a float64 token (serves both "float"
// and "double" parsers — Go has one floating type of interest here,
// float64).
func (c *Cursor) ReadFloat(r NumberRange[float64]) (float64, error) {
	start := c.Pos
	c.SkipWhitespace()
	tokenStart := c.Pos
	for c.CanRead() && isFloatRune(c.Peek()) {
		c.Pos++
	}
	token := c.Input[tokenStart:c.Pos]
	if token == "" {
		c.Pos = start
		return 0, fmt.Errorf("cmdkit: expected number")
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		c.Pos = start
		return 0, fmt.Errorf("cmdkit: invalid number %q: %w", token, err)
	}
	if (r.HasMin && f < r.Min) || (r.HasMax && f > r.Max) {
		c.Pos = start
		return 0, &NumberRangeError{Value: f, Min: r.Min, Max: r.Max, HasMin: r.HasMin, HasMax: r.HasMax}
	}
	return f, nil
}

// ReadBoolean reads a "true"/"false" token case-insensitively.
func (c *Cursor) ReadBoolean() (bool, error) {
	start := c.Pos
	tok, err := c.ReadString(SingleString)
	if err != nil {
		c.Pos = start
		return false, err
	}
	switch strings.ToLower(tok) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		c.Pos = start
		return false, fmt.Errorf("cmdkit: expected boolean, got %q", tok)
	}
}

func isNumberRune(b byte) bool { return b >= '0' && b <= '9' || b == '-' }
func isFloatRune(b byte) bool  { return b >= '0' && b <= '9' || b == '-' || b == '.' || b == 'e' || b == 'E' }

// NumberRangeError reports a number parsed successfully but outside
// [Min, Max].
type NumberRangeError struct {
	Value          any
	Min, Max       any
	HasMin, HasMax bool
}

func (e *NumberRangeError) Error() string {
	switch {
	case e.HasMin && e.HasMax:
		return fmt.Sprintf("cmdkit: %v is out of range [%v, %v]", e.Value, e.Min, e.Max)
	case e.HasMin:
		return fmt.Sprintf("cmdkit: %v is below minimum %v", e.Value, e.Min)
	case e.HasMax:
		return fmt.Sprintf("cmdkit: %v is above maximum %v", e.Value, e.Max)
	default:
		return fmt.Sprintf("cmdkit: %v out of range", e.Value)
	}
}
