package cmdkit

import "context"

// ArgumentParseResult is the tagged union success(value) | failure(error)
// produced by an ArgumentParser.
type ArgumentParseResult[T any] struct {
	value   T
	err     error
	ok      bool
}

// Success wraps a successfully parsed value.
func Success[T any](value T) ArgumentParseResult[T] {
	return ArgumentParseResult[T]{value: value, ok: true}
}

// Failure wraps a parse error. err must not be nil.
func Failure[T any](err error) ArgumentParseResult[T] {
	return ArgumentParseResult[T]{err: err}
}

// IsSuccess reports whether the result carries a value.
func (r ArgumentParseResult[T]) IsSuccess() bool { return r.ok }

// Value returns the parsed value and true, or the zero value and false.
func (r ArgumentParseResult[T]) Value() (T, bool) { return r.value, r.ok }

// Err returns the failure cause, or nil on success.
func (r ArgumentParseResult[T]) Err() error { return r.err }

// ArgumentParser is a stateless, re-entrant function from cursor position
// to a typed ArgumentParseResult. Implementations must not advance the
// Cursor on failure.
type ArgumentParser[T any] interface {
	Parse(ctx *CommandContext, cur *Cursor) ArgumentParseResult[T]
}

// FutureParser is implemented by parsers that must do asynchronous work
// (e.g. an external lookup); ParseFuture runs on the coordinator's parse
// executor.
type FutureParser[T any] interface {
	ArgumentParser[T]
	ParseFuture(ctx context.Context, cc *CommandContext, cur *Cursor) <-chan ArgumentParseResult[T]
}

// ParserFunc adapts a plain function to an ArgumentParser.
type ParserFunc[T any] func(ctx *CommandContext, cur *Cursor) ArgumentParseResult[T]

// Parse implements ArgumentParser.
func (f ParserFunc[T]) Parse(ctx *CommandContext, cur *Cursor) ArgumentParseResult[T] { return f(ctx, cur) }

// completedFuture wraps an already-computed result in an
// already-resolved channel, so synchronous parsers compose with the same
// future-based API as asynchronous ones.
func completedFuture[T any](r ArgumentParseResult[T]) <-chan ArgumentParseResult[T] {
	ch := make(chan ArgumentParseResult[T], 1)
	ch <- r
	close(ch)
	return ch
}

// ParseFutureOf returns p's future if it implements FutureParser, else an
// already-completed future wrapping a synchronous Parse call.
func ParseFutureOf[T any](p ArgumentParser[T], ctx context.Context, cc *CommandContext, cur *Cursor) <-chan ArgumentParseResult[T] {
	if fp, ok := p.(FutureParser[T]); ok {
		return fp.ParseFuture(ctx, cc, cur)
	}
	return completedFuture(p.Parse(cc, cur))
}

// Map applies f to a successful result eagerly; failures pass through
// unchanged.
func Map[T, U any](p ArgumentParser[T], f func(T) U) ArgumentParser[U] {
	return ParserFunc[U](func(ctx *CommandContext, cur *Cursor) ArgumentParseResult[U] {
		r := p.Parse(ctx, cur)
		if v, ok := r.Value(); ok {
			return Success(f(v))
		}
		return Failure[U](r.Err())
	})
}

// MapSuccessFuture is the asynchronous counterpart of Map: f runs only
// after p succeeds, and may itself do asynchronous work.
func MapSuccessFuture[T, U any](p ArgumentParser[T], f func(context.Context, T) <-chan U) FutureParser[U] {
	return &mapFutureParser[T, U]{p: p, f: f}
}

type mapFutureParser[T, U any] struct {
	p ArgumentParser[T]
	f func(context.Context, T) <-chan U
}

func (m *mapFutureParser[T, U]) Parse(ctx *CommandContext, cur *Cursor) ArgumentParseResult[U] {
	r := m.p.Parse(ctx, cur)
	v, ok := r.Value()
	if !ok {
		return Failure[U](r.Err())
	}
	out := <-m.f(ctx.Context, v)
	return Success(out)
}

func (m *mapFutureParser[T, U]) ParseFuture(goCtx context.Context, cc *CommandContext, cur *Cursor) <-chan ArgumentParseResult[U] {
	ch := make(chan ArgumentParseResult[U], 1)
	go func() {
		defer close(ch)
		r := m.p.Parse(cc, cur)
		v, ok := r.Value()
		if !ok {
			ch <- Failure[U](r.Err())
			return
		}
		out := <-m.f(goCtx, v)
		ch <- Success(out)
	}()
	return ch
}

// FlatMapSuccess chains a second parser-producing step after p succeeds;
// the step itself may fail.
func FlatMapSuccess[T, U any](p ArgumentParser[T], f func(T) ArgumentParseResult[U]) ArgumentParser[U] {
	return ParserFunc[U](func(ctx *CommandContext, cur *Cursor) ArgumentParseResult[U] {
		r := p.Parse(ctx, cur)
		v, ok := r.Value()
		if !ok {
			return Failure[U](r.Err())
		}
		return f(v)
	})
}

// EitherValue is the tagged union produced by FirstOf: exactly one
// of Left/Right is populated, indicated by IsLeft.
type EitherValue[L, R any] struct {
	left    L
	right   R
	isLeft  bool
}

// Left wraps a left-alternative value.
func Left[L, R any](v L) EitherValue[L, R] { return EitherValue[L, R]{left: v, isLeft: true} }

// Right wraps a right-alternative value.
func Right[L, R any](v R) EitherValue[L, R] { return EitherValue[L, R]{right: v} }

// IsLeft reports which alternative produced the value.
func (e EitherValue[L, R]) IsLeft() bool { return e.isLeft }

// LeftValue returns the left value and true if IsLeft, else the zero value and false.
func (e EitherValue[L, R]) LeftValue() (L, bool) { return e.left, e.isLeft }

// RightValue returns the right value and true if !IsLeft, else the zero value and false.
func (e EitherValue[L, R]) RightValue() (R, bool) { return e.right, !e.isLeft }

// FirstOfError is the composite failure returned when both alternatives of
// FirstOf fail.
type FirstOfError struct {
	Input    string
	Primary  error
	Fallback error
}

func (e *FirstOfError) Error() string {
	return "cmdkit: no alternative matched " + e.Input + ": " + e.Primary.Error() + "; " + e.Fallback.Error()
}

// FirstOf attempts primary; on failure it rewinds the cursor and attempts
// fallback. The tagged EitherValue records which one succeeded. If both
// fail, the returned failure names the offending input and both parsers.
func FirstOf[L, R any](primary ArgumentParser[L], fallback ArgumentParser[R]) ArgumentParser[EitherValue[L, R]] {
	return ParserFunc[EitherValue[L, R]](func(ctx *CommandContext, cur *Cursor) ArgumentParseResult[EitherValue[L, R]] {
		cp := cur.Checkpoint()
		offending := cur.RemainingInput()
		r1 := primary.Parse(ctx, cur)
		if v, ok := r1.Value(); ok {
			return Success[EitherValue[L, R]](Left[L, R](v))
		}
		cur.Restore(cp)
		r2 := fallback.Parse(ctx, cur)
		if v, ok := r2.Value(); ok {
			return Success[EitherValue[L, R]](Right[L, R](v))
		}
		cur.Restore(cp)
		return Failure[EitherValue[L, R]](&FirstOfError{Input: offending, Primary: r1.Err(), Fallback: r2.Err()})
	})
}

// SuggestionProvider produces completion suggestions for the input
// remaining at a cursor position.
type SuggestionProvider interface {
	Suggestions(ctx *CommandContext, builder *SuggestionsBuilder) *Suggestions
}

// suggestionAware is implemented by a parser that is its own
// SuggestionProvider.
type suggestionAware interface {
	SuggestionProvider
}

// provideSuggestions returns p's suggestions if it implements
// SuggestionProvider, else an empty result.
func provideSuggestions(p any, ctx *CommandContext, b *SuggestionsBuilder) *Suggestions {
	if sp, ok := p.(suggestionAware); ok {
		return sp.Suggestions(ctx, b)
	}
	return b.Build()
}
