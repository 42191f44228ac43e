package cmdkit

import (
	"fmt"
	"strings"
)

// Flag is a named optional argument of the form --long / -s.
type Flag struct {
	Name       string
	Aliases    []string // short or alternate long forms, without leading dashes
	Permission PermissionFn
	Value      erasedParser // nil for a presence flag
	valueName  string
	Repeatable bool
	Description string
}

// PresenceFlag declares a boolean flag with no value component.
func PresenceFlag(name string, aliases ...string) *Flag {
	return &Flag{Name: name, Aliases: aliases}
}

// ValueFlag declares a flag taking one value parsed by p.
func ValueFlag[T any](name string, p ArgumentParser[T], aliases ...string) *Flag {
	return &Flag{Name: name, Aliases: aliases, Value: eraseParser[T](p, name), valueName: name}
}

// Repeats marks the flag as repeatable, allowing it to be supplied more
// than once and accumulating every value.
func (f *Flag) Repeats() *Flag { f.Repeatable = true; return f }

// WithPermission attaches a flag-level permission predicate.
func (f *Flag) WithPermission(fn PermissionFn) *Flag { f.Permission = fn; return f }

// WithDescription sets the flag's description.
func (f *Flag) WithDescription(d string) *Flag { f.Description = d; return f }

func (f *Flag) names() []string { return append([]string{f.Name}, f.Aliases...) }

func (f *Flag) matchesLong(tok string) bool {
	for _, n := range f.names() {
		if len(n) > 1 && n == tok {
			return true
		}
	}
	return false
}

func (f *Flag) matchesShort(tok byte) bool {
	for _, n := range f.names() {
		if len(n) == 1 && n[0] == tok {
			return true
		}
	}
	return false
}

// FlagGroup is a set of Flags that together behave as a single Component
// within the enclosing command.
type FlagGroup struct {
	flags   []*Flag
	byLong  map[string]*Flag
	byShort map[byte]*Flag
}

// NewFlagGroup builds a FlagGroup from the given flags.
func NewFlagGroup(flags ...*Flag) *FlagGroup {
	g := &FlagGroup{byLong: map[string]*Flag{}, byShort: map[byte]*Flag{}}
	for _, f := range flags {
		g.flags = append(g.flags, f)
		for _, n := range f.names() {
			if len(n) == 1 {
				g.byShort[n[0]] = f
			} else {
				g.byLong[n] = f
			}
		}
	}
	return g
}

// Flags builds a flag-group Component wrapping g.
func Flags(g *FlagGroup) *Component {
	return &Component{Name: "--flags--", Kind: KindFlagGroup, flagGroup: g}
}

func (g *FlagGroup) recognizes(tok string) bool {
	_, _, ok := g.lookup(tok)
	return ok
}

func (g *FlagGroup) lookup(tok string) (*Flag, string, bool) {
	if strings.HasPrefix(tok, "--") {
		name := tok[2:]
		f, ok := g.byLong[name]
		return f, name, ok
	}
	if strings.HasPrefix(tok, "-") && len(tok) > 1 {
		f, ok := g.byShort[tok[1]]
		return f, tok[1:2], ok
	}
	return nil, tok, false
}

// Flag errors.
type (
	UnknownFlagError       struct{ Flag string }
	DuplicateFlagError     struct{ Flag string }
	NoFlagStartedError     struct{ Input string }
	FlagMissingArgumentError struct{ Flag string }
	FlagNoPermissionError  struct{ Flag string }
)

func (e *UnknownFlagError) Error() string         { return fmt.Sprintf("cmdkit: unknown flag %q", e.Flag) }
func (e *DuplicateFlagError) Error() string       { return fmt.Sprintf("cmdkit: duplicate flag %q", e.Flag) }
func (e *NoFlagStartedError) Error() string       { return fmt.Sprintf("cmdkit: no flag started at %q", e.Input) }
func (e *FlagMissingArgumentError) Error() string { return fmt.Sprintf("cmdkit: flag %q is missing its argument", e.Flag) }
func (e *FlagNoPermissionError) Error() string    { return fmt.Sprintf("cmdkit: no permission for flag %q", e.Flag) }

func (e *UnknownFlagError) Caption() CaptionKey         { return CaptionFlagUnknown }
func (e *DuplicateFlagError) Caption() CaptionKey       { return CaptionFlagDuplicate }
func (e *NoFlagStartedError) Caption() CaptionKey       { return CaptionFlagNoFlagStarted }
func (e *FlagMissingArgumentError) Caption() CaptionKey { return CaptionFlagMissingArgument }
func (e *FlagNoPermissionError) Caption() CaptionKey    { return CaptionFlagNoPermission }

func (e *UnknownFlagError) Variables() map[string]string         { return map[string]string{"flag": e.Flag} }
func (e *DuplicateFlagError) Variables() map[string]string       { return map[string]string{"flag": e.Flag} }
func (e *NoFlagStartedError) Variables() map[string]string       { return map[string]string{"input": e.Input} }
func (e *FlagMissingArgumentError) Variables() map[string]string { return map[string]string{"flag": e.Flag} }
func (e *FlagNoPermissionError) Variables() map[string]string    { return map[string]string{"flag": e.Flag} }

// FlagValues accumulates parsed flag values in a CommandContext.
type FlagValues struct {
	present  map[string]bool
	single   map[string]any
	multiple map[string][]any
}

func newFlagValues() *FlagValues {
	return &FlagValues{present: map[string]bool{}, single: map[string]any{}, multiple: map[string][]any{}}
}

func (v *FlagValues) clone() *FlagValues {
	n := newFlagValues()
	for k, b := range v.present {
		n.present[k] = b
	}
	for k, val := range v.single {
		n.single[k] = val
	}
	for k, vals := range v.multiple {
		n.multiple[k] = append([]any(nil), vals...)
	}
	return n
}

// IsPresent reports whether name was supplied at all.
func (v *FlagValues) IsPresent(name string) bool { return v.present[name] }

// Value returns the single parsed value for name, or false if absent.
func (v *FlagValues) Value(name string) (any, bool) {
	val, ok := v.single[name]
	return val, ok
}

// Values returns every parsed value for a repeatable flag named name.
func (v *FlagValues) Values(name string) []any { return v.multiple[name] }

func (v *FlagValues) record(f *Flag, value any) error {
	v.present[f.Name] = true
	if f.Value == nil {
		return nil
	}
	if f.Repeatable {
		v.multiple[f.Name] = append(v.multiple[f.Name], value)
		return nil
	}
	if _, dup := v.single[f.Name]; dup {
		return &DuplicateFlagError{Flag: f.Name}
	}
	v.single[f.Name] = value
	return nil
}

func (v *FlagValues) recordPresence(f *Flag) error {
	if v.present[f.Name] && !f.Repeatable {
		return &DuplicateFlagError{Flag: f.Name}
	}
	v.present[f.Name] = true
	return nil
}

// parseFlagGroup reads zero or more flag invocations from cur, depositing
// results into ctx. Flag order is arbitrary; short-form clusters of
// presence flags (-abc) are permitted.
func parseFlagGroup(g *FlagGroup, ctx *CommandContext, cur *Cursor) error {
	prevFlags := cur.flags
	cur.flags = g
	defer func() { cur.flags = prevFlags }()

	for {
		cur.SkipWhitespace()
		if !cur.CanRead() {
			return nil
		}
		tok := cur.PeekString()
		if tok == "" || tok[0] != '-' {
			return nil
		}
		if strings.HasPrefix(tok, "--") {
			if err := consumeLongFlag(g, ctx, cur); err != nil {
				return err
			}
			continue
		}
		if err := consumeShortCluster(g, ctx, cur); err != nil {
			return err
		}
	}
}

func consumeLongFlag(g *FlagGroup, ctx *CommandContext, cur *Cursor) error {
	tok, _ := cur.ReadString(SingleString)
	name := tok[2:]
	f, ok := g.byLong[name]
	if !ok {
		return &UnknownFlagError{Flag: name}
	}
	return consumeFlag(f, ctx, cur)
}

func consumeShortCluster(g *FlagGroup, ctx *CommandContext, cur *Cursor) error {
	start := cur.Checkpoint()
	tok, _ := cur.ReadString(SingleString)
	cluster := tok[1:]
	if cluster == "" {
		cur.Restore(start)
		return &NoFlagStartedError{Input: cur.RemainingInput()}
	}
	// A cluster of presence flags (-abc); a single flag may carry a value.
	if len(cluster) > 1 {
		for i := 0; i < len(cluster); i++ {
			f, ok := g.byShort[cluster[i]]
			if !ok {
				return &UnknownFlagError{Flag: string(cluster[i])}
			}
			if f.Value != nil {
				return &UnknownFlagError{Flag: string(cluster[i])} // value flags cannot cluster
			}
			if f.Permission != nil && !f.Permission(ctx) {
				return &FlagNoPermissionError{Flag: f.Name}
			}
			if err := ctx.flags.recordPresence(f); err != nil {
				return err
			}
		}
		return nil
	}
	f, ok := g.byShort[cluster[0]]
	if !ok {
		return &UnknownFlagError{Flag: cluster}
	}
	return consumeFlagBody(f, ctx, cur)
}

func consumeFlag(f *Flag, ctx *CommandContext, cur *Cursor) error {
	return consumeFlagBody(f, ctx, cur)
}

func consumeFlagBody(f *Flag, ctx *CommandContext, cur *Cursor) error {
	if f.Permission != nil && !f.Permission(ctx) {
		return &FlagNoPermissionError{Flag: f.Name}
	}
	if f.Value == nil {
		return ctx.flags.recordPresence(f)
	}
	cur.SkipWhitespace()
	if cur.IsEmpty() || (cur.CanRead() && cur.Peek() == '-' && looksLikeFlag(cur.PeekString())) {
		return &FlagMissingArgumentError{Flag: f.Name}
	}
	value, err := f.Value.parseErased(ctx, cur)
	if err != nil {
		return &ArgumentParseError{Cause: err, Input: cur.RemainingInput(), ParserID: f.Value.typeName(), Caption_: CaptionArgParseAggregateComp}
	}
	return ctx.flags.record(f, value)
}
