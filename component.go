package cmdkit

import "fmt"

// ComponentKind enumerates the four shapes a Component can take.
type ComponentKind uint8

const (
	KindLiteral ComponentKind = iota
	KindRequiredVariable
	KindOptionalVariable
	KindFlagGroup
)

func (k ComponentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRequiredVariable:
		return "required-variable"
	case KindOptionalVariable:
		return "optional-variable"
	case KindFlagGroup:
		return "flag-group"
	default:
		return "unknown"
	}
}

// PermissionFn evaluates whether sender may use a component or command.
// The host supplies the concrete predicate.
type PermissionFn func(ctx *CommandContext) bool

// Preprocessor runs before a component's parser; returning an error
// rejects the component without consuming input.
type Preprocessor func(ctx *CommandContext, cur *Cursor) error

// erasedParser is the type-erased adapter every typed ArgumentParser[T] is
// boxed into so heterogeneous components can share one Node/Component
// representation, since Go methods cannot themselves be generic.
type erasedParser interface {
	parseErased(ctx *CommandContext, cur *Cursor) (any, error)
	parseFutureErased(goCtx goContext, cc *CommandContext, cur *Cursor) <-chan erasedResult
	typeName() string
	isGreedyFlagTail() bool
}

type erasedResult struct {
	value any
	err   error
}

type goContext = interface {
	Done() <-chan struct{}
}

type typedErasedParser[T any] struct {
	p    ArgumentParser[T]
	name string
}

func (t *typedErasedParser[T]) parseErased(ctx *CommandContext, cur *Cursor) (any, error) {
	r := t.p.Parse(ctx, cur)
	if v, ok := r.Value(); ok {
		return v, nil
	}
	return nil, r.Err()
}

func (t *typedErasedParser[T]) parseFutureErased(_ goContext, cc *CommandContext, cur *Cursor) <-chan erasedResult {
	ch := make(chan erasedResult, 1)
	goCtx := cc.Context
	go func() {
		defer close(ch)
		r := <-ParseFutureOf[T](t.p, goCtx, cc, cur)
		if v, ok := r.Value(); ok {
			ch <- erasedResult{value: v}
			return
		}
		ch <- erasedResult{err: r.Err()}
	}()
	return ch
}

func (t *typedErasedParser[T]) typeName() string { return t.name }

// isGreedyFlagTail reports whether the boxed parser is a greedy-flag-yielding
// string parser, the marker route() uses to recognize the
// liberal-flag-parsing interleaving case.
func (t *typedErasedParser[T]) isGreedyFlagTail() bool {
	m, ok := any(t.p).(interface{ isGreedyFlagTail() bool })
	return ok && m.isGreedyFlagTail()
}

// eraseParser boxes a typed ArgumentParser[T] into the erasedParser form
// Component/Node store internally.
func eraseParser[T any](p ArgumentParser[T], name string) erasedParser {
	return &typedErasedParser[T]{p: p, name: name}
}

// DefaultValueStrategy resolves the value an optional variable binds when
// the cursor yields no input at its position.
type DefaultValueStrategy interface {
	resolve(ctx *CommandContext) (any, error)
}

type constantDefault struct{ v any }

func (d constantDefault) resolve(*CommandContext) (any, error) { return d.v, nil }

// ConstantDefault always returns v.
func ConstantDefault[T any](v T) DefaultValueStrategy { return constantDefault{v: v} }

type dynamicDefault[T any] struct{ f func(ctx *CommandContext) ArgumentParseResult[T] }

func (d dynamicDefault[T]) resolve(ctx *CommandContext) (any, error) {
	r := d.f(ctx)
	if v, ok := r.Value(); ok {
		return v, nil
	}
	return nil, r.Err()
}

// DynamicDefault computes the default lazily and may itself fail.
func DynamicDefault[T any](f func(ctx *CommandContext) ArgumentParseResult[T]) DefaultValueStrategy {
	return dynamicDefault[T]{f: f}
}

type parsedDefault struct{ literal string }

func (d parsedDefault) resolve(ctx *CommandContext) (any, error) {
	comp, _ := ctx.Get(currentParsingComponentKey)
	c, ok := comp.(*Component)
	if !ok || c.parser == nil {
		return nil, fmt.Errorf("cmdkit: parsed default requires a component parser")
	}
	cur := NewCursor(d.literal)
	return c.parser.parseErased(ctx, cur)
}

// ParsedDefault re-parses literal through the component's own parser, so
// the default shares the same validation path as user input.
func ParsedDefault(literal string) DefaultValueStrategy { return parsedDefault{literal: literal} }

const currentParsingComponentKey = "\x00cmdkit.component"

// Component is a single slot in a command's grammar: literal, variable, or
// flag-group.
type Component struct {
	Name        string
	Kind        ComponentKind
	Aliases     *aliasSet // literals only
	Default     DefaultValueStrategy // optional variables only
	Permission  PermissionFn
	Preprocess  []Preprocessor
	Description string
	CaseInsensitiveLiteral bool

	parser       erasedParser        // variables and flag-values
	suggest      SuggestionProvider  // defaults to parser itself
	flagGroup    *FlagGroup          // flag-groups only
}

// Literal builds a literal component matched by exact string equality
// against name ∪ aliases.
func Literal(name string, aliases ...string) *Component {
	return &Component{Name: name, Kind: KindLiteral, Aliases: newAliasSet(append([]string{name}, aliases...)...)}
}

// Required builds a required-variable component bound to name, parsed by p.
func Required[T any](name string, p ArgumentParser[T]) *Component {
	c := &Component{Name: name, Kind: KindRequiredVariable, parser: eraseParser[T](p, name)}
	if sp, ok := p.(SuggestionProvider); ok {
		c.suggest = sp
	}
	return c
}

// Optional builds an optional-variable component with a default-value
// strategy consulted when the cursor yields no input at its position.
func Optional[T any](name string, p ArgumentParser[T], def DefaultValueStrategy) *Component {
	c := Required[T](name, p)
	c.Kind = KindOptionalVariable
	c.Default = def
	return c
}

// WithPermission attaches a permission predicate to the component.
func (c *Component) WithPermission(fn PermissionFn) *Component { c.Permission = fn; return c }

// WithPreprocessor appends a preprocessor to the component's chain.
func (c *Component) WithPreprocessor(p Preprocessor) *Component {
	c.Preprocess = append(c.Preprocess, p)
	return c
}

// WithSuggestions overrides the component's suggestion provider.
func (c *Component) WithSuggestions(sp SuggestionProvider) *Component { c.suggest = sp; return c }

// WithDescription sets the component's description.
func (c *Component) WithDescription(d string) *Component { c.Description = d; return c }

// CaseInsensitive marks a literal as matched case-insensitively.
func (c *Component) CaseInsensitive() *Component { c.CaseInsensitiveLiteral = true; return c }

// runPreprocessors evaluates the preprocessor chain in registration order;
// the first failure rejects the component without invoking its parser.
func (c *Component) runPreprocessors(ctx *CommandContext, cur *Cursor) error {
	snapshot := *cur
	for _, p := range c.Preprocess {
		if err := p(ctx, &snapshot); err != nil {
			return err
		}
	}
	return nil
}

func (c *Component) matchesLiteralToken(tok string) (string, bool) {
	if c.Kind != KindLiteral {
		return "", false
	}
	if c.CaseInsensitiveLiteral {
		for _, a := range c.Aliases.values() {
			if equalFold(a, tok) {
				return c.Name, true
			}
		}
		return "", false
	}
	return c.Name, c.Aliases.contains(tok)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
