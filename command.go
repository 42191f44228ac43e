package cmdkit

import "reflect"

// Handler is invoked once the tree reaches a terminal node with a
// satisfied cursor.
type Handler func(ctx *CommandContext) error

// HandlerFunc adapts a plain function literal; Command.Handler stores this
// type so a handler is always comparable to nil.
type HandlerFunc = Handler

// Command is an ordered sequence of components terminating in a handler.
type Command struct {
	Path            []*Component
	SenderType      reflect.Type // sender-type-bound; nil means unconstrained
	Permission      PermissionFn
	Description     string
	Handler         Handler
}

// CommandBuilder builds a Command via copy-on-write: every method returns
// a fresh builder so partial builders are freely shareable.
type CommandBuilder struct {
	path        []*Component
	senderType  reflect.Type
	permission  PermissionFn
	description string
}

// NewCommand starts a builder rooted at a literal named name.
func NewCommand(name string, aliases ...string) *CommandBuilder {
	return &CommandBuilder{path: []*Component{Literal(name, aliases...)}}
}

func (b *CommandBuilder) clone() *CommandBuilder {
	return &CommandBuilder{
		path:        append([]*Component(nil), b.path...),
		senderType:  b.senderType,
		permission:  b.permission,
		description: b.description,
	}
}

// Literal appends a literal component.
func (b *CommandBuilder) Literal(name string, aliases ...string) *CommandBuilder {
	n := b.clone()
	n.path = append(n.path, Literal(name, aliases...))
	return n
}

// Then appends an already-built Component (typically produced by the
// package-level Required[T]/Optional[T]/Flags constructors, which are
// generic and so cannot be CommandBuilder methods).
func (b *CommandBuilder) Then(c *Component) *CommandBuilder {
	n := b.clone()
	n.path = append(n.path, c)
	return n
}

// Flags appends a flag-group component built from g.
func (b *CommandBuilder) Flags(g *FlagGroup) *CommandBuilder {
	return b.Then(Flags(g))
}

// WithSenderType constrains the command to senders assignable to a T
// value.
func WithSenderType[T any](b *CommandBuilder) *CommandBuilder {
	n := b.clone()
	var zero T
	n.senderType = reflect.TypeOf(&zero).Elem()
	return n
}

// WithPermission attaches the command-level permission predicate.
func (b *CommandBuilder) WithPermission(fn PermissionFn) *CommandBuilder {
	n := b.clone()
	n.permission = fn
	return n
}

// WithDescription sets the command-level description.
func (b *CommandBuilder) WithDescription(d string) *CommandBuilder {
	n := b.clone()
	n.description = d
	return n
}

// Build validates the required-after-optional invariant and returns the
// immutable Command. Build panics on violation, since it is a programming
// error discoverable without running any input rather than a user-input
// failure.
func (b *CommandBuilder) Build(handler Handler) *Command {
	seenOptional := false
	for _, c := range b.path {
		switch c.Kind {
		case KindOptionalVariable:
			seenOptional = true
		case KindRequiredVariable:
			if seenOptional {
				panic("cmdkit: required component follows optional component in " + describePath(b.path))
			}
		}
	}
	return &Command{
		Path:        append([]*Component(nil), b.path...),
		SenderType:  b.senderType,
		Permission:  b.permission,
		Description: b.description,
		Handler:     handler,
	}
}

func describePath(path []*Component) string {
	s := ""
	for i, c := range path {
		if i > 0 {
			s += " "
		}
		s += c.Name
	}
	return s
}
