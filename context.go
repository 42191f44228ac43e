package cmdkit

import "context"

// CommandContext is the per-invocation key→value store carried through
// parsing and execution. Keys are discriminated by name alone: two
// bindings with the same name collide regardless of the static type
// either was bound with.
type CommandContext struct {
	context.Context

	Sender      any
	RawInput    string
	Suggesting  bool // true while walking in suggestion mode

	values   map[string]any
	flags    *FlagValues
	nodes    []*Node // path of matched nodes, for suggestion-context lookup
	settings *ManagerSettings
}

// NewCommandContext creates a context for one Execute/Suggest call.
func NewCommandContext(ctx context.Context, sender any, rawInput string) *CommandContext {
	return &CommandContext{
		Context:  ctx,
		Sender:   sender,
		RawInput: rawInput,
		values:   make(map[string]any),
		flags:    newFlagValues(),
	}
}

// Get returns the value bound to name, or false if unset.
func (c *CommandContext) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Set binds name to value, overwriting any prior binding of that name
// regardless of which type bound it.
func (c *CommandContext) Set(name string, value any) {
	c.values[name] = value
}

// GetValue returns the value for name typed as T, or the zero value of T
// and false if name is unset or bound to an incompatible type.
func GetValue[T any](c *CommandContext, name string) (T, bool) {
	var zero T
	v, ok := c.values[name]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// MustGetValue panics if name is unset — for use inside handlers after a
// successful parse has guaranteed the binding exists.
func MustGetValue[T any](c *CommandContext, name string) T {
	v, ok := GetValue[T](c, name)
	if !ok {
		panic("cmdkit: no value bound for " + name)
	}
	return v
}

// Flags returns the FlagValues accessor for values parsed by this context's
// flag groups.
func (c *CommandContext) Flags() *FlagValues { return c.flags }

// clone produces an independent copy sharing no mutable state, used when
// the tree explores multiple candidate children: each candidate parses
// against its own context until one wins.
func (c *CommandContext) clone() *CommandContext {
	values := make(map[string]any, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}
	nodes := append([]*Node(nil), c.nodes...)
	return &CommandContext{
		Context:    c.Context,
		Sender:     c.Sender,
		RawInput:   c.RawInput,
		Suggesting: c.Suggesting,
		values:     values,
		flags:      c.flags.clone(),
		nodes:      nodes,
		settings:   c.settings,
	}
}

func (c *CommandContext) withNode(n *Node) { c.nodes = append(c.nodes, n) }
