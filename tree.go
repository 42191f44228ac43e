package cmdkit

import (
	"fmt"
	"reflect"
	"strings"
)

// Node is one vertex of the command tree: an optional Component (the root
// is anonymous), its children, and an optional terminal Command.
type Node struct {
	component *Component
	children  *orderedChildren
	terminal  *Command
	parent    *Node

	// senderPermissions accumulates, per sender type, the permission that
	// must hold for any command whose path passes through this node.
	senderPermissions map[reflect.Type]PermissionFn
}

func newNode(c *Component, parent *Node) *Node {
	return &Node{component: c, children: newOrderedChildren(), parent: parent, senderPermissions: map[reflect.Type]PermissionFn{}}
}

func (n *Node) describe() string {
	if n.component == nil {
		return "<root>"
	}
	return n.component.Name
}

func (n *Node) isVariableKind() bool {
	return n.component != nil && n.component.Kind != KindLiteral
}

// permissionForSender returns the command-level permission gating any
// terminal reachable through n for sender's type, falling back to a
// permission registered for sender-unconstrained commands.
func (n *Node) permissionForSender(sender any) (PermissionFn, bool) {
	if len(n.senderPermissions) == 0 {
		return nil, false
	}
	if fn, ok := n.senderPermissions[reflect.TypeOf(sender)]; ok {
		return fn, true
	}
	if fn, ok := n.senderPermissions[nil]; ok {
		return fn, true
	}
	return nil, false
}

// Tree is the merged prefix structure of all registered commands.
type Tree struct {
	root *Node
}

// NewTree returns an empty command tree.
func NewTree() *Tree { return &Tree{root: newNode(nil, nil)} }

// OverlappingCommandError is returned when two registrations would attach
// a terminal command to the same node.
type OverlappingCommandError struct{ Path string }

func (e *OverlappingCommandError) Error() string {
	return fmt.Sprintf("cmdkit: command already registered at %q", e.Path)
}

func childKey(c *Component) string {
	switch c.Kind {
	case KindLiteral:
		return "L:" + c.Name
	case KindFlagGroup:
		return fmt.Sprintf("F:%p", c.flagGroup)
	default:
		parserName := ""
		if c.parser != nil {
			parserName = c.parser.typeName()
		}
		return "V:" + c.Name + ":" + parserName
	}
}

// Insert walks cmd.Path from the root, creating nodes for any unmatched
// suffix, attaches the terminal command, and re-validates ambiguity for
// every node whose children changed.
func (t *Tree) Insert(cmd *Command) error { return t.insertWithOverride(cmd, false) }

// insertWithOverride is Insert, but when override is true a pre-existing
// terminal command at the target node is replaced instead of rejected —
// the mechanism behind ManagerSettings.OverrideExistingCommands.
func (t *Tree) insertWithOverride(cmd *Command, override bool) error {
	node := t.root
	for _, c := range cmd.Path {
		key := childKey(c)
		existing, ok := node.children.get(key)
		if !ok {
			existing = newNode(c, node)
			node.children.put(key, existing)
			if err := checkAmbiguity(node); err != nil {
				node.children.remove(key)
				return err
			}
		}
		node = existing
	}
	if node.terminal != nil && !override {
		return &OverlappingCommandError{Path: describePath(cmd.Path)}
	}
	node.terminal = cmd
	propagateSenderPermission(node, cmd)
	return nil
}

// checkAmbiguity enforces the tree's ambiguity rule. Determining whether
// two arbitrary parsers' first-token acceptance sets are disjoint is
// undecidable in general, so cmdkit applies a conservative, decidable
// rule instead: literal children never conflict with each other (distinct
// names) or with variable children (literals always win the tie-break),
// but a node may carry at most one non-literal (variable or flag-group)
// child, since nothing short of a user-supplied disjointness proof could
// justify calling two of them unambiguous.
func checkAmbiguity(parent *Node) error {
	var variableChildren []*Node
	for _, child := range parent.children.values() {
		if child.isVariableKind() {
			variableChildren = append(variableChildren, child)
		}
	}
	if len(variableChildren) <= 1 {
		return nil
	}
	offending := variableChildren[len(variableChildren)-1]
	return &AmbiguousNodeError{Parent: parent, Offending: offending, Siblings: variableChildren}
}

func propagateSenderPermission(node *Node, cmd *Command) {
	if cmd.Permission == nil {
		return
	}
	for n := node; n != nil; n = n.parent {
		n.senderPermissions[cmd.SenderType] = cmd.Permission
	}
}

// routeOutcome is the result of walking the tree for one execute call.
type routeOutcome struct {
	node *Node
	err  error
}

// route walks the tree from node, consuming tokens from cur and matching
// them against children until it reaches a terminal command or fails.
func route(node *Node, ctx *CommandContext, cur *Cursor) routeOutcome {
	cur.SkipWhitespace()
	if cur.IsEmpty() {
		if node.terminal != nil {
			return routeOutcome{node: node}
		}
		if child, ok := firstDefaultableChild(node, ctx); ok {
			return route(child, ctx, cur)
		}
		return routeOutcome{err: &InvalidSyntaxError{Expected: usageOf(node), CursorRemainder: ""}}
	}

	children := node.children.values()

	// Literals first, exact match wins immediately.
	peeked := cur.PeekString()
	for _, child := range children {
		c := child.component
		if c.Kind != KindLiteral {
			continue
		}
		if _, ok := c.matchesLiteralToken(peeked); !ok {
			continue
		}
		if c.Permission != nil && !c.Permission(ctx) {
			return routeOutcome{err: &NoPermissionError{Permission: permissionName(c.Permission)}}
		}
		_, _ = cur.ReadString(SingleString)
		ctx.withNode(child)
		return route(child, ctx, cur)
	}

	// Then variables/flag-groups, in registration order; unambiguous by
	// construction (checkAmbiguity rejects a second one at Insert time).
	for _, child := range children {
		c := child.component
		if c.Kind == KindLiteral {
			continue
		}
		if c.Permission != nil && !c.Permission(ctx) {
			return routeOutcome{err: &NoPermissionError{Permission: permissionName(c.Permission)}}
		}
		cp := cur.Checkpoint()
		if c.Kind == KindFlagGroup {
			if !looksLikeFlag(peeked) {
				continue
			}
			if err := parseFlagGroup(c.flagGroup, ctx, cur); err != nil {
				cur.Restore(cp)
				return routeOutcome{err: wrapFlagErr(err)}
			}
			ctx.withNode(child)
			return route(child, ctx, cur)
		}
		if c.parser != nil && c.parser.isGreedyFlagTail() && ctx.settings != nil && ctx.settings.LiberalFlagParsing {
			if tail := child.children.values(); len(tail) == 1 && tail[0].component.Kind == KindFlagGroup {
				text, err := parseLiberalTail(tail[0].component.flagGroup, ctx, cur)
				if err == nil {
					ctx.Set(c.Name, text)
					ctx.withNode(child)
					ctx.withNode(tail[0])
					return route(tail[0], ctx, cur)
				}
				cur.Restore(cp)
			}
		}
		if err := c.runPreprocessors(ctx, cur); err != nil {
			cur.Restore(cp)
			continue
		}
		value, err := c.parser.parseErased(ctx, cur)
		if err != nil {
			cur.Restore(cp)
			continue
		}
		ctx.Set(c.Name, value)
		ctx.Set(currentParsingComponentKey, c)
		ctx.withNode(child)
		return route(child, ctx, cur)
	}

	hasLiteralChildren := false
	for _, child := range children {
		if child.component.Kind == KindLiteral {
			hasLiteralChildren = true
			break
		}
	}
	if node.component == nil || (!hasLiteralChildren && len(children) == 0) {
		return routeOutcome{err: &NoSuchCommandError{Input: cur.RemainingInput()}}
	}
	return routeOutcome{err: &InvalidSyntaxError{Expected: usageOf(node), CursorRemainder: cur.RemainingInput()}}
}

// parseLiberalTail implements the LiberalFlagParsing interleaving case:
// flags recognized by g may appear anywhere among the remaining tokens;
// every other token is joined with a single space into the trailing
// greedy text.
func parseLiberalTail(g *FlagGroup, ctx *CommandContext, cur *Cursor) (string, error) {
	var parts []string
	for {
		cur.SkipWhitespace()
		if !cur.CanRead() {
			break
		}
		tok := cur.PeekString()
		if looksLikeFlag(tok) && g.recognizes(tok) {
			var err error
			if strings.HasPrefix(tok, "--") {
				err = consumeLongFlag(g, ctx, cur)
			} else {
				err = consumeShortCluster(g, ctx, cur)
			}
			if err != nil {
				return "", err
			}
			continue
		}
		t, _ := cur.ReadString(SingleString)
		parts = append(parts, t)
	}
	return strings.Join(parts, " "), nil
}

func wrapFlagErr(err error) error {
	switch err.(type) {
	case *UnknownFlagError, *DuplicateFlagError, *NoFlagStartedError, *FlagMissingArgumentError, *FlagNoPermissionError:
		return err
	default:
		return err
	}
}

// firstDefaultableChild returns the first optional-variable or flag-group
// child whose default can be attempted when the cursor is empty.
func firstDefaultableChild(node *Node, ctx *CommandContext) (*Node, bool) {
	for _, child := range node.children.values() {
		c := child.component
		switch c.Kind {
		case KindFlagGroup:
			return child, true
		case KindOptionalVariable:
			ctx.Set(currentParsingComponentKey, c)
			v, err := c.Default.resolve(ctx)
			if err != nil {
				continue
			}
			ctx.Set(c.Name, v)
			ctx.withNode(child)
			return child, true
		}
	}
	return nil, false
}

func permissionName(fn PermissionFn) string {
	return fmt.Sprintf("%p", fn)
}
