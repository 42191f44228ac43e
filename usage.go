package cmdkit

import "strings"

// Usage rendering covers cmdkit's four component kinds (literal,
// required-variable, optional-variable, flag-group), and feeds
// InvalidSyntaxError's Expected field.
const (
	usageVariableOpen  = "<"
	usageVariableClose = ">"
	usageOptionalOpen  = "["
	usageOptionalClose = "]"
	usageRequiredOpen  = "("
	usageRequiredClose = ")"
	usageOr            = "|"
)

// usageOf renders the expected continuation at node: the already-matched
// path leading to node, followed by one token per immediate child, for
// use in InvalidSyntaxError.Expected.
func usageOf(node *Node) string {
	prefix := pathPrefix(node)
	children := node.children.values()
	if len(children) == 0 {
		return prefix
	}
	parts := make([]string, 0, len(children))
	for _, child := range children {
		parts = append(parts, describeComponent(child.component))
	}
	tail := parts[0]
	if len(parts) > 1 {
		tail = usageRequiredOpen + strings.Join(parts, usageOr) + usageRequiredClose
	}
	if prefix == "" {
		return tail
	}
	return prefix + " " + tail
}

// pathPrefix renders the chain of already-matched components from the
// root down to and including node.
func pathPrefix(node *Node) string {
	var parts []string
	for n := node; n != nil && n.component != nil; n = n.parent {
		parts = append([]string{describeComponent(n.component)}, parts...)
	}
	return strings.Join(parts, " ")
}

func describeComponent(c *Component) string {
	switch c.Kind {
	case KindLiteral:
		return c.Name
	case KindRequiredVariable:
		return usageVariableOpen + c.Name + usageVariableClose
	case KindOptionalVariable:
		return usageOptionalOpen + c.Name + usageOptionalClose
	case KindFlagGroup:
		return usageOptionalOpen + "flags" + usageOptionalClose
	default:
		return c.Name
	}
}

// allUsage lists every complete, executable path reachable from node, one
// command line per path.
func allUsage(node *Node, prefix string) []string {
	var out []string
	if node.terminal != nil {
		out = append(out, prefix)
	}
	for _, child := range node.children.values() {
		line := describeComponent(child.component)
		if prefix != "" {
			line = prefix + " " + line
		}
		out = append(out, allUsage(child, line)...)
	}
	return out
}

// smartUsage renders one compressed line per immediate child of node,
// folding single-child chains and optional tails so a path like
// "foo" -> "<int>" collapses into "foo [<int>]".
func smartUsage(node *Node) []string {
	optional := node.terminal != nil
	var out []string
	for _, child := range node.children.values() {
		usage := smartUsageNode(child, optional, false)
		if usage != "" {
			out = append(out, usage)
		}
	}
	return out
}

func smartUsageNode(node *Node, optional, deep bool) string {
	var b strings.Builder
	if optional {
		b.WriteString(usageOptionalOpen)
		b.WriteString(describeComponent(node.component))
		b.WriteString(usageOptionalClose)
	} else {
		b.WriteString(describeComponent(node.component))
	}
	if deep {
		return b.String()
	}

	childOptional := node.terminal != nil
	children := node.children.values()

	switch len(children) {
	case 0:
		// leaf
	case 1:
		usage := smartUsageNode(children[0], childOptional, childOptional)
		if usage != "" {
			b.WriteString(" ")
			b.WriteString(usage)
		}
	default:
		var childUsage []string
		seen := map[string]struct{}{}
		for _, child := range children {
			usage := smartUsageNode(child, optional, true)
			if usage == "" {
				continue
			}
			if _, dup := seen[usage]; dup {
				continue
			}
			seen[usage] = struct{}{}
			childUsage = append(childUsage, usage)
		}
		if len(childUsage) == 1 {
			b.WriteString(" ")
			if childOptional {
				b.WriteString(usageOptionalOpen + childUsage[0] + usageOptionalClose)
			} else {
				b.WriteString(childUsage[0])
			}
		} else if len(childUsage) > 1 {
			openChar, closeChar := usageRequiredOpen, usageRequiredClose
			if childOptional {
				openChar, closeChar = usageOptionalOpen, usageOptionalClose
			}
			b.WriteString(" ")
			b.WriteString(openChar)
			b.WriteString(strings.Join(childUsage, usageOr))
			b.WriteString(closeChar)
		}
	}
	return b.String()
}
