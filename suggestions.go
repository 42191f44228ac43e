package cmdkit

import (
	"math"
	"sort"
	"strings"
)

// Suggestions and SuggestionsBuilder model completion results as
// string-range replacements: each Suggestion names the exact span of the
// original input it would replace, so a host can render or apply a
// suggestion without re-deriving which token it corresponds to.

// StringRange marks a half-open [Start, End) span of the original input a
// Suggestion replaces.
type StringRange struct{ Start, End int }

// Suggestion is one completion candidate for a span of the input.
type Suggestion struct {
	Range StringRange
	Text  string
}

// Expand widens s to cover a larger range, padding with the untouched
// portions of command outside s.Range; a suggestion may replace more than
// just the final token.
func (s *Suggestion) Expand(command string, r StringRange) *Suggestion {
	if r == s.Range {
		return s
	}
	var b strings.Builder
	if r.Start < s.Range.Start {
		b.WriteString(command[r.Start:s.Range.Start])
	}
	b.WriteString(s.Text)
	if r.End > s.Range.End {
		b.WriteString(command[s.Range.End:r.End])
	}
	return &Suggestion{Range: r, Text: b.String()}
}

// Suggestions is the merged, deduplicated, sorted result of one
// completion request.
type Suggestions struct {
	Range       StringRange
	Suggestions []*Suggestion
}

var emptySuggestions = &Suggestions{}

// SuggestionsBuilder accumulates candidate completions for one node
// during a suggestion walk.
type SuggestionsBuilder struct {
	Input              string
	Start              int
	Remaining          string
	RemainingLowerCase string
	result             []*Suggestion
}

func newSuggestionsBuilder(input string, start int) *SuggestionsBuilder {
	return &SuggestionsBuilder{
		Input:              input,
		Start:              start,
		Remaining:          input[start:],
		RemainingLowerCase: strings.ToLower(input[start:]),
	}
}

// Suggest registers text as a candidate replacement for the builder's span.
func (b *SuggestionsBuilder) Suggest(text string) *SuggestionsBuilder {
	if text != b.Remaining {
		b.result = append(b.result, &Suggestion{Range: StringRange{Start: b.Start, End: len(b.Input)}, Text: text})
	}
	return b
}

// Build finalizes the builder into a Suggestions value.
func (b *SuggestionsBuilder) Build() *Suggestions { return CreateSuggestion(b.Input, b.result) }

// CreateSuggestion merges a flat slice of Suggestion into one Suggestions,
// deduplicating by text and expanding every entry to their union range.
func CreateSuggestion(command string, suggestions []*Suggestion) *Suggestions {
	if len(suggestions) == 0 {
		return emptySuggestions
	}
	start, end := math.MaxInt32, math.MinInt32
	for _, s := range suggestions {
		if s.Range.Start < start {
			start = s.Range.Start
		}
		if s.Range.End > end {
			end = s.Range.End
		}
	}
	r := StringRange{Start: start, End: end}
	seen := map[string]struct{}{}
	out := make([]*Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if _, dup := seen[s.Text]; dup {
			continue
		}
		seen[s.Text] = struct{}{}
		out = append(out, s.Expand(command, r))
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Text) < strings.ToLower(out[j].Text) })
	return &Suggestions{Range: r, Suggestions: out}
}

// MergeSuggestions combines several Suggestions results produced by
// different children of the same node into one.
func MergeSuggestions(command string, all []*Suggestions) *Suggestions {
	if len(all) == 0 {
		return emptySuggestions
	}
	if len(all) == 1 {
		return all[0]
	}
	var flat []*Suggestion
	for _, s := range all {
		flat = append(flat, s.Suggestions...)
	}
	return CreateSuggestion(command, flat)
}

// SuggestAt walks tree from its root following fullInput up to cursorPos,
// then asks every child of the node it stops at for completions.
// Component-level permissions and command-level permissions (per sender
// type) are checked, so children the sender lacks permission for are not
// offered; a command's sender-type bound itself is not checked here.
func SuggestAt(tree *Tree, ctx *CommandContext, fullInput string, cursorPos int) *Suggestions {
	if cursorPos > len(fullInput) {
		cursorPos = len(fullInput)
	}
	truncated := fullInput[:cursorPos]
	cur := NewCursor(truncated)
	sctx := ctx.clone()
	sctx.Suggesting = true
	node, start := descendForSuggestions(tree.root, sctx, cur)
	return suggestChildrenOf(node, sctx, truncated, start)
}

// descendForSuggestions mirrors route's child-selection order (literals,
// then variables/flag-groups) but stops as soon as the remaining input is
// the token being completed, rather than failing outright the way route
// does for an unmatched token.
func descendForSuggestions(node *Node, ctx *CommandContext, cur *Cursor) (*Node, int) {
	cur.SkipWhitespace()
	start := cur.Pos
	if cur.IsEmpty() {
		return node, start
	}

	peeked := cur.PeekString()
	children := node.children.values()

	for _, child := range children {
		c := child.component
		if c.Kind != KindLiteral {
			continue
		}
		if _, ok := c.matchesLiteralToken(peeked); !ok {
			continue
		}
		if c.Permission != nil && !c.Permission(ctx) {
			continue
		}
		cp := cur.Checkpoint()
		_, _ = cur.ReadString(SingleString)
		if cur.IsEmpty() {
			cur.Restore(cp)
			return node, start
		}
		return descendForSuggestions(child, ctx, cur)
	}

	for _, child := range children {
		c := child.component
		if c.Kind == KindLiteral {
			continue
		}
		if c.Permission != nil && !c.Permission(ctx) {
			continue
		}
		cp := cur.Checkpoint()
		if c.Kind == KindFlagGroup {
			if !looksLikeFlag(peeked) {
				continue
			}
			if err := parseFlagGroup(c.flagGroup, ctx, cur); err != nil {
				cur.Restore(cp)
				continue
			}
			if cur.IsEmpty() {
				return node, start
			}
			return descendForSuggestions(child, ctx, cur)
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
		if cur.IsEmpty() {
			cur.Restore(cp)
			return node, start
		}
		ctx.Set(c.Name, value)
		return descendForSuggestions(child, ctx, cur)
	}

	return node, start
}

func suggestChildrenOf(node *Node, ctx *CommandContext, truncated string, start int) *Suggestions {
	children := node.children.values()
	var all []*Suggestions
	for _, child := range children {
		c := child.component
		if c.Permission != nil && !c.Permission(ctx) {
			continue
		}
		if fn, ok := child.permissionForSender(ctx.Sender); ok && !fn(ctx) {
			continue
		}
		b := newSuggestionsBuilder(truncated, start)
		switch c.Kind {
		case KindLiteral:
			all = append(all, literalSuggestions(c, b))
		case KindFlagGroup:
			all = append(all, flagGroupSuggestions(c.flagGroup, b))
		default:
			if c.suggest != nil {
				all = append(all, c.suggest.Suggestions(ctx, b))
			}
		}
	}
	return MergeSuggestions(truncated, all)
}

func literalSuggestions(c *Component, b *SuggestionsBuilder) *Suggestions {
	for _, alias := range c.Aliases.values() {
		if strings.HasPrefix(strings.ToLower(alias), b.RemainingLowerCase) {
			b.Suggest(alias)
		}
	}
	return b.Build()
}

func flagGroupSuggestions(g *FlagGroup, b *SuggestionsBuilder) *Suggestions {
	if !strings.HasPrefix(b.Remaining, "-") && b.Remaining != "" {
		return emptySuggestions
	}
	for _, f := range g.flags {
		for _, n := range f.names() {
			candidate := "-" + n
			if len(n) > 1 {
				candidate = "--" + n
			}
			if strings.HasPrefix(strings.ToLower(candidate), b.RemainingLowerCase) {
				b.Suggest(candidate)
			}
		}
	}
	return b.Build()
}
