package cmdkit

import (
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// orderedChildren holds a Node's children as an order-preserving set, so
// that iteration order matches registration order unless re-sorted by
// values().
type orderedChildren struct{ m *linkedhashmap.Map }

func newOrderedChildren() *orderedChildren { return &orderedChildren{m: linkedhashmap.New()} }

func (o *orderedChildren) put(key string, n *Node) { o.m.Put(key, n) }

func (o *orderedChildren) get(key string) (*Node, bool) {
	v, found := o.m.Get(key)
	if !found {
		return nil, false
	}
	return v.(*Node), true
}

func (o *orderedChildren) remove(key string) { o.m.Remove(key) }

func (o *orderedChildren) size() int { return o.m.Size() }

// values returns children with literals sorted before variables/flag-groups,
// and within literals by name; variables and flag-groups otherwise keep
// registration (insertion) order.
func (o *orderedChildren) values() []*Node {
	raw := o.m.Values()
	out := make([]*Node, len(raw))
	for i, v := range raw {
		out[i] = v.(*Node)
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := out[i].component.Kind == KindLiteral, out[j].component.Kind == KindLiteral
		if li != lj {
			return li // literals sort before everything else
		}
		if li && lj {
			return out[i].component.Name < out[j].component.Name
		}
		return false // preserve insertion order among non-literals
	})
	return out
}

// aliasSet is an insertion-ordered set of literal names/aliases, used so
// suggestion output is deterministic.
type aliasSet struct{ s *linkedhashset.Set }

func newAliasSet(names ...string) *aliasSet {
	a := &aliasSet{s: linkedhashset.New()}
	for _, n := range names {
		a.s.Add(n)
	}
	return a
}

func (a *aliasSet) contains(name string) bool { return a.s.Contains(name) }

func (a *aliasSet) values() []string {
	raw := a.s.Values()
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = v.(string)
	}
	return out
}
