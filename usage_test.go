package cmdkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func noopHandler(*CommandContext) error { return nil }

func mustInsert(t *testing.T, tree *Tree, cmd *Command) {
	t.Helper()
	require.NoError(t, tree.Insert(cmd))
}

func TestUsageOf_ListsImmediateChildren(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, NewCommand("a").Literal("1").Build(noopHandler))
	mustInsert(t, tree, NewCommand("a").Literal("2").Build(noopHandler))

	node, _ := tree.root.children.get("L:a")
	require.Equal(t, "a (1|2)", usageOf(node))
}

func TestUsageOf_SingleChildHasNoParens(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, NewCommand("a").Literal("b").Build(noopHandler))

	node, _ := tree.root.children.get("L:a")
	require.Equal(t, "a b", usageOf(node))
}

func TestUsageOf_RequiredVariableUsesAngleBracketsWithMatchedPrefix(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, NewCommand("test").Then(Required("s", Str(GreedyString))).Build(noopHandler))

	node, _ := tree.root.children.get("L:test")
	require.Equal(t, "test <s>", usageOf(node))
}

func TestSmartUsage_FoldsOptionalTail(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, NewCommand("foo").Build(noopHandler))
	mustInsert(t, tree, NewCommand("foo").Then(Required("n", Int64Range(0, 100))).Build(noopHandler))

	lines := smartUsage(tree.root)
	require.Equal(t, []string{"foo [<n>]"}, lines)
}

func TestAllUsage_ListsEveryExecutablePath(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, NewCommand("a").Literal("1").Build(noopHandler))
	mustInsert(t, tree, NewCommand("a").Literal("1").Literal("i").Build(noopHandler))

	lines := allUsage(tree.root, "")
	require.ElementsMatch(t, []string{"a 1", "a 1 i"}, lines)
}
