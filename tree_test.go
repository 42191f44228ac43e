package cmdkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree_InsertAndRouteLiteralPath(t *testing.T) {
	tree := NewTree()
	var ran bool
	require.NoError(t, tree.Insert(NewCommand("a").Literal("b").Build(func(*CommandContext) error {
		ran = true
		return nil
	})))

	ctx := NewCommandContext(context.Background(), nil, "a b")
	outcome := route(tree.root, ctx, NewCursor("a b"))
	require.NoError(t, outcome.err)
	require.NoError(t, outcome.node.terminal.Handler(ctx))
	require.True(t, ran)
}

func TestTree_InsertTwiceAtSamePathFails(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(NewCommand("dup").Build(noopHandler)))
	err := tree.Insert(NewCommand("dup").Build(noopHandler))
	var overlap *OverlappingCommandError
	require.ErrorAs(t, err, &overlap)
}

func TestTree_SecondVariableChildIsAmbiguous(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(
		NewCommand("set").Then(Required("key", Str(SingleString))).Build(noopHandler),
	))
	err := tree.Insert(
		NewCommand("set").Then(Required("amount", Int64())).Build(noopHandler),
	)
	var ambiguous *AmbiguousNodeError
	require.ErrorAs(t, err, &ambiguous)
}

func TestTree_LiteralWinsOverVariableSibling(t *testing.T) {
	tree := NewTree()
	var whichRan string
	require.NoError(t, tree.Insert(NewCommand("give").Literal("self").Build(func(*CommandContext) error {
		whichRan = "literal"
		return nil
	})))
	require.NoError(t, tree.Insert(NewCommand("give").Then(Required("target", Str(SingleString))).Build(func(*CommandContext) error {
		whichRan = "variable"
		return nil
	})))

	ctx := NewCommandContext(context.Background(), nil, "give self")
	outcome := route(tree.root, ctx, NewCursor("give self"))
	require.NoError(t, outcome.err)
	require.NoError(t, outcome.node.terminal.Handler(ctx))
	require.Equal(t, "literal", whichRan)
}

func TestTree_UnknownRootReportsNoSuchCommand(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(NewCommand("known").Build(noopHandler)))
	ctx := NewCommandContext(context.Background(), nil, "nope")
	outcome := route(tree.root, ctx, NewCursor("nope"))
	var notFound *NoSuchCommandError
	require.ErrorAs(t, outcome.err, &notFound)
}

func TestTree_UnmatchedVariableArgumentReportsInvalidSyntax(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(
		NewCommand("set").Then(Required("amount", Int64())).Build(noopHandler),
	))
	ctx := NewCommandContext(context.Background(), nil, "set notanumber")
	outcome := route(tree.root, ctx, NewCursor("set notanumber"))
	var invalid *InvalidSyntaxError
	require.ErrorAs(t, outcome.err, &invalid)
}

func TestTree_EmptyCursorAtRequiredVariableReportsPathPrefixedUsage(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(
		NewCommand("test").Then(Required("s", Str(GreedyString))).Build(noopHandler),
	))
	ctx := NewCommandContext(context.Background(), nil, "test")
	outcome := route(tree.root, ctx, NewCursor("test"))
	var invalid *InvalidSyntaxError
	require.ErrorAs(t, outcome.err, &invalid)
	require.Equal(t, "test <s>", invalid.Expected)
}

func TestTree_OptionalVariableDefaultsWhenCursorEmpty(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(
		NewCommand("set").
			Then(Optional("amount", Int64(), ConstantDefault[int64](5))).
			Build(noopHandler),
	))
	ctx := NewCommandContext(context.Background(), nil, "set")
	outcome := route(tree.root, ctx, NewCursor("set"))
	require.NoError(t, outcome.err)
	v, ok := GetValue[int64](ctx, "amount")
	require.True(t, ok)
	require.Equal(t, int64(5), v)
}

func TestTree_ParsedDefaultResolvesThroughComponentParser(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Insert(
		NewCommand("set").
			Then(Optional("amount", Int64(), ParsedDefault("100"))).
			Build(noopHandler),
	))
	ctx := NewCommandContext(context.Background(), nil, "set")
	outcome := route(tree.root, ctx, NewCursor("set"))
	require.NoError(t, outcome.err)
	v, ok := GetValue[int64](ctx, "amount")
	require.True(t, ok)
	require.Equal(t, int64(100), v)
}

func TestTree_PermissionDeniedOnLiteralChildFailsRoute(t *testing.T) {
	tree := NewTree()
	restricted := Literal("secret").WithPermission(func(*CommandContext) bool { return false })
	require.NoError(t, tree.Insert(
		NewCommand("admin").Then(restricted).Build(noopHandler),
	))
	ctx := NewCommandContext(context.Background(), nil, "admin secret")
	outcome := route(tree.root, ctx, NewCursor("admin secret"))
	var permErr *NoPermissionError
	require.ErrorAs(t, outcome.err, &permErr)
}

func TestTree_PermissionDeniedOnVariableChildFailsRoute(t *testing.T) {
	tree := NewTree()
	restricted := Required("amount", Int64()).WithPermission(func(*CommandContext) bool { return false })
	require.NoError(t, tree.Insert(
		NewCommand("set").Then(restricted).Build(noopHandler),
	))
	ctx := NewCommandContext(context.Background(), nil, "set 5")
	outcome := route(tree.root, ctx, NewCursor("set 5"))
	var permErr *NoPermissionError
	require.ErrorAs(t, outcome.err, &permErr)
}

func TestTree_LiberalFlagParsingInterleavesFlagsIntoGreedyTail(t *testing.T) {
	tree := NewTree()
	loud := PresenceFlag("loud")
	group := NewFlagGroup(loud)
	require.NoError(t, tree.Insert(
		NewCommand("say").
			Then(Required("message", Str(GreedyFlagYieldingString))).
			Flags(group).
			Build(noopHandler),
	))

	ctx := NewCommandContext(context.Background(), nil, "say hello --loud world")
	ctx.settings = &ManagerSettings{LiberalFlagParsing: true}
	outcome := route(tree.root, ctx, NewCursor("say hello --loud world"))
	require.NoError(t, outcome.err)

	msg, ok := GetValue[string](ctx, "message")
	require.True(t, ok)
	require.Equal(t, "hello world", msg)
	require.True(t, ctx.Flags().IsPresent("loud"))
}
