package cmdkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandBuilder_BuildCopiesPath(t *testing.T) {
	base := NewCommand("foo")
	withArg := base.Then(Required("n", Int64()))

	require.Len(t, base.path, 1, "Then must not mutate the receiver")
	require.Len(t, withArg.path, 2)
}

func TestCommandBuilder_RequiredAfterOptionalPanics(t *testing.T) {
	b := NewCommand("foo").
		Then(Optional("a", Int64(), ConstantDefault[int64](0))).
		Then(Required("b", Int64()))

	require.Panics(t, func() { b.Build(noopHandler) })
}

func TestCommandBuilder_WithSenderTypeSetsSenderType(t *testing.T) {
	type Console struct{}
	cmd := WithSenderType[*Console](NewCommand("stop")).Build(noopHandler)
	require.NotNil(t, cmd.SenderType)
	require.Equal(t, "*cmdkit.Console", cmd.SenderType.String())
}

func TestCommandBuilder_DescriptionAndPermissionCarryThrough(t *testing.T) {
	perm := func(*CommandContext) bool { return true }
	cmd := NewCommand("foo").
		WithDescription("does foo").
		WithPermission(perm).
		Build(noopHandler)

	require.Equal(t, "does foo", cmd.Description)
	require.NotNil(t, cmd.Permission)
}
