package cmdkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_CommandAndExecuteRoundTrip(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	var got string
	require.NoError(t, mgr.Command(
		NewCommand("echo").Then(Required("msg", Str(GreedyString))),
		func(ctx *CommandContext) error {
			got = MustGetValue[string](ctx, "msg")
			return nil
		},
	))

	result := <-mgr.Execute(context.Background(), nil, "echo hello world")
	require.NoError(t, result.Err)
	require.Equal(t, "hello world", got)
}

func TestManager_RegistrationSinkObservesEveryCommand(t *testing.T) {
	var seen []string
	mgr := NewCommandManager(nil, func(cmd *Command) {
		seen = append(seen, cmd.Path[0].Name)
	})
	require.NoError(t, mgr.Command(NewCommand("one"), func(*CommandContext) error { return nil }))
	require.NoError(t, mgr.Command(NewCommand("two"), func(*CommandContext) error { return nil }))
	require.Equal(t, []string{"one", "two"}, seen)
}

func TestManager_OverlappingCommandRejectedByDefault(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	require.NoError(t, mgr.Command(NewCommand("dup"), func(*CommandContext) error { return nil }))
	err := mgr.Command(NewCommand("dup"), func(*CommandContext) error { return nil })
	var overlap *OverlappingCommandError
	require.ErrorAs(t, err, &overlap)
}

func TestManager_OverrideExistingCommandsReplacesHandler(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	mgr.Settings().OverrideExistingCommands = true

	var which string
	require.NoError(t, mgr.Command(NewCommand("dup"), func(*CommandContext) error { which = "first"; return nil }))
	require.NoError(t, mgr.Command(NewCommand("dup"), func(*CommandContext) error { which = "second"; return nil }))

	result := <-mgr.Execute(context.Background(), nil, "dup")
	require.NoError(t, result.Err)
	require.Equal(t, "second", which)
}

func TestManager_AllowUnknownRootReportsSentinelError(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	mgr.Settings().AllowUnknownRoot = true
	require.NoError(t, mgr.Command(NewCommand("known"), func(*CommandContext) error { return nil }))

	result := <-mgr.Execute(context.Background(), nil, "unknown")
	require.ErrorIs(t, result.Err, ErrRootIgnored)
}

func TestManager_WithoutAllowUnknownRootReportsNoSuchCommand(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	require.NoError(t, mgr.Command(NewCommand("known"), func(*CommandContext) error { return nil }))

	result := <-mgr.Execute(context.Background(), nil, "unknown")
	var notFound *NoSuchCommandError
	require.ErrorAs(t, result.Err, &notFound)
}

func TestManager_HasPermissionDelegatesToChecker(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	mgr.WithPermissionChecker(func(sender any, permission string) bool {
		return sender == "admin" && permission == "fly"
	})
	require.True(t, mgr.HasPermission("admin", "fly"))
	require.False(t, mgr.HasPermission("guest", "fly"))
}

func TestManager_HasPermissionDefaultsTrueWithNoChecker(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	require.True(t, mgr.HasPermission("anyone", "anything"))
}

func TestManager_SuggestReturnsChildLiterals(t *testing.T) {
	mgr := NewCommandManager(nil, nil)
	require.NoError(t, mgr.Command(NewCommand("teleport"), func(*CommandContext) error { return nil }))
	require.NoError(t, mgr.Command(NewCommand("tell"), func(*CommandContext) error { return nil }))

	sug := mgr.Suggest(context.Background(), nil, "te")
	var texts []string
	for _, s := range sug.Suggestions {
		texts = append(texts, s.Text)
	}
	require.ElementsMatch(t, []string{"teleport", "tell"}, texts)
}
