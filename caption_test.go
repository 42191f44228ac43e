package cmdkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCaptionRegistry_FormatSubstitutesVariables(t *testing.T) {
	r := NewCaptionRegistry()
	err := &NoSuchCommandError{Input: "fly"}
	require.Equal(t, `Unknown command: fly`, r.Format(err))
}

func TestCaptionRegistry_SetOverridesTemplate(t *testing.T) {
	r := NewCaptionRegistry()
	r.Set(CaptionExceptionNoSuchCommand, "no command named <input> exists")
	err := &NoSuchCommandError{Input: "fly"}
	require.Equal(t, "no command named fly exists", r.Format(err))
}

func TestCaptionRegistry_UnregisteredKeyFallsBackToKeyItself(t *testing.T) {
	r := &CaptionRegistry{templates: map[CaptionKey]string{}}
	err := &NoPermissionError{Permission: "fly.use"}
	require.Equal(t, string(CaptionExceptionNoPermission), r.Format(err))
}

func TestCaptionRegistry_MultipleVariablesAllSubstituted(t *testing.T) {
	r := NewCaptionRegistry()
	err := &InvalidSenderError{Actual: "console", Expected: "*main.Player"}
	out := r.Format(err)
	require.Contains(t, out, "console")
	require.Contains(t, out, "*main.Player")
}

func TestCaptionRegistry_DurationRangeRendersHumanizedBounds(t *testing.T) {
	r := NewCaptionRegistry()
	cur := NewCursor("2h")
	result := DurationRange(time.Second, time.Minute).Parse(newParseCtx(), cur)
	var argErr *ArgumentParseError
	require.ErrorAs(t, result.Err(), &argErr)

	out := r.Format(argErr)
	require.Contains(t, out, FormatDuration(time.Second))
	require.Contains(t, out, FormatDuration(time.Minute))
}
