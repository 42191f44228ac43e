package cmdkit

import "fmt"

// CaptionKey identifies a canonical error/caption kind.
type CaptionKey string

// Built-in caption keys.
const (
	CaptionArgParseBoolean         CaptionKey = "argument.parse.failure.boolean"
	CaptionArgParseNumber          CaptionKey = "argument.parse.failure.number"
	CaptionArgParseChar            CaptionKey = "argument.parse.failure.char"
	CaptionArgParseEnum            CaptionKey = "argument.parse.failure.enum"
	CaptionArgParseString          CaptionKey = "argument.parse.failure.string"
	CaptionArgParseUUID            CaptionKey = "argument.parse.failure.uuid"
	CaptionArgParseRegex           CaptionKey = "argument.parse.failure.regex"
	CaptionArgParseColor           CaptionKey = "argument.parse.failure.color"
	CaptionArgParseDuration        CaptionKey = "argument.parse.failure.duration"
	CaptionArgParseDurationRange   CaptionKey = "argument.parse.failure.duration.range"
	CaptionArgParseAggregateMiss   CaptionKey = "argument.parse.failure.aggregate.missing"
	CaptionArgParseAggregateComp   CaptionKey = "argument.parse.failure.aggregate.component"
	CaptionArgParseEither          CaptionKey = "argument.parse.failure.either"
	CaptionFlagUnknown             CaptionKey = "argument.parse.failure.flag.unknown"
	CaptionFlagDuplicate           CaptionKey = "argument.parse.failure.flag.duplicate"
	CaptionFlagNoFlagStarted       CaptionKey = "argument.parse.failure.flag.no-flag-started"
	CaptionFlagMissingArgument     CaptionKey = "argument.parse.failure.flag.missing-argument"
	CaptionFlagNoPermission        CaptionKey = "argument.parse.failure.flag.no-permission"
	CaptionExceptionUnexpected     CaptionKey = "exception.unexpected"
	CaptionExceptionInvalidArg     CaptionKey = "exception.invalid-argument"
	CaptionExceptionNoSuchCommand  CaptionKey = "exception.no-such-command"
	CaptionExceptionNoPermission   CaptionKey = "exception.no-permission"
	CaptionExceptionInvalidSender  CaptionKey = "exception.invalid-sender"
	CaptionExceptionInvalidSyntax  CaptionKey = "exception.invalid-syntax"
)

// NoSuchCommandError is raised when the root has no matching literal child.
type NoSuchCommandError struct {
	Input string
}

func (e *NoSuchCommandError) Error() string {
	return fmt.Sprintf("cmdkit: no such command: %q", e.Input)
}
func (e *NoSuchCommandError) Caption() CaptionKey { return CaptionExceptionNoSuchCommand }
func (e *NoSuchCommandError) Variables() map[string]string {
	return map[string]string{"input": e.Input}
}

// InvalidSyntaxError is raised when an intermediate match fails with a
// non-empty cursor.
type InvalidSyntaxError struct {
	Expected      string
	CursorRemainder string
}

func (e *InvalidSyntaxError) Error() string {
	return fmt.Sprintf("cmdkit: invalid syntax, expected %q near %q", e.Expected, e.CursorRemainder)
}
func (e *InvalidSyntaxError) Caption() CaptionKey { return CaptionExceptionInvalidSyntax }
func (e *InvalidSyntaxError) Variables() map[string]string {
	return map[string]string{"expected": e.Expected, "remainder": e.CursorRemainder}
}

// NoPermissionError is raised when a permission predicate rejects the
// sender.
type NoPermissionError struct {
	Permission string
}

func (e *NoPermissionError) Error() string {
	return fmt.Sprintf("cmdkit: no permission: %q", e.Permission)
}
func (e *NoPermissionError) Caption() CaptionKey { return CaptionExceptionNoPermission }
func (e *NoPermissionError) Variables() map[string]string {
	return map[string]string{"permission": e.Permission}
}

// InvalidSenderError is raised when the terminal command's sender-type
// bound rejects the sender.
type InvalidSenderError struct {
	Actual, Expected string
}

func (e *InvalidSenderError) Error() string {
	return fmt.Sprintf("cmdkit: invalid sender: got %s, want %s", e.Actual, e.Expected)
}
func (e *InvalidSenderError) Caption() CaptionKey { return CaptionExceptionInvalidSender }
func (e *InvalidSenderError) Variables() map[string]string {
	return map[string]string{"actual": e.Actual, "expected": e.Expected}
}

// ArgumentParseError wraps a failure returned by any parser.
type ArgumentParseError struct {
	Cause     error
	Input     string
	ParserID  string
	Caption_  CaptionKey
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("cmdkit: argument parse failure in %s on %q: %v", e.ParserID, e.Input, e.Cause)
}
func (e *ArgumentParseError) Unwrap() error { return e.Cause }

// Caption prefers an explicitly assigned key, then a more specific key
// carried by Cause itself (e.g. a range violation), falling back to a
// generic invalid-argument caption.
func (e *ArgumentParseError) Caption() CaptionKey {
	if e.Caption_ != "" {
		return e.Caption_
	}
	if captioned, ok := e.Cause.(Captioned); ok {
		return captioned.Caption()
	}
	return CaptionExceptionInvalidArg
}

// Variables merges the envelope's own input/parser with any variables
// Cause itself contributes (e.g. the min/max of a range violation),
// letting a nested Captioned cause enrich the rendered message.
func (e *ArgumentParseError) Variables() map[string]string {
	vars := map[string]string{"input": e.Input, "parser": e.ParserID}
	if captioned, ok := e.Cause.(Captioned); ok {
		for k, v := range captioned.Variables() {
			if _, exists := vars[k]; !exists {
				vars[k] = v
			}
		}
	}
	return vars
}

// CommandExecutionError wraps a panic or error raised by a handler.
type CommandExecutionError struct {
	Cause error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("cmdkit: command execution failed: %v", e.Cause)
}
func (e *CommandExecutionError) Unwrap() error     { return e.Cause }
func (e *CommandExecutionError) Caption() CaptionKey { return CaptionExceptionUnexpected }
func (e *CommandExecutionError) Variables() map[string]string {
	return map[string]string{"cause": e.Cause.Error()}
}

// AmbiguousNodeError is raised at registration time.
type AmbiguousNodeError struct {
	Parent    *Node
	Offending *Node
	Siblings  []*Node
}

func (e *AmbiguousNodeError) Error() string {
	return fmt.Sprintf("cmdkit: ambiguous command node %q under %q", e.Offending.describe(), e.Parent.describe())
}

// Captioned is implemented by every canonical error kind so the caption
// registry can format it for end users: all end-user-visible failures pass
// through the caption registry for textual formatting.
type Captioned interface {
	error
	Caption() CaptionKey
	Variables() map[string]string
}

var (
	_ Captioned = (*NoSuchCommandError)(nil)
	_ Captioned = (*InvalidSyntaxError)(nil)
	_ Captioned = (*NoPermissionError)(nil)
	_ Captioned = (*InvalidSenderError)(nil)
	_ Captioned = (*ArgumentParseError)(nil)
	_ Captioned = (*CommandExecutionError)(nil)
)
