package cmdkit

import (
	"context"
	"fmt"
	"reflect"
)

// Executor runs task, synchronously or on some other goroutine/pool — a
// pluggable seam so a host can schedule parsing and handling wherever it
// likes. CommandContext already embeds context.Context for cancellation;
// Executor extends that same "bring your own runtime" shape to scheduling.
type Executor func(task func())

// inline runs task on the caller's goroutine — the Simple coordinator's
// executor for both phases.
func inline(task func()) { task() }

// ExecuteResult is what a Coordinator.Dispatch channel ultimately carries:
// the populated context plus a classified error, or nil on success.
type ExecuteResult struct {
	Context *CommandContext
	Err     error
}

// Coordinator is the policy object choosing when and where parse and
// handler execute.
type Coordinator struct {
	ParseExecutor  Executor
	HandleExecutor Executor
}

// NewSimpleCoordinator returns a coordinator that runs both phases
// synchronously on the caller's goroutine; its result channel is always
// already completed by the time Dispatch returns.
func NewSimpleCoordinator() *Coordinator {
	return &Coordinator{ParseExecutor: inline, HandleExecutor: inline}
}

// NewAsyncCoordinator returns a coordinator whose parse phase runs on
// parseExec and whose handler phase runs on handleExec. A nil Executor
// behaves like inline for that phase.
func NewAsyncCoordinator(parseExec, handleExec Executor) *Coordinator {
	if parseExec == nil {
		parseExec = inline
	}
	if handleExec == nil {
		handleExec = inline
	}
	return &Coordinator{ParseExecutor: parseExec, HandleExecutor: handleExec}
}

// Dispatch runs the full pipeline: walk the tree, gate on sender-type and
// permission, invoke the handler, and classify any failure. The returned
// channel receives exactly one ExecuteResult and is then closed; canceling
// ctx before the handler starts prevents it from starting at all.
func (c *Coordinator) Dispatch(ctx context.Context, tree *Tree, cc *CommandContext, cur *Cursor) <-chan ExecuteResult {
	out := make(chan ExecuteResult, 1)
	parseExec, handleExec := c.ParseExecutor, c.HandleExecutor
	if parseExec == nil {
		parseExec = inline
	}
	if handleExec == nil {
		handleExec = inline
	}

	parseExec(func() {
		if err := ctx.Err(); err != nil {
			out <- ExecuteResult{Context: cc, Err: err}
			close(out)
			return
		}

		outcome := route(tree.root, cc, cur)
		if outcome.err != nil {
			out <- ExecuteResult{Context: cc, Err: outcome.err}
			close(out)
			return
		}
		if err := gateTerminal(outcome.node.terminal, cc); err != nil {
			out <- ExecuteResult{Context: cc, Err: err}
			close(out)
			return
		}

		handleExec(func() {
			if err := ctx.Err(); err != nil {
				out <- ExecuteResult{Context: cc, Err: err}
				close(out)
				return
			}
			out <- ExecuteResult{Context: cc, Err: invokeHandler(outcome.node.terminal.Handler, cc)}
			close(out)
		})
	})

	return out
}

// gateTerminal applies sender-type and permission gating at dispatch
// time, once the full path has matched.
func gateTerminal(cmd *Command, cc *CommandContext) error {
	if cmd.SenderType != nil {
		actual := reflect.TypeOf(cc.Sender)
		if actual == nil || !actual.AssignableTo(cmd.SenderType) {
			actualName := "<nil>"
			if actual != nil {
				actualName = actual.String()
			}
			return &InvalidSenderError{Actual: actualName, Expected: cmd.SenderType.String()}
		}
	}
	if cmd.Permission != nil && !cmd.Permission(cc) {
		return &NoPermissionError{Permission: permissionName(cmd.Permission)}
	}
	return nil
}

// invokeHandler runs h, recovering any panic into a CommandExecutionError
// rather than letting it cross into the coordinator's goroutine: a
// handler that panics is a defect, but it must not take down every other
// in-flight command along with it.
func invokeHandler(h Handler, cc *CommandContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if cause, ok := r.(error); ok {
				err = &CommandExecutionError{Cause: cause}
			} else {
				err = &CommandExecutionError{Cause: fmt.Errorf("%v", r)}
			}
		}
	}()
	if cause := h(cc); cause != nil {
		return &CommandExecutionError{Cause: cause}
	}
	return nil
}
