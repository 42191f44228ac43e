package cmdkit

import (
	"context"
	"errors"
)

// ManagerSettings are the process-wide toggles a host configures once at
// startup.
type ManagerSettings struct {
	// LiberalFlagParsing allows flags to appear interleaved anywhere among
	// the tokens bound to a following greedy string argument, instead of
	// only after it.
	LiberalFlagParsing bool

	// AllowUnknownRoot makes Execute treat an unrecognized first literal as
	// "not ours" rather than a user-facing NoSuchCommandError — for hosts
	// that register only a subset of the literals another system owns.
	AllowUnknownRoot bool

	// OverrideExistingCommands lets a later Command() registration replace
	// an earlier one at the same path instead of failing with
	// OverlappingCommandError.
	OverrideExistingCommands bool
}

// ErrRootIgnored is what Execute reports instead of NoSuchCommandError when
// AllowUnknownRoot is set and the input's root literal matched nothing.
var ErrRootIgnored = errors.New("cmdkit: root command not recognized, ignored")

// RegistrationSink observes every command successfully added via
// CommandManager.Command — e.g. to mirror the tree into a host's own
// command listing or telemetry.
type RegistrationSink func(cmd *Command)

// PermissionChecker answers CommandManager.HasPermission on the host's
// behalf; it is independent of the per-component PermissionFn predicates,
// which already close over whatever check they need.
type PermissionChecker func(sender any, permission string) bool

// CommandManager is the single entry point a host embeds: command
// registration, dispatch, suggestions, and captioning all go through it.
type CommandManager struct {
	tree        *Tree
	coordinator *Coordinator
	sink        RegistrationSink
	checker     PermissionChecker
	captions    *CaptionRegistry
	settings    ManagerSettings
}

// NewCommandManager returns a manager backed by coordinator (a nil
// coordinator defaults to NewSimpleCoordinator) and reporting every
// registration to sink (nil is a valid no-op sink).
func NewCommandManager(coordinator *Coordinator, sink RegistrationSink) *CommandManager {
	if coordinator == nil {
		coordinator = NewSimpleCoordinator()
	}
	return &CommandManager{
		tree:        NewTree(),
		coordinator: coordinator,
		sink:        sink,
		captions:    NewCaptionRegistry(),
	}
}

// WithPermissionChecker installs the callback HasPermission delegates to,
// and returns m for chaining alongside the other With* builders.
func (m *CommandManager) WithPermissionChecker(fn PermissionChecker) *CommandManager {
	m.checker = fn
	return m
}

// Command builds cmd from b and handler and inserts it into the tree,
// honoring m.Settings().OverrideExistingCommands, then reports it to the
// registration sink.
func (m *CommandManager) Command(b *CommandBuilder, handler Handler) error {
	cmd := b.Build(handler)
	if err := m.tree.insertWithOverride(cmd, m.settings.OverrideExistingCommands); err != nil {
		return err
	}
	if m.sink != nil {
		m.sink(cmd)
	}
	return nil
}

// Execute parses and runs raw on behalf of sender, returning a channel that
// receives exactly one ExecuteResult. Cancel ctx to abort before the handler
// phase starts.
func (m *CommandManager) Execute(ctx context.Context, sender any, raw string) <-chan ExecuteResult {
	cur := NewCursor(raw)
	cc := NewCommandContext(ctx, sender, raw)
	cc.settings = &m.settings

	inner := m.coordinator.Dispatch(ctx, m.tree, cc, cur)
	out := make(chan ExecuteResult, 1)
	go func() {
		r := <-inner
		if m.settings.AllowUnknownRoot {
			if _, ok := r.Err.(*NoSuchCommandError); ok {
				r.Err = ErrRootIgnored
			}
		}
		out <- r
		close(out)
	}()
	return out
}

// SuggestAt returns completions for raw truncated at cursorPos. Unlike
// Execute, suggestion is inherently a single
// synchronous walk of the tree — there is no parse/handle split to
// schedule — so it returns directly rather than via a channel.
func (m *CommandManager) SuggestAt(ctx context.Context, sender any, raw string, cursorPos int) *Suggestions {
	cc := NewCommandContext(ctx, sender, raw)
	cc.settings = &m.settings
	return SuggestAt(m.tree, cc, raw, cursorPos)
}

// Suggest is SuggestAt with the cursor at the end of raw.
func (m *CommandManager) Suggest(ctx context.Context, sender any, raw string) *Suggestions {
	return m.SuggestAt(ctx, sender, raw, len(raw))
}

// Settings returns the mutable settings block a host configures at startup.
func (m *CommandManager) Settings() *ManagerSettings { return &m.settings }

// CaptionRegistry returns the registry used to render Captioned errors into
// end-user text, so a host can Set() overrides or add locales.
func (m *CommandManager) CaptionRegistry() *CaptionRegistry { return m.captions }

// HasPermission answers whether sender holds permission, delegating to the
// checker installed via WithPermissionChecker. With none installed, every
// permission is granted: no checker configured means no requirement enforced.
func (m *CommandManager) HasPermission(sender any, permission string) bool {
	if m.checker == nil {
		return true
	}
	return m.checker(sender, permission)
}
