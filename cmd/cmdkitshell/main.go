// Command cmdkitshell is a small interactive shell demonstrating a
// CommandManager wired to a real terminal: readline for line editing and
// tab-completion, pterm for colored output.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"go.cmdkit.dev/cmdkit"
)

type Sender struct {
	Name  string
	Admin bool
}

func main() {
	initDisplay()

	mgr := cmdkit.NewCommandManager(cmdkit.NewSimpleCoordinator(), func(cmd *cmdkit.Command) {
		pterm.Debug.Printfln("registered command: %s", describeCommand(cmd))
	})
	mgr.Settings().LiberalFlagParsing = true
	mgr.WithPermissionChecker(func(sender any, permission string) bool {
		s, ok := sender.(*Sender)
		return ok && s.Admin && permission != ""
	})

	registerCommands(mgr)

	sender := &Sender{Name: "you", Admin: true}

	repl, err := readline.NewEx(&readline.Config{
		Prompt:          "cmdkit> ",
		AutoComplete:    newCompleter(mgr, sender),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	defer repl.Close()

	pterm.Info.Println("cmdkit shell — type 'help', <tab> to complete, ctrl-D to quit")

	for {
		line, err := repl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runLine(mgr, sender, line)
	}
	pterm.Info.Println("goodbye")
}

func runLine(mgr *cmdkit.CommandManager, sender *Sender, line string) {
	result := <-mgr.Execute(context.Background(), sender, line)
	if result.Err == nil {
		return
	}
	if errors.Is(result.Err, cmdkit.ErrRootIgnored) {
		return
	}
	var captioned cmdkit.Captioned
	if errors.As(result.Err, &captioned) {
		pterm.Error.Println(mgr.CaptionRegistry().Format(captioned))
		return
	}
	pterm.Error.Println(result.Err.Error())
}

type completer struct {
	mgr    *cmdkit.CommandManager
	sender *Sender
}

func newCompleter(mgr *cmdkit.CommandManager, sender *Sender) *completer {
	return &completer{mgr: mgr, sender: sender}
}

// Do implements readline.AutoCompleter, translating a Suggestions result
// into the newLine/length shape readline expects: each candidate is the
// suffix still to be typed after the cursor, not the whole token.
func (c *completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	input := string(line[:pos])
	sug := c.mgr.SuggestAt(context.Background(), c.sender, input, pos)
	if sug == nil || len(sug.Suggestions) == 0 {
		return nil, 0
	}
	typed := input[sug.Range.Start:sug.Range.End]
	out := make([][]rune, 0, len(sug.Suggestions))
	for _, s := range sug.Suggestions {
		if !strings.HasPrefix(s.Text, typed) {
			continue
		}
		out = append(out, []rune(s.Text[len(typed):]))
	}
	return out, len([]rune(typed))
}

func describeCommand(cmd *cmdkit.Command) string {
	names := make([]string, len(cmd.Path))
	for i, c := range cmd.Path {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{Text: " INFO ", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: " ERROR ", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
	pterm.Debug.Prefix = pterm.Prefix{Text: " DEBUG ", Style: pterm.NewStyle(pterm.BgGray, pterm.FgBlack)}
}

func registerCommands(mgr *cmdkit.CommandManager) {
	must := func(err error) {
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
	}

	must(mgr.Command(
		cmdkit.NewCommand("help"),
		func(ctx *cmdkit.CommandContext) error {
			pterm.Info.Println("help, echo, set, teleport")
			return nil
		},
	))

	must(mgr.Command(
		cmdkit.NewCommand("echo").
			Then(cmdkit.Required("message", cmdkit.Str(cmdkit.GreedyString))),
		func(ctx *cmdkit.CommandContext) error {
			pterm.Println(cmdkit.MustGetValue[string](ctx, "message"))
			return nil
		},
	))

	verboseFlag := cmdkit.PresenceFlag("verbose", "v")
	timesFlag := cmdkit.ValueFlag("times", cmdkit.Int64Range(1, 10), "t")
	cooldownFlag := cmdkit.ValueFlag("cooldown", cmdkit.DurationRange(time.Second, time.Hour), "c")
	setFlags := cmdkit.NewFlagGroup(verboseFlag, timesFlag, cooldownFlag)

	must(mgr.Command(
		cmdkit.NewCommand("set").
			Then(cmdkit.Required("key", cmdkit.Str(cmdkit.SingleString))).
			Then(cmdkit.Required("value", cmdkit.Str(cmdkit.GreedyFlagYieldingString))).
			Flags(setFlags),
		func(ctx *cmdkit.CommandContext) error {
			key := cmdkit.MustGetValue[string](ctx, "key")
			value := cmdkit.MustGetValue[string](ctx, "value")
			times := int64(1)
			if v, ok := ctx.Flags().Value("times"); ok {
				times = v.(int64)
			}
			if v, ok := ctx.Flags().Value("cooldown"); ok {
				pterm.Info.Printfln("cooldown set to %s", cmdkit.FormatDuration(v.(time.Duration)))
			}
			for i := int64(0); i < times; i++ {
				if ctx.Flags().IsPresent("verbose") {
					pterm.Info.Printfln("%s = %s", key, value)
				} else {
					pterm.Println(fmt.Sprintf("%s=%s", key, value))
				}
			}
			return nil
		},
	))

	must(mgr.Command(
		cmdkit.NewCommand("teleport").
			WithPermission(func(ctx *cmdkit.CommandContext) bool { return true }).
			Then(cmdkit.Required("x", cmdkit.Float64())).
			Then(cmdkit.Required("y", cmdkit.Float64())).
			Then(cmdkit.Required("z", cmdkit.Float64())),
		func(ctx *cmdkit.CommandContext) error {
			x := cmdkit.MustGetValue[float64](ctx, "x")
			y := cmdkit.MustGetValue[float64](ctx, "y")
			z := cmdkit.MustGetValue[float64](ctx, "z")
			pterm.Info.Printfln("teleported to %.1f %.1f %.1f", x, y, z)
			return nil
		},
	))
}
