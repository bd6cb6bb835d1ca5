package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	offers(cmd string) bool
	settle(ctx context.Context)

	Go(ctx context.Context, path string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	New(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Filter(ctx context.Context, category string) error
	Stats(ctx context.Context) error
	Watch(ctx context.Context, id string) error
}

// commands that need an argument, with their usage line.
var usage = map[string]string{
	"go":     "Usage: go <path>",
	"edit":   "Usage: edit <id>",
	"delete": "Usage: delete <id>",
	"filter": "Usage: filter <category|all>",
	"watch":  "Usage: watch <id>",
}

// runREPL starts a simple read–eval–print loop for the FeedbackHub CLI.
//
// It reads a line from in, parses the first token as the command and
// dispatches to methods on a. Commands other than help, go, logout and
// exit/quit are only run when the current screen offers them. After every
// command the REPL lets a settle the route, so redirects caused by login,
// logout or a rejected token are rendered before the next prompt. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fh %s> ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if u, ok := usage[cmd]; ok && len(args) == 0 {
			printlnFn(u)
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "go":
			cmdErr = a.Go(ctx, args[0])

		case "logout":
			cmdErr = a.Logout(ctx)

		default:
			if !a.offers(aliasOf(cmd)) {
				if _, known := commandHelp[aliasOf(cmd)]; known {
					printlnFn(fmt.Sprintf("Command %q is not available here", cmd))
				} else {
					printlnFn("Unknown command:", cmd)
				}
				continue
			}
			cmdErr = dispatch(ctx, a, aliasOf(cmd), args)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		a.settle(ctx)
	}
}

func aliasOf(cmd string) string {
	switch cmd {
	case "l", "ls":
		return "list"
	default:
		return cmd
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.Login(ctx)
	case "register":
		return a.Register(ctx)
	case "list", "refresh":
		return a.List(ctx)
	case "new":
		return a.New(ctx)
	case "edit":
		return a.Edit(ctx, args[0])
	case "delete":
		return a.Delete(ctx, args[0])
	case "filter":
		return a.Filter(ctx, args[0])
	case "stats":
		return a.Stats(ctx)
	case "watch":
		return a.Watch(ctx, args[0])
	default:
		return fmt.Errorf("unhandled command %q", cmd)
	}
}

var commandHelp = map[string]string{
	"login":    "login            sign in",
	"register": "register         create an account",
	"list":     "list | refresh   reload and show feedback",
	"refresh":  "",
	"new":      "new              submit feedback",
	"edit":     "edit <id>        edit feedback within its edit window",
	"delete":   "delete <id>      delete feedback",
	"watch":    "watch <id>       follow the edit countdown of a record",
	"filter":   "filter <c|all>   show one category",
	"stats":    "stats            per-category counts",
}

var commandOrder = []string{"login", "register", "list", "new", "edit", "delete", "watch", "filter", "stats"}

func helpText(a execIface) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range commandOrder {
		if a.offers(c) {
			b.WriteString("  " + commandHelp[c] + "\n")
		}
	}
	b.WriteString("  go <path>        navigate (/login, /register, /dashboard, /admin)\n")
	if a.isLoggedIn() {
		b.WriteString("  logout           sign out\n")
	}
	b.WriteString("  exit | quit      leave the program")
	return b.String()
}
