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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Usage(ctx context.Context) error
	Analyze(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Plans(ctx context.Context) error
	Checkout(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, plans, help, exit"
	helpSignedIn  = "Available commands: whoami, usage, analyze <url> [type], history, plans, checkout <plan>, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the C⁴AT³ CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its arguments, and dispatches to methods on 'a'. Unknown
// commands are reported back to the user. The loop exits on EOF, on context
// cancellation, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                   show available commands
//	  - register               create an account
//	  - login                  authenticate
//	  - plans                  list paid plans
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - whoami                 show the signed-in account
//	  - usage                  show this cycle's allowance
//	  - analyze <url> [type]   score a URL
//	  - history                list recent analyses
//	  - plans                  list paid plans
//	  - checkout <plan>        start a payment
//	  - logout                 log out
//	  - exit | quit            leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("c4at3 %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "usage":
			_ = a.Usage(ctx)

		case "analyze":
			_ = a.Analyze(ctx, args)

		case "history":
			_ = a.History(ctx)

		case "plans":
			_ = a.Plans(ctx)

		case "checkout":
			_ = a.Checkout(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
