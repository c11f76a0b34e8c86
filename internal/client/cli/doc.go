// Package cli provides the interactive C⁴AT³ command-line client.
//
// It wires configuration, the local SQLite store, the session, the API
// client and the application services, and runs a REPL on top of them.
//
// Commands:
//   - register / login / logout / whoami
//   - usage: the plan allowance of the current cycle
//   - analyze <url> [type]: score a URL; the result is kept in history
//   - history: the most recent analyses of the signed-in user
//   - plans / checkout <plan>: list paid plans and start a payment
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the dispatch rules.
package cli
