package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Status(ctx context.Context) error
	EditInfo(ctx context.Context) error
	ShowInfo(ctx context.Context) error
	AddContact(ctx context.Context) error
	RemoveContact(ctx context.Context) error
	Hold(ctx context.Context) error
	Deactivate(ctx context.Context) error
	Wipe(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the SafeHold host app.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("safehold> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: status, info, show, addcontact, delcontact, hold, deactivate, wipe, exit")

		case "status":
			_ = a.Status(ctx)

		case "info":
			_ = a.EditInfo(ctx)

		case "show":
			_ = a.ShowInfo(ctx)

		case "addcontact":
			_ = a.AddContact(ctx)

		case "delcontact":
			_ = a.RemoveContact(ctx)

		case "hold":
			_ = a.Hold(ctx)

		case "deactivate":
			_ = a.Deactivate(ctx)

		case "wipe":
			_ = a.Wipe(ctx)

		case "exit", "quit":
			return

		default:
			printlnFn(fmt.Sprintf("Unknown command: %s (try 'help')", cmd))
		}
	}
}
