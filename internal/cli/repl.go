package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate. The real
// App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Keygen(ctx context.Context) error
	Accounts(ctx context.Context) error
	AddAccount(ctx context.Context) error
	RotatePassword(ctx context.Context) error
	ToggleAccount(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	VerifyAccount(ctx context.Context) error
	Status(ctx context.Context) error
	Available(ctx context.Context) error
	Enrolled(ctx context.Context) error
	Timetable(ctx context.Context) error
	AddCourse(ctx context.Context) error
	DropCourse(ctx context.Context) error
	Targets(ctx context.Context) error
	AddTarget(ctx context.Context) error
	DeleteTarget(ctx context.Context) error
	RunBatch(ctx context.Context) error
	Logs(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Export(ctx context.Context) error
}

func printHelp() {
	printlnFn("Available commands:")
	printlnFn("  accounts | addaccount | rotate | toggle | delaccount | verify | status")
	printlnFn("  available | enrolled | timetable | addcourse | dropcourse")
	printlnFn("  targets | addtarget | deltarget | run")
	printlnFn("  logs [account] [success|failed] | stats <account> | export")
	printlnFn("  keygen | help | exit")
}

// runREPL starts the read-eval-print loop for the krsbot console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("krsbot%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printHelp()

		case "keygen":
			_ = a.Keygen(ctx)

		case "accounts":
			_ = a.Accounts(ctx)

		case "addaccount":
			_ = a.AddAccount(ctx)

		case "rotate":
			_ = a.RotatePassword(ctx)

		case "toggle":
			_ = a.ToggleAccount(ctx)

		case "delaccount":
			_ = a.DeleteAccount(ctx)

		case "verify":
			_ = a.VerifyAccount(ctx)

		case "status":
			_ = a.Status(ctx)

		case "available":
			_ = a.Available(ctx)

		case "enrolled":
			_ = a.Enrolled(ctx)

		case "timetable":
			_ = a.Timetable(ctx)

		case "addcourse":
			_ = a.AddCourse(ctx)

		case "dropcourse":
			_ = a.DropCourse(ctx)

		case "targets":
			_ = a.Targets(ctx)

		case "addtarget":
			_ = a.AddTarget(ctx)

		case "deltarget":
			_ = a.DeleteTarget(ctx)

		case "run":
			_ = a.RunBatch(ctx)

		case "logs":
			_ = a.Logs(ctx, args)

		case "stats":
			_ = a.Stats(ctx, args)

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
