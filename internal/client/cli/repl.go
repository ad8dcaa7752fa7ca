package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const defaultBurst = 10

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, username string) error
	Login(ctx context.Context, username string) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Request(ctx context.Context, method, path, body string, query map[string][]string) error
	Burst(ctx context.Context, path string, n int) error
	Health(ctx context.Context) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
//	Not logged in: help, register [user], login [user], exit
//	Logged in:     help, status, get|delete <path>, post|put <path> [json],
//	               burst <path> [n], health, logout, exit
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gophauth %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, get, post, put, delete, burst, health, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx, arg(args, 0))

		case "login":
			err = a.Login(ctx, arg(args, 0))

		case "logout":
			err = a.Logout(ctx)

		case "status":
			err = a.Status(ctx)

		case "get", "delete":
			if len(args) == 0 {
				printlnFn("Usage:", cmd, "<path>")
				continue
			}
			method := http.MethodGet
			if cmd == "delete" {
				method = http.MethodDelete
			}
			err = a.Request(ctx, method, args[0], "", nil)

		case "post", "put":
			if len(args) == 0 {
				printlnFn("Usage:", cmd, "<path> [json]")
				continue
			}
			method := http.MethodPost
			if cmd == "put" {
				method = http.MethodPut
			}
			err = a.Request(ctx, method, args[0], strings.Join(args[1:], " "), nil)

		case "burst":
			if len(args) == 0 {
				printlnFn("Usage: burst <path> [n]")
				continue
			}
			n := defaultBurst
			if len(args) > 1 {
				if n, err = strconv.Atoi(args[1]); err != nil {
					printlnFn("Usage: burst <path> [n]")
					continue
				}
			}
			err = a.Burst(ctx, args[0], n)

		case "health":
			err = a.Health(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
