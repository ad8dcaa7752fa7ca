package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sprint(a ...any) string { return fmt.Sprintln(a...) }

type fakeExec struct {
	loggedIn bool
	calls    []string
	fail     error
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(_ context.Context, u string) error {
	return f.record("register " + u)
}
func (f *fakeExec) Login(_ context.Context, u string) error {
	f.loggedIn = true
	return f.record("login " + u)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Status(context.Context) error { return f.record("status") }
func (f *fakeExec) Request(_ context.Context, method, path, body string, _ map[string][]string) error {
	return f.record(strings.TrimSpace(method + " " + path + " " + body))
}
func (f *fakeExec) Burst(_ context.Context, path string, n int) error {
	return f.record(fmt.Sprintf("burst %s %d", path, n))
}
func (f *fakeExec) Health(context.Context) error { return f.record("health") }

func silence(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(sprint(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"help",
		"login alice",
		"status",
		"get /api/profile",
		`post /api/notes {"text": "hi"}`,
		"put /api/profile {}",
		"delete /api/notes/1",
		"burst /api/notes",
		"burst /api/notes 3",
		"health",
		"logout",
		"exit",
		"status",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login alice",
		"status",
		"GET /api/profile",
		`POST /api/notes {"text": "hi"}`,
		"PUT /api/profile {}",
		"DELETE /api/notes/1",
		"burst /api/notes 10",
		"burst /api/notes 3",
		"health",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndErrors(t *testing.T) {
	lines := silence(t)

	input := "get\nburst /x many\nfoobar\nstatus\nquit\n"
	exec := &fakeExec{loggedIn: true, fail: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{"status"}, exec.calls)
	assert.Contains(t, *lines, "Usage: get <path>")
	assert.Contains(t, *lines, "Usage: burst <path> [n]")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "error: boom")
	assert.Contains(t, *lines, "Bye!")
}
