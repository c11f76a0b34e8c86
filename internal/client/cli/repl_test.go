package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Usage(ctx context.Context) error  { f.calls = append(f.calls, "usage"); return nil }
func (f *fakeExec) Analyze(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "analyze")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) History(ctx context.Context) error {
	f.calls = append(f.calls, "history")
	return nil
}
func (f *fakeExec) Plans(ctx context.Context) error { f.calls = append(f.calls, "plans"); return nil }
func (f *fakeExec) Checkout(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "checkout")
	f.args = append(f.args, args)
	return errFake
}

var errFake = fmt.Errorf("handler failed")

// capturePrint swaps printlnFn for a recorder for the duration of the test.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)

	input := rdr(strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"whoami",
		"usage",
		"analyze https://example.com deep",
		"history",
		"PLANS",
		"checkout pro",
		"foobar",
		"logout",
		"exit",
		"login",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, input)

	assert.Equal(t, []string{"login", "whoami", "usage", "analyze", "history", "plans", "checkout", "logout"}, exec.calls,
		"commands after exit are not run")
	assert.Equal(t, [][]string{{"https://example.com", "deep"}, {"pro"}}, exec.args)

	assert.Contains(t, *out, helpAnonymous)
	assert.Contains(t, *out, helpSignedIn)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "c4at3 (status)> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "" }, rdr("plans"))
	require.Equal(t, []string{"plans"}, exec.calls, "last line without newline is still run")
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	capturePrint(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{}

	runREPL(ctx, exec, func() string { return "" }, rdr("plans\nplans\n"))
	assert.Empty(t, exec.calls)
}
