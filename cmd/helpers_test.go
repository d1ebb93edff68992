package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fakeyudi/envision/internal/session"
)

// executeCommand runs the root command with args. Statements and messages
// are captured separately, matching how the shell hook sees them.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeCommandWithInput(t, "", args...)
}

func executeCommandWithInput(t *testing.T, input string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	_, err = rootCmd.ExecuteC()
	return outBuf.String(), errBuf.String(), err
}

// resetFlags restores every flag to its default. Flag values live in package
// variables and would otherwise leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolateEnv replaces the process environment with vars plus a private HOME
// and XDG_DATA_HOME. The original environment is restored on cleanup.
func isolateEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	saved := os.Environ()
	home := t.TempDir()

	os.Clearenv()
	t.Cleanup(func() {
		os.Clearenv()
		for name, value := range session.ParseEnviron(saved) {
			os.Setenv(name, value)
		}
	})

	os.Setenv("HOME", home)
	os.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	for name, value := range vars {
		os.Setenv(name, value)
	}
}

// applyStatements does what the shell hook's eval would do.
func applyStatements(t *testing.T, stdout string) {
	t.Helper()
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "unset "):
			os.Unsetenv(strings.TrimPrefix(line, "unset "))
		case strings.HasPrefix(line, "export "):
			name, quoted, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
			if !ok {
				t.Fatalf("malformed statement %q", line)
			}
			os.Setenv(name, unquote(quoted))
		default:
			t.Fatalf("unexpected statement %q", line)
		}
	}
}

func unquote(q string) string {
	q = strings.TrimPrefix(q, "'")
	q = strings.TrimSuffix(q, "'")
	return strings.ReplaceAll(q, `'\''`, "'")
}

// run executes args, requires success and applies the emitted statements.
func run(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	stdout, stderr, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr:\n%s", args, err, stderr)
	}
	applyStatements(t, stdout)
	return stdout, stderr
}

// fakeTerminal makes confirmation prompts read from the command's stdin.
func fakeTerminal(t *testing.T) {
	t.Helper()
	orig := stdinIsTerminal
	stdinIsTerminal = func(io.Reader) bool { return true }
	t.Cleanup(func() { stdinIsTerminal = orig })
}
