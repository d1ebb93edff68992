package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrScriptExecutionFailed is matched by every *ScriptError.
var ErrScriptExecutionFailed = errors.New("profile script failed")

// ScriptError reports a profile script that exited non-zero.
type ScriptError struct {
	ExitCode int
	Stderr   string
}

func (e *ScriptError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("profile script failed (exit %d)", e.ExitCode)
	}
	return fmt.Sprintf("profile script failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ScriptError) Unwrap() error {
	return ErrScriptExecutionFailed
}

// sourceScript sources the profile with its stdout sent to stderr, so only
// the NUL-separated env dump reaches stdout.
const sourceScript = `. "$1" 1>&2 && env -0`

// Runner executes profile scripts.
type Runner struct {
	// Shell is the interpreter, "bash" when empty.
	Shell string
	// Env is the environment handed to the subshell, the inherited one when nil.
	Env []string
	Log *zap.Logger
}

// shellArgs returns the flags that stop the interpreter from reading startup
// files.
func shellArgs(shell string) []string {
	switch filepath.Base(shell) {
	case "bash":
		return []string{"--norc", "--noprofile"}
	case "zsh":
		return []string{"-f"}
	default:
		return nil
	}
}

// Run sources path in a non-interactive subshell and returns the environment
// it leaves behind. There is no timeout: a script that hangs hangs Run.
func (r *Runner) Run(ctx context.Context, path string) (map[string]string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "bash"
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	args := append(shellArgs(shell), "-c", sourceScript, "_", path)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Env = r.Env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("executing profile", zap.String("shell", shell), zap.String("path", path))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ScriptError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("failed to execute profile: %w", err)
	}

	env := ParseEnvDump(stdout.Bytes())
	log.Debug("profile environment captured", zap.Int("vars", len(env)))
	return env, nil
}

// ParseEnvDump parses `env -0` output. Entries without '=' are skipped.
func ParseEnvDump(data []byte) map[string]string {
	env := make(map[string]string)
	for _, entry := range bytes.Split(data, []byte{0}) {
		if len(entry) == 0 {
			continue
		}
		name, value, ok := strings.Cut(string(entry), "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}
	return env
}
