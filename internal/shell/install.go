// Package shell provides the hook scripts that let a shell evaluate the
// statements envision prints, and installs them on disk.
package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fakeyudi/envision/internal/config"
)

// Supported lists the shells envision has hooks for.
var Supported = []string{"bash", "zsh", "fish"}

// Hook returns the hook script for shell.
func Hook(shell string) (string, error) {
	switch shell {
	case "bash":
		return BashHook, nil
	case "zsh":
		return ZshHook, nil
	case "fish":
		return FishHook, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
}

// HookPath returns where Install writes the hook for shell.
func HookPath(shell string) (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hook."+shell), nil
}

// Install writes the hook file for shell and returns its path.
func Install(shell string) (string, error) {
	content, err := Hook(shell)
	if err != nil {
		return "", err
	}
	path, err := HookPath(shell)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing hook file: %w", err)
	}
	return path, nil
}

// IsInstalled reports whether the hook file exists on disk.
func IsInstalled(shell string) bool {
	path, err := HookPath(shell)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// RCFile names the startup file the source line belongs in.
func RCFile(shell string) string {
	switch shell {
	case "zsh":
		return "~/.zshrc"
	case "bash":
		return "~/.bashrc"
	case "fish":
		return "~/.config/fish/config.fish"
	default:
		return "~/." + shell + "rc"
	}
}

// DetectShell returns the base name of $SHELL when it is supported, else bash.
func DetectShell() string {
	shell := filepath.Base(os.Getenv("SHELL"))
	for _, s := range Supported {
		if s == shell {
			return shell
		}
	}
	return "bash"
}
