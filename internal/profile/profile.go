// Package profile loads environment profile scripts. A profile is a shell
// script (*.profile.sh or *.envision) that is sourced in a clean subshell;
// the environment it leaves behind is diffed against the caller's to find
// the variables it sets and unsets.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fakeyudi/envision/internal/session"
)

// Extensions accepted for profile files.
var Extensions = []string{".profile.sh", ".envision"}

// ResolvePath makes a relative path absolute against cwd.
func ResolvePath(path, cwd string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

// ValidateExtension rejects files without a recognised profile extension.
func ValidateExtension(path string) error {
	name := filepath.Base(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return nil
		}
	}
	return fmt.Errorf("invalid profile extension: %q, must be .profile.sh or .envision", path)
}

// Check verifies that path exists, is a regular file and has a valid extension.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile file not found: %s", path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("profile path is a directory: %s", path)
	}
	return ValidateExtension(path)
}

// Name derives the display name for a profile. An already active profile
// name wins; otherwise the file name without its extension is used.
func Name(path, active string) string {
	if active != "" {
		return active
	}
	name := filepath.Base(path)
	for _, ext := range Extensions {
		if stem, ok := strings.CutSuffix(name, ext); ok {
			return stem
		}
	}
	return name
}

// Checksum fingerprints the profile contents so a later load can tell whether
// the file has been seen before.
func Checksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read profile for checksum: %w", err)
	}
	return strconv.FormatUint(session.Fingerprint(string(data)), 10), nil
}
