package session

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Reserved variable names managed by envision.
const (
	SessionVar         = "ENVISION_SESSION"
	SessionIDVar       = "ENVISION_SESSION_ID"
	TrackedCountVar    = "ENVISION_TRACKED"
	DirtyVar           = "ENVISION_DIRTY"
	ProfileVar         = "ENVISION_PROFILE"
	ProfileChecksumVar = "ENVISION_PROFILE_CHECKSUM"
	// ShellVar is set by the fish hook on the envision process only, to ask
	// for fish statements.
	ShellVar = "ENVISION_SHELL"
)

var reservedVars = []string{
	SessionVar,
	SessionIDVar,
	TrackedCountVar,
	DirtyVar,
	ProfileVar,
	ProfileChecksumVar,
	ShellVar,
}

// IsReserved reports whether name is one of envision's own variables.
func IsReserved(name string) bool {
	return slices.Contains(reservedVars, name)
}

var criticalVars = []string{
	"PATH", "HOME", "USER", "SHELL", "TERM", "LANG", "PWD", "OLDPWD",
	"LD_LIBRARY_PATH", "LD_PRELOAD",
}

// IsCritical reports whether name is system-critical. extra adds names on top
// of the built-in list.
func IsCritical(name string, extra ...string) bool {
	return slices.Contains(criticalVars, name) || slices.Contains(extra, name)
}

// ValidateName checks name against POSIX identifier rules.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidVariableName)
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		case i == 0:
			return fmt.Errorf("%w: %q must start with a letter or underscore", ErrInvalidVariableName, name)
		default:
			return fmt.Errorf("%w: %q contains invalid character %q", ErrInvalidVariableName, name, c)
		}
	}
	return nil
}

// ValidateValue rejects values that are not valid UTF-8. Such values cannot
// be stored in the session without being altered.
func ValidateValue(name, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: value of %s is not valid UTF-8", ErrInvalidValue, name)
	}
	return nil
}

// ParseEnviron turns KEY=VALUE pairs (as from os.Environ) into a map.
func ParseEnviron(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}
	return env
}
