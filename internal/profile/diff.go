package profile

import (
	"slices"
	"sort"

	"github.com/fakeyudi/envision/internal/session"
)

// ChangeKind tells whether a Change sets or unsets a variable.
type ChangeKind int

const (
	ChangeSet ChangeKind = iota
	ChangeUnset
)

// Change is one variable the profile script altered.
type Change struct {
	Kind  ChangeKind
	Name  string
	Value string // empty for unsets
}

// subshellNoise lists variables that differ between any parent shell and a
// fresh bash subshell.
var subshellNoise = []string{"_", "SHLVL", "BASH_EXECUTION_STRING"}

// IsNoise reports whether name is excluded from profile diffs. Reserved
// names are always noise, as are the names in extra.
func IsNoise(name string, extra ...string) bool {
	return slices.Contains(subshellNoise, name) ||
		session.IsReserved(name) ||
		slices.Contains(extra, name)
}

// Diff compares two environment snapshots. Sets come first, then unsets,
// each sorted by name.
func Diff(before, after map[string]string, noise ...string) []Change {
	var sets, unsets []Change

	for name, value := range after {
		if IsNoise(name, noise...) {
			continue
		}
		if old, ok := before[name]; ok && old == value {
			continue
		}
		sets = append(sets, Change{Kind: ChangeSet, Name: name, Value: value})
	}
	for name := range before {
		if IsNoise(name, noise...) {
			continue
		}
		if _, ok := after[name]; !ok {
			unsets = append(unsets, Change{Kind: ChangeUnset, Name: name})
		}
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	sort.Slice(unsets, func(i, j int) bool { return unsets[i].Name < unsets[j].Name })
	return append(sets, unsets...)
}
