package session

import "sort"

// DriftKind classifies an untracked difference from the baseline.
type DriftKind string

const (
	DriftChanged DriftKind = "changed"
	DriftRemoved DriftKind = "removed"
	DriftAdded   DriftKind = "added"
)

// DriftEntry names one variable that changed without the tool's involvement.
type DriftEntry struct {
	Name string    `json:"name"`
	Kind DriftKind `json:"kind"`
}

// Drifted lists every difference between env and the baseline that the ledger
// does not explain, sorted by name. Tracked and reserved names are never
// reported.
func Drifted(s *Session, env map[string]string) []DriftEntry {
	var out []DriftEntry

	for name, fp := range s.Baseline {
		if IsReserved(name) {
			continue
		}
		if _, ok := s.Tracked[name]; ok {
			continue
		}
		value, ok := env[name]
		switch {
		case !ok:
			out = append(out, DriftEntry{Name: name, Kind: DriftRemoved})
		case Fingerprint(value) != fp:
			out = append(out, DriftEntry{Name: name, Kind: DriftChanged})
		}
	}

	for name := range env {
		if IsReserved(name) {
			continue
		}
		if _, ok := s.Baseline[name]; ok {
			continue
		}
		if _, ok := s.Tracked[name]; ok {
			continue
		}
		out = append(out, DriftEntry{Name: name, Kind: DriftAdded})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CountUntracked is the number of differences reported by Drifted.
func CountUntracked(s *Session, env map[string]string) int {
	return len(Drifted(s, env))
}

// IsDirty reports whether any untracked change exists.
func IsDirty(s *Session, env map[string]string) bool {
	return CountUntracked(s, env) > 0
}
