// Package session holds the change-tracking model for a single shell.
//
// A Session is never kept in a long-lived process. Every invocation decodes it
// from the ENVISION_SESSION variable, mutates it, and hands the re-encoded value
// back to the parent shell as an export statement.
package session

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Session is the tracking state of one shell instance.
type Session struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"` // unix seconds of baseline capture
	// Baseline maps every variable present at creation to the fingerprint of
	// its value. Values themselves are never stored.
	Baseline map[string]uint64 `json:"baseline"`
	// Tracked holds the latest tool-initiated change per variable.
	Tracked map[string]TrackedChange `json:"tracked"`
}

// ChangeKind discriminates the two TrackedChange variants.
type ChangeKind string

const (
	KindSet   ChangeKind = "set"
	KindUnset ChangeKind = "unset"
)

// TrackedChange is either a Set{Value, Previous} or an Unset{Previous}.
// Previous is nil on a Set that introduced a variable the tool had never seen;
// an Unset always carries a Previous.
type TrackedChange struct {
	Kind     ChangeKind `json:"kind"`
	Value    string     `json:"value,omitempty"`
	Previous *string    `json:"previous,omitempty"`
}

// SetChange builds a Set variant.
func SetChange(value string, previous *string) TrackedChange {
	return TrackedChange{Kind: KindSet, Value: value, Previous: previous}
}

// UnsetChange builds an Unset variant.
func UnsetChange(previous string) TrackedChange {
	return TrackedChange{Kind: KindUnset, Previous: &previous}
}

// OverwriteKind describes what a set replaced.
type OverwriteKind int

const (
	OverwriteNone OverwriteKind = iota
	OverwriteTracked
	// OverwriteUntracked is only reachable if previous values can come from
	// somewhere other than the ledger. With fingerprint-only baselines it is
	// never produced.
	OverwriteUntracked
)

func (k OverwriteKind) String() string {
	switch k {
	case OverwriteTracked:
		return "tracked"
	case OverwriteUntracked:
		return "untracked"
	default:
		return "none"
	}
}

// PreviousKind describes where an unset variable came from.
type PreviousKind int

const (
	PreviousUntracked PreviousKind = iota
	PreviousTracked
	PreviousOriginal
)

func (k PreviousKind) String() string {
	switch k {
	case PreviousTracked:
		return "tracked"
	case PreviousOriginal:
		return "original"
	default:
		return "untracked"
	}
}

// SetResult is returned by TrackSet for display.
type SetResult struct {
	Previous  *string
	Overwrite OverwriteKind
}

// UnsetResult is returned by TrackUnset for display.
type UnsetResult struct {
	Previous     *string
	PreviousKind PreviousKind
}

// New captures a baseline from env and returns a session with an empty ledger.
// envision's own variables never enter the baseline.
func New(env map[string]string) *Session {
	return newAt(env, os.Getpid(), time.Now())
}

func newAt(env map[string]string, pid int, now time.Time) *Session {
	created := now.Unix()
	baseline := make(map[string]uint64, len(env))
	for name, value := range env {
		if IsReserved(name) {
			continue
		}
		baseline[name] = Fingerprint(value)
	}
	return &Session{
		ID:        newID(pid, created),
		CreatedAt: created,
		Baseline:  baseline,
		Tracked:   make(map[string]TrackedChange),
	}
}

// idNamespace seeds the name-based UUIDs used for session ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fakeyudi/envision/session"))

// newID returns 8 hex chars derived from pid and creation time.
func newID(pid int, created int64) string {
	u := uuid.NewSHA1(idNamespace, fmt.Appendf(nil, "%d:%d", pid, created))
	return u.String()[:8]
}

// Created returns the baseline capture time in UTC.
func (s *Session) Created() time.Time {
	return time.Unix(s.CreatedAt, 0).UTC()
}

// TrackSet records that the tool gave name the value value.
func (s *Session) TrackSet(name, value string) SetResult {
	previous := s.trackedValue(name)

	kind := OverwriteNone
	if _, ok := s.Tracked[name]; ok {
		kind = OverwriteTracked
	} else if previous != nil {
		kind = OverwriteUntracked
	}

	s.Tracked[name] = SetChange(value, previous)
	return SetResult{Previous: previous, Overwrite: kind}
}

// TrackUnset records that the tool removed name. Nothing is recorded when the
// prior value was never seen by the tool, since there would be nothing to
// restore later.
func (s *Session) TrackUnset(name string) UnsetResult {
	previous := s.trackedValue(name)

	kind := PreviousUntracked
	if _, ok := s.Tracked[name]; ok {
		kind = PreviousTracked
	} else if _, ok := s.Baseline[name]; ok {
		kind = PreviousOriginal
	}

	if previous != nil {
		s.Tracked[name] = UnsetChange(*previous)
	}
	return UnsetResult{Previous: previous, PreviousKind: kind}
}

// trackedValue is the last value the tool itself set for name, if any.
func (s *Session) trackedValue(name string) *string {
	c, ok := s.Tracked[name]
	if !ok || c.Kind != KindSet {
		return nil
	}
	v := c.Value
	return &v
}

// InBaseline reports whether name existed when the session was created.
func (s *Session) InBaseline(name string) bool {
	_, ok := s.Baseline[name]
	return ok
}

// BaselineChanged reports whether value differs from the baseline value of
// name. Names outside the baseline never count as changed.
func (s *Session) BaselineChanged(name, value string) bool {
	fp, ok := s.Baseline[name]
	if !ok {
		return false
	}
	return Fingerprint(value) != fp
}

// ClearTracked empties the ledger. The baseline is left alone.
func (s *Session) ClearTracked() {
	s.Tracked = make(map[string]TrackedChange)
}
