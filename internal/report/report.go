// Package report builds a renderable snapshot of a session's state for
// `envision status --format`.
package report

import (
	"sort"
	"time"

	"github.com/fakeyudi/envision/internal/session"
)

// Status is the complete, renderable state of one session.
type Status struct {
	Session   Meta                 `json:"session"`
	Tracked   []Tracked            `json:"tracked"`
	Drift     []session.DriftEntry `json:"drift"`
	Untracked int                  `json:"untracked"`
	Total     int                  `json:"total"`
	Dirty     bool                 `json:"dirty"`
}

// Meta holds summary metadata about the session.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Baseline  int       `json:"baseline"` // number of variables captured
	Profile   string    `json:"profile,omitempty"`
}

// Tracked is one ledger entry in display form.
type Tracked struct {
	Name     string             `json:"name"`
	Kind     session.ChangeKind `json:"kind"`
	Value    string             `json:"value,omitempty"`
	Previous *string            `json:"previous,omitempty"`
}

// Build assembles the status of s against the live environment env.
func Build(s *session.Session, env map[string]string) *Status {
	tracked := make([]Tracked, 0, len(s.Tracked))
	for name, c := range s.Tracked {
		tracked = append(tracked, Tracked{Name: name, Kind: c.Kind, Value: c.Value, Previous: c.Previous})
	}
	sort.Slice(tracked, func(i, j int) bool { return tracked[i].Name < tracked[j].Name })

	drift := session.Drifted(s, env)
	if drift == nil {
		drift = []session.DriftEntry{}
	}

	return &Status{
		Session: Meta{
			ID:        s.ID,
			CreatedAt: s.Created(),
			Baseline:  len(s.Baseline),
			Profile:   env[session.ProfileVar],
		},
		Tracked:   tracked,
		Drift:     drift,
		Untracked: len(drift),
		Total:     len(tracked) + len(drift),
		Dirty:     len(drift) > 0,
	}
}

// State is "dirty" or "clean".
func (st *Status) State() string {
	if st.Dirty {
		return "dirty"
	}
	return "clean"
}
