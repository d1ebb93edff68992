// Package export collects the shell statements a command wants the parent
// shell to evaluate. Nothing here touches the process environment.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fakeyudi/envision/internal/session"
)

// Op is the kind of an Intent.
type Op int

const (
	OpSet Op = iota
	OpUnset
)

// Intent is one queued environment mutation.
type Intent struct {
	Op    Op
	Name  string
	Value string
}

// Dialect is the statement syntax of the shell that evaluates the output.
type Dialect int

const (
	POSIX Dialect = iota
	Fish
)

// DialectFor maps a shell name to its dialect. Anything but fish is POSIX.
func DialectFor(shell string) Dialect {
	if shell == "fish" {
		return Fish
	}
	return POSIX
}

// Statement renders the intent as a single statement in dialect d.
func (i Intent) Statement(d Dialect) string {
	if d == Fish {
		if i.Op == OpUnset {
			return "set -e " + i.Name
		}
		return fmt.Sprintf("set -gx %s %s", i.Name, QuoteFish(i.Value))
	}
	if i.Op == OpUnset {
		return "unset " + i.Name
	}
	return fmt.Sprintf("export %s=%s", i.Name, Quote(i.Value))
}

// Exports is the ordered list of intents produced by one command.
type Exports struct {
	intents []Intent
	saved   *session.Session
}

// New returns an empty intents list.
func New() *Exports {
	return &Exports{}
}

// Set queues `export name='value'`.
func (e *Exports) Set(name, value string) {
	e.intents = append(e.intents, Intent{Op: OpSet, Name: name, Value: value})
}

// Unset queues `unset name`.
func (e *Exports) Unset(name string) {
	e.intents = append(e.intents, Intent{Op: OpUnset, Name: name})
}

// SaveSession queues the export of the encoded session and remembers it for
// UpdateBanner.
func (e *Exports) SaveSession(s *session.Session) error {
	encoded, err := session.Encode(s)
	if err != nil {
		return err
	}
	e.Set(session.SessionVar, encoded)
	e.saved = s
	return nil
}

// Session returns the last session passed to SaveSession.
func (e *Exports) Session() *session.Session {
	return e.saved
}

// Len is the number of queued intents.
func (e *Exports) Len() int {
	return len(e.intents)
}

// Project returns env as it will look once the parent shell has evaluated
// the queued statements. env is not modified.
func (e *Exports) Project(env map[string]string) map[string]string {
	out := make(map[string]string, len(env)+len(e.intents))
	for k, v := range env {
		out[k] = v
	}
	for _, i := range e.intents {
		if i.Op == OpUnset {
			delete(out, i.Name)
			continue
		}
		out[i.Name] = i.Value
	}
	return out
}

// UpdateBanner queues the display variables for the saved session, computed
// against the projected environment. It is a no-op when no session was saved.
func (e *Exports) UpdateBanner(env map[string]string) {
	s := e.saved
	if s == nil {
		return
	}
	dirty := "0"
	if session.IsDirty(s, e.Project(env)) {
		dirty = "1"
	}
	e.Set(session.SessionIDVar, s.ID)
	e.Set(session.TrackedCountVar, strconv.Itoa(len(s.Tracked)))
	e.Set(session.DirtyVar, dirty)
}

// Statements renders every intent in order.
func (e *Exports) Statements(d Dialect) []string {
	out := make([]string, len(e.intents))
	for n, i := range e.intents {
		out[n] = i.Statement(d)
	}
	return out
}

// Flush writes every statement to w, one per line. A value may span lines,
// so the reader has to evaluate the output as a whole.
func (e *Exports) Flush(w io.Writer, d Dialect) error {
	for _, stmt := range e.Statements(d) {
		if _, err := fmt.Fprintln(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Quote wraps v in single quotes, escaping embedded single quotes as '\''.
func Quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

var fishQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// QuoteFish wraps v in fish single quotes, where only \ and ' are escaped.
func QuoteFish(v string) string {
	return "'" + fishQuoter.Replace(v) + "'"
}
