package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
)

// Encode serializes s to JSON and base64-encodes it so the result can live in
// a single environment variable. Tracked values must be valid UTF-8, since
// JSON cannot carry other bytes losslessly.
func Encode(s *Session) (string, error) {
	for _, name := range slices.Sorted(maps.Keys(s.Tracked)) {
		c := s.Tracked[name]
		if err := ValidateValue(name, c.Value); err != nil {
			return "", err
		}
		if c.Previous != nil {
			if err := ValidateValue(name, *c.Previous); err != nil {
				return "", err
			}
		}
	}
	wire := *s
	if wire.Baseline == nil {
		wire.Baseline = map[string]uint64{}
	}
	if wire.Tracked == nil {
		wire.Tracked = map[string]TrackedChange{}
	}
	data, err := json.Marshal(&wire)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. Any failure is reported as ErrCorruptedSession and
// no partial session is returned.
func Decode(encoded string) (*Session, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w (bad base64): %v", ErrCorruptedSession, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Session
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w (bad json): %v", ErrCorruptedSession, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w (bad json): trailing data", ErrCorruptedSession)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w (bad shape): %v", ErrCorruptedSession, err)
	}
	return &s, nil
}

func (s *Session) validate() error {
	if s.ID == "" {
		return fmt.Errorf("missing id")
	}
	if s.Baseline == nil {
		return fmt.Errorf("missing baseline")
	}
	if s.Tracked == nil {
		return fmt.Errorf("missing tracked")
	}
	for name := range s.Baseline {
		if IsReserved(name) {
			return fmt.Errorf("baseline contains %s", name)
		}
	}
	for name, c := range s.Tracked {
		switch c.Kind {
		case KindSet:
		case KindUnset:
			if c.Previous == nil {
				return fmt.Errorf("unset of %s has no previous value", name)
			}
			if c.Value != "" {
				return fmt.Errorf("unset of %s carries a value", name)
			}
		default:
			return fmt.Errorf("unknown change kind %q for %s", c.Kind, name)
		}
	}
	return nil
}

// Load reads the session from the process environment. A missing or empty
// variable means no session and is not an error.
func Load() (*Session, error) {
	return LoadFrom(ParseEnviron(os.Environ()))
}

// LoadFrom is Load against an explicit environment.
func LoadFrom(env map[string]string) (*Session, error) {
	encoded := env[SessionVar]
	if encoded == "" {
		return nil, nil
	}
	return Decode(encoded)
}

// ExportStatement is the shell statement that stores s in the parent shell.
func ExportStatement(s *Session) (string, error) {
	encoded, err := Encode(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("export %s='%s'", SessionVar, encoded), nil
}
