// Package storage keeps copies of sessions on disk so they can outlive the
// shell that created them. The live session always stays in ENVISION_SESSION;
// this is only a snapshot shelf.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fakeyudi/envision/internal/session"
)

// ErrNotFound is returned by Load when no snapshot exists for an id.
var ErrNotFound = errors.New("saved session not found")

// Snapshot is a session saved to disk.
type Snapshot struct {
	SavedAt time.Time        `json:"saved_at"`
	Session *session.Session `json:"session"`
}

// Store persists session snapshots.
type Store interface {
	Save(s *session.Session, now time.Time) error
	Load(id string) (*Snapshot, error) // returns ErrNotFound if none exists
	List() ([]Snapshot, error)
	Delete(id string) error
	Prune(olderThan time.Duration, now time.Time) ([]string, error)
}

// diskStore writes one JSON file per session id.
type diskStore struct {
	dir string
}

// NewStore returns a Store under $XDG_DATA_HOME/envision/sessions or
// ~/.local/share/envision/sessions.
func NewStore() (Store, error) {
	dir, err := sessionsDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

func sessionsDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("%w: neither XDG_DATA_HOME nor HOME is set", session.ErrStorageUnavailable)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "envision", "sessions"), nil
}

// validID keeps ids from escaping the storage directory.
func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}

func (d *diskStore) path(id string) string {
	return filepath.Join(d.dir, id+".json")
}

// Save writes the snapshot atomically via a temp file + os.Rename.
func (d *diskStore) Save(s *session.Session, now time.Time) (err error) {
	if err := validID(s.ID); err != nil {
		return err
	}
	data, err := json.Marshal(Snapshot{SavedAt: now.UTC(), Session: s})
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, "session-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = os.Rename(tmpName, d.path(s.ID)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Load reads the snapshot for id.
func (d *diskStore) Load(id string) (*Snapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return d.read(d.path(id))
}

func (d *diskStore) read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read saved session: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Session == nil {
		return nil, fmt.Errorf("%w (%s)", session.ErrCorruptedSession, path)
	}
	return &snap, nil
}

// List returns all readable snapshots, newest first. Unreadable files are
// skipped.
func (d *diskStore) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}
	var out []Snapshot
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		snap, err := d.read(filepath.Join(d.dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, *snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// Delete removes the snapshot for id. Missing snapshots are not an error.
func (d *diskStore) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := os.Remove(d.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete saved session: %w", err)
	}
	return nil
}

// Prune deletes snapshots saved more than olderThan before now and returns
// their ids.
func (d *diskStore) Prune(olderThan time.Duration, now time.Time) ([]string, error) {
	snaps, err := d.List()
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-olderThan)
	var removed []string
	for _, snap := range snaps {
		if !snap.SavedAt.Before(cutoff) {
			continue
		}
		if err := d.Delete(snap.Session.ID); err != nil {
			return removed, err
		}
		removed = append(removed, snap.Session.ID)
	}
	sort.Strings(removed)
	return removed, nil
}
