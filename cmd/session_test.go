package cmd

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/envision/internal/session"
)

func TestInitEmitsSessionAndBanner(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})

	stdout, stderr, err := executeCommand(t, "session", "init")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "export ENVISION_SESSION='"))
	assert.True(t, strings.HasPrefix(lines[1], "export ENVISION_SESSION_ID='"))
	assert.Equal(t, "export ENVISION_TRACKED='0'", lines[2])
	assert.Equal(t, "export ENVISION_DIRTY='0'", lines[3])
	assert.Contains(t, stderr, "Session initialized")
	assert.Contains(t, stderr, "Variables captured: 3")

	applyStatements(t, stdout)
	s, err := session.Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, os.Getenv(session.SessionIDVar), s.ID)
	assert.True(t, s.InBaseline("PATH"))
	assert.False(t, s.InBaseline(session.SessionVar))
}

func TestInitTwiceRequiresFlag(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})
	run(t, "session", "init")

	stdout, _, err := executeCommand(t, "session", "init")
	assert.True(t, errors.Is(err, session.ErrSessionExists), "got %v", err)
	assert.Contains(t, err.Error(), "--force")
	assert.Contains(t, err.Error(), "--resume")
	assert.Empty(t, stdout)
}

func TestInitForceReplacesSession(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})
	run(t, "session", "init")
	run(t, "set", "FOO", "bar")

	_, stderr := run(t, "session", "init", "--force")
	assert.Contains(t, stderr, "Reinitializing session")

	s, err := session.Load()
	require.NoError(t, err)
	assert.Empty(t, s.Tracked)
	assert.True(t, s.InBaseline("FOO"))
}

func TestInitResume(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})
	run(t, "session", "init")
	run(t, "set", "FOO", "bar")
	id := os.Getenv(session.SessionIDVar)

	stdout, stderr := run(t, "session", "init", "--resume")
	assert.Contains(t, stderr, "Session resumed")
	assert.Contains(t, stdout, "export ENVISION_SESSION_ID='"+id+"'")
	assert.Contains(t, stdout, "export ENVISION_TRACKED='1'")
}

func TestResumeWithoutSession(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})

	stdout, _, err := executeCommand(t, "session", "init", "--resume")
	assert.True(t, errors.Is(err, session.ErrNoActiveSession), "got %v", err)
	assert.Empty(t, stdout)
}

func TestInitForceAndResumeAreExclusive(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})

	_, _, err := executeCommand(t, "session", "init", "--force", "--resume")
	assert.Error(t, err)
}

func TestInitOverCorruptedSession(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin", session.SessionVar: "not base64!"})

	stdout, _, err := executeCommand(t, "session", "init")
	assert.True(t, errors.Is(err, session.ErrCorruptedSession), "got %v", err)
	assert.Empty(t, stdout)

	_, stderr := run(t, "session", "init", "--force")
	assert.Contains(t, stderr, "corrupted")
	s, err := session.Load()
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSaveListRestorePrune(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	origNow := now
	now = func() time.Time { return t0 }
	t.Cleanup(func() { now = origNow })

	run(t, "session", "init")
	run(t, "set", "FOO", "bar")
	id := os.Getenv(session.SessionIDVar)

	_, stderr := run(t, "session", "save")
	assert.Contains(t, stderr, "Session saved")

	_, stderr = run(t, "session", "list")
	assert.Contains(t, stderr, "* "+id)
	assert.Contains(t, stderr, "1 tracked")

	run(t, "clear", "--force")
	assert.Empty(t, os.Getenv("FOO"))

	_, _, err := executeCommand(t, "session", "restore", id)
	assert.True(t, errors.Is(err, session.ErrSessionExists), "got %v", err)

	stdout, stderr := run(t, "session", "restore", id, "--force")
	assert.Contains(t, stdout, "export FOO='bar'")
	assert.Contains(t, stderr, "Session restored")
	assert.Equal(t, "bar", os.Getenv("FOO"))
	assert.Equal(t, "1", os.Getenv(session.TrackedCountVar))

	_, _, err = executeCommand(t, "session", "restore", "deadbeef", "--force")
	assert.ErrorContains(t, err, "no saved session")

	now = func() time.Time { return t0.Add(24 * time.Hour) }
	_, stderr = run(t, "session", "prune")
	assert.Contains(t, stderr, "Pruned 0")

	now = func() time.Time { return t0.Add(31 * 24 * time.Hour) }
	_, stderr = run(t, "session", "prune")
	assert.Contains(t, stderr, "removed "+id)
	assert.Contains(t, stderr, "Pruned 1")

	_, stderr = run(t, "session", "list")
	assert.Contains(t, stderr, "No saved sessions.")
}

func TestSaveWithoutStorageLocation(t *testing.T) {
	isolateEnv(t, map[string]string{"PATH": "/bin"})
	run(t, "session", "init")
	os.Unsetenv("XDG_DATA_HOME")
	os.Unsetenv("HOME")

	_, _, err := executeCommand(t, "session", "save")
	assert.True(t, errors.Is(err, session.ErrStorageUnavailable), "got %v", err)
}
