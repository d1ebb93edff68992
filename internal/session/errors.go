package session

import "errors"

var (
	// ErrNoActiveSession is returned when a command needs a session and none exists.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionExists is returned when init is run over an existing session.
	ErrSessionExists = errors.New("session already exists")
	// ErrCorruptedSession is returned when the stored session cannot be decoded.
	ErrCorruptedSession = errors.New("session data corrupted")
	// ErrInvalidVariableName is returned for names that are not POSIX identifiers.
	ErrInvalidVariableName = errors.New("invalid variable name")
	// ErrInvalidValue is returned for values that are not valid UTF-8.
	ErrInvalidValue = errors.New("invalid variable value")
	// ErrStorageUnavailable is returned when no directory can hold session files.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
