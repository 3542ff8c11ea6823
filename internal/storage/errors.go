// ABOUTME: Error values returned by the patient store.
// ABOUTME: Not-found and duplicate outcomes are sentinels; I/O failures are PersistenceError.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is used by callers that turn a false outcome into an error.
	ErrNotFound = errors.New("patient not found")

	// ErrDuplicateID is used by callers that turn a rejected Add into an error.
	ErrDuplicateID = errors.New("patient ID already exists")

	// ErrReadingNotFound is used by callers that turn a false reading outcome into an error.
	ErrReadingNotFound = errors.New("reading not found")

	// ErrDuplicateReadingID is returned when a reading ID is already stored.
	ErrDuplicateReadingID = errors.New("reading ID already exists")

	// ErrNoSnapshot is returned by a Snapshotter when nothing has been saved yet.
	ErrNoSnapshot = errors.New("no snapshot")

	// ErrSyncUnsupported is returned by Store.Sync for local-only backends.
	ErrSyncUnsupported = errors.New("backend does not sync")
)

// PersistenceError reports a failed snapshot read or write.
// The in-memory collection stays authoritative when a save fails.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s snapshot %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
