// Package storage reads and writes small JSON documents on disk. Writes go
// through a temp file and rename under an advisory lock, so a crash or a
// second process never observes a half-written document.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const lockTimeout = 5 * time.Second

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrCorrupt indicates the document exists but is not valid JSON.
	ErrCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates another writer held the document's lock too long.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// Error wraps storage errors with the operation and path.
type Error struct {
	// Op is the operation that failed ("read", "write", "remove", "lock").
	Op string
	// Path is the document path.
	Path string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *Error) Unwrap() error { return e.Err }

// ReadJSON decodes the document at path into v. It returns ErrNotFound when
// the file does not exist and ErrCorrupt when it cannot be decoded.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return &Error{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Op: "read", Path: path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return nil
}

// WriteJSON atomically replaces the document at path with v.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}

	release, err := acquire(path, lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	if err := writeAtomic(path, data); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Remove deletes the document at path. A missing document is not an error.
func Remove(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	release, err := acquire(path, lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &Error{Op: "remove", Path: path, Err: err}
	}
	return nil
}
