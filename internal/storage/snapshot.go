// ABOUTME: Snapshotter interface and the file-backed implementation.
// ABOUTME: Files are replaced atomically via a temp file and rename.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Snapshotter reads and writes the encoded snapshot document.
type Snapshotter interface {
	// Read returns the last written snapshot, or ErrNoSnapshot.
	Read() ([]byte, error)
	// Write replaces the snapshot with data.
	Write(data []byte) error
	// Location describes where the snapshot lives, for messages.
	Location() string
	Close() error
}

// Syncer is implemented by snapshotters that replicate to a remote.
type Syncer interface {
	Sync() error
}

// FileSnapshot stores the snapshot in a single file.
type FileSnapshot struct {
	path string
}

// Compile-time check that FileSnapshot implements Snapshotter.
var _ Snapshotter = (*FileSnapshot)(nil)

// NewFileSnapshot returns a snapshotter for path. The file is not touched until Write.
func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

// Location returns the file path.
func (f *FileSnapshot) Location() string {
	return f.path
}

// Read returns the file contents.
func (f *FileSnapshot) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Write atomically replaces the file with data.
func (f *FileSnapshot) Write(data []byte) error {
	return atomicWrite(f.path, data)
}

// Close is a no-op for files.
func (f *FileSnapshot) Close() error {
	return nil
}

// atomicWrite writes data to a temp file in the target directory and renames it into place,
// so a reader sees either the old file or the new one. The directory is synced after the rename.
func atomicWrite(path string, data []byte) (retErr error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".clinic-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return syncDir(dir)
}

// syncDir flushes a directory so a completed rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open data directory: %w", err)
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("sync data directory: %w", err)
	}
	return d.Close()
}
