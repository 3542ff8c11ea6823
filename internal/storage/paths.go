// ABOUTME: Default data locations following the XDG base directory spec.
// ABOUTME: Used when no snapshot path is configured.
package storage

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the snapshot file name inside the data directory.
const DefaultFileName = "clinic_data.json"

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "clinic")
}

// DefaultSnapshotPath returns the default snapshot path following XDG spec.
func DefaultSnapshotPath() string {
	return filepath.Join(DataDir(), DefaultFileName)
}
