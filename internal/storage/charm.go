// ABOUTME: Charm KV snapshotter that syncs the snapshot through Charm Cloud.
// ABOUTME: The whole document lives under one key and is synced after each write.
package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

const (
	charmDBName      = "clinic"
	charmHost        = "charm.2389.dev"
	charmSnapshotKey = "clinic:snapshot"
)

// CharmSnapshot stores the snapshot in a Charm KV database.
type CharmSnapshot struct {
	kv *kv.KV
	mu sync.Mutex
}

// Compile-time check that CharmSnapshot implements Snapshotter.
var (
	_ Snapshotter = (*CharmSnapshot)(nil)
	_ Syncer      = (*CharmSnapshot)(nil)
)

// OpenCharmSnapshot opens the clinic KV database, falling back to read-only
// when another process holds the lock. Call Pull to fetch remote state.
func OpenCharmSnapshot() (*CharmSnapshot, error) {
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(charmDBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}
	return &CharmSnapshot{kv: db}, nil
}

// Location names the KV database.
func (c *CharmSnapshot) Location() string {
	return "charm://" + charmDBName
}

// Read returns the stored snapshot.
func (c *CharmSnapshot) Read() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.kv.Get([]byte(charmSnapshotKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

// Write stores the snapshot and syncs it.
func (c *CharmSnapshot) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: database is locked by another process (MCP server?)")
	}
	if err := c.kv.Set([]byte(charmSnapshotKey), data); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	if err := c.kv.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	return nil
}

// Sync pushes local changes and pulls remote ones.
func (c *CharmSnapshot) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot sync: database is locked by another process (MCP server?)")
	}
	return c.kv.Sync()
}

// Pull fetches remote changes before the first load. A read-only replica
// is left as is; the process holding the lock keeps it in sync.
func (c *CharmSnapshot) Pull() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return nil
	}
	if err := c.kv.Sync(); err != nil {
		return fmt.Errorf("pull %s: %w", c.Location(), err)
	}
	return nil
}

// Close closes the KV database.
func (c *CharmSnapshot) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}
