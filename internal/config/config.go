// ABOUTME: Clinic configuration management with backend selection.
// ABOUTME: Handles the config file, environment overrides, and the store factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
	"github.com/harperreed/clinic/internal/storage"
)

// Supported snapshot backends.
const (
	BackendJSON   = "json"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config stores clinic tool configuration.
type Config struct {
	// Backend selects the snapshot backend: "json" (default), "yaml", "sqlite", or "charm".
	Backend string `json:"backend,omitempty" env:"CLINIC_BACKEND"`

	// DataDir is the directory holding the snapshot.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/clinic.
	DataDir string `json:"data_dir,omitempty" env:"CLINIC_DATA_DIR"`

	// DataFile overrides the snapshot path entirely. Supports ~ expansion.
	DataFile string `json:"data_file,omitempty" env:"CLINIC_DATA_FILE"`
}

// GetBackend returns the configured backend, defaulting to "json".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendJSON
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// SnapshotPath returns where the selected backend keeps its snapshot.
func (c *Config) SnapshotPath() string {
	if c.DataFile != "" {
		return ExpandPath(c.DataFile)
	}
	name := storage.DefaultFileName
	switch c.GetBackend() {
	case BackendYAML:
		name = "clinic_data.yaml"
	case BackendSQLite:
		name = "clinic.db"
	}
	return filepath.Join(c.GetDataDir(), name)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// remotePuller is a snapshotter that can fetch remote state before loading.
type remotePuller interface {
	Pull() error
	Location() string
}

// pullRemote fetches remote state. A failure is logged and the local
// replica is used, so the CLI keeps working offline.
func pullRemote(logger *log.Logger, p remotePuller) {
	if err := p.Pull(); err != nil {
		logger.Warn("initial sync failed, using local data", "location", p.Location(), "err", err)
	}
}

// OpenStore creates the Store for the configured backend and loads it.
// A nil store means the backend could not be opened. A non-nil store with
// a non-nil error means the snapshot failed to load and the store is empty.
func (c *Config) OpenStore(logger *log.Logger) (*storage.Store, error) {
	path := c.SnapshotPath()
	opts := []storage.Option{storage.WithLogger(logger)}

	switch c.GetBackend() {
	case BackendJSON:
	case BackendYAML:
		opts = append(opts, storage.WithCodec(storage.YAMLCodec{}))
	case BackendSQLite:
		snap, err := storage.OpenSQLiteSnapshot(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithSnapshotter(snap))
	case BackendCharm:
		snap, err := storage.OpenCharmSnapshot()
		if err != nil {
			return nil, err
		}
		pullRemote(logger, snap)
		opts = append(opts, storage.WithSnapshotter(snap))
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}

	return storage.Open(path, opts...)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "clinic", "config.json")
}

// Load reads config from disk and applies CLINIC_* environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// LoadFile reads config from path. A missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
