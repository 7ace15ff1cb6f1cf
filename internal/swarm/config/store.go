package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// Store persists the NodeConfig record as a single JSON file. There is no
// locking: the tool is single-process and concurrent invocations racing on
// the record are last-writer-wins.
type Store struct {
	path string
}

// NewStore creates a store writing the record at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a record has been persisted.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted record. If none exists, the default record is
// created, persisted, and returned — a side-effecting read, so first-run
// callers always observe a usable record on disk.
func (s *Store) Load() (*NodeConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read node record: %w", err)
		}
		cfg := DefaultNodeConfig()
		if err := s.Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to persist default record: %w", err)
		}
		return cfg, nil
	}

	var cfg NodeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse node record %s: %w", s.path, err)
	}
	return &cfg, nil
}

// Save writes the record atomically (temp file + rename) so a crash cannot
// leave a half-written record behind.
func (s *Store) Save(cfg *NodeConfig) error {
	cfg.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode node record: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write node record: %w", err)
	}
	return nil
}

// Delete removes the persisted record. A missing record is success.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove node record: %w", err)
	}
	return nil
}
