// Package keys manages the shared private-network secret. The key is the
// isolation primitive: every node in the swarm must hold a byte-identical
// copy, and the file is never regenerated once it exists.
package keys

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
)

// Kubo's pre-shared key file format.
const (
	formatTag   = "/key/swarm/psk/1.0.0/"
	encodingTag = "/base16/"
	keyBytes    = 32
)

// Manager handles swarm key generation and installation.
type Manager struct {
	logger *logger.Logger
}

// NewManager creates a new key manager.
func NewManager(log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDevelopment("keys")
	}

	return &Manager{
		logger: log,
	}
}

// Generate creates a new swarm key at path if none exists. An existing key
// is left untouched and its path returned: key content is immutable once
// created.
func (m *Manager) Generate(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		m.logger.Debug("swarm key exists, keeping it", "path", path)
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check key file: %w", err)
	}

	secret := make([]byte, keyBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}

	content := fmt.Sprintf("%s\n%s\n%s\n", formatTag, encodingTag, hex.EncodeToString(secret))
	if err := writeKeyFile(path, []byte(content)); err != nil {
		return "", err
	}

	m.logger.Info("generated swarm key", "path", path)
	return path, nil
}

// Install copies a caller-supplied key to dst with restrictive permissions.
// The source must exist and parse as a swarm key. If dst already holds the
// same bytes the install is a no-op success; a different existing key is
// refused rather than overwritten.
func (m *Manager) Install(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read swarm key %s: %w", src, err)
	}

	if err := validateContent(data); err != nil {
		return fmt.Errorf("%s is not a swarm key: %w", src, err)
	}

	if existing, err := os.ReadFile(dst); err == nil {
		if bytes.Equal(existing, data) {
			m.logger.Debug("swarm key already installed", "path", dst)
			return nil
		}
		return fmt.Errorf("a different swarm key already exists at %s, refusing to overwrite", dst)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check installed key: %w", err)
	}

	if err := writeKeyFile(dst, data); err != nil {
		return err
	}

	m.logger.Info("installed swarm key", "src", src, "dst", dst)
	return nil
}

// Validate checks that the file at path parses as a swarm key.
func Validate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read swarm key %s: %w", path, err)
	}
	if err := validateContent(data); err != nil {
		return fmt.Errorf("%s is not a swarm key: %w", path, err)
	}
	return nil
}

// validateContent checks the three-line key record: format tag, encoding
// tag, hex payload of the right width.
func validateContent(data []byte) error {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		return fmt.Errorf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != formatTag {
		return fmt.Errorf("unknown format tag %q", lines[0])
	}
	if lines[1] != encodingTag {
		return fmt.Errorf("unknown encoding tag %q", lines[1])
	}
	payload, err := hex.DecodeString(lines[2])
	if err != nil {
		return fmt.Errorf("payload is not hex: %w", err)
	}
	if len(payload) != keyBytes {
		return fmt.Errorf("payload is %d bytes, want %d", len(payload), keyBytes)
	}
	return nil
}

// writeKeyFile writes atomically: temp file in the same dir, restrictive
// permissions, then rename.
func writeKeyFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "swarmkey-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for key: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write key to temp file: %w", err)
	}

	if err := tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("failed to set permissions on temp key file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp key file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move key into place: %w", err)
	}

	return nil
}
