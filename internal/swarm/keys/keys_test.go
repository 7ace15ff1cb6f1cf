package keys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
)

func TestManager_Generate(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "key-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	log := logger.NewDevelopment("keys_test")
	m := NewManager(log)
	keyPath := filepath.Join(tmpDir, "swarm.key")

	// 1. Key doesn't exist, should be created
	path, err := m.Generate(keyPath)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if path != keyPath {
		t.Errorf("wrong path returned: got %s want %s", path, keyPath)
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("key file should have been created, but read failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "/key/swarm/psk/1.0.0/" {
		t.Errorf("wrong format tag: %q", lines[0])
	}
	if lines[1] != "/base16/" {
		t.Errorf("wrong encoding tag: %q", lines[1])
	}
	if len(lines[2]) != 64 {
		t.Errorf("payload should be 64 hex chars, got %d", len(lines[2]))
	}

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key file permissions: got %o want 600", info.Mode().Perm())
	}

	// 2. Key exists, second Generate must not change a byte
	if _, err := m.Generate(keyPath); err != nil {
		t.Fatalf("Generate on existing key failed: %v", err)
	}
	after, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("read after second generate failed: %v", err)
	}
	if string(after) != string(data) {
		t.Error("Generate changed the key file content")
	}
}

func TestManager_Install(t *testing.T) {
	tmpDir := t.TempDir()
	log := logger.NewDevelopment("keys_test")
	m := NewManager(log)

	src := filepath.Join(tmpDir, "bootstrap.key")
	if _, err := m.Generate(src); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	dst := filepath.Join(tmpDir, "repo", "swarm.key")
	if err := m.Install(src, dst); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	srcData, _ := os.ReadFile(src)
	dstData, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("installed key not readable: %v", err)
	}
	if string(srcData) != string(dstData) {
		t.Error("installed key differs from source")
	}

	// Re-installing the same key is a no-op success
	if err := m.Install(src, dst); err != nil {
		t.Errorf("re-install of identical key should succeed: %v", err)
	}

	// Installing a different key over it is refused
	other := filepath.Join(tmpDir, "other.key")
	if _, err := m.Generate(other); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := m.Install(other, dst); err == nil {
		t.Error("installing a different key over an existing one should fail")
	}
}

func TestManager_Install_MissingSource(t *testing.T) {
	m := NewManager(logger.NewDevelopment("keys_test"))

	err := m.Install(filepath.Join(t.TempDir(), "nope.key"), filepath.Join(t.TempDir(), "swarm.key"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestManager_Install_RejectsMalformedKey(t *testing.T) {
	tmpDir := t.TempDir()
	m := NewManager(logger.NewDevelopment("keys_test"))

	src := filepath.Join(tmpDir, "bad.key")
	if err := os.WriteFile(src, []byte("not a key\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := m.Install(src, filepath.Join(tmpDir, "swarm.key")); err == nil {
		t.Fatal("expected malformed key to be rejected")
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()
	m := NewManager(logger.NewDevelopment("keys_test"))

	good := filepath.Join(tmpDir, "good.key")
	if _, err := m.Generate(good); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := Validate(good); err != nil {
		t.Errorf("Validate should accept a generated key: %v", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"truncated", "/key/swarm/psk/1.0.0/\n/base16/\n"},
		{"wrong format tag", "/key/other/1.0.0/\n/base16/\n" + strings.Repeat("ab", 32) + "\n"},
		{"wrong encoding tag", "/key/swarm/psk/1.0.0/\n/base64/\n" + strings.Repeat("ab", 32) + "\n"},
		{"not hex", "/key/swarm/psk/1.0.0/\n/base16/\n" + strings.Repeat("zz", 32) + "\n"},
		{"short payload", "/key/swarm/psk/1.0.0/\n/base16/\nabcd\n"},
	}
	for _, tc := range tests {
		path := filepath.Join(tmpDir, tc.name+".key")
		if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := Validate(path); err == nil {
			t.Errorf("%s: expected validation failure", tc.name)
		}
	}
}
